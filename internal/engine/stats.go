package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RunSummary is the machine-readable result of one (left, right, topic)
// engine run.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Topic       string        `json:"topic"`
	LeftVenue   string        `json:"left_venue"`
	RightVenue  string        `json:"right_venue"`
	AlgoVersion string        `json:"algo_version"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`

	LeftMarkets       int            `json:"left_markets"`
	RightMarkets      int            `json:"right_markets"`
	CandidatePairs    int            `json:"candidate_pairs"`
	GatePassed        int            `json:"gate_passed"`
	GateFailed        int            `json:"gate_failed"`
	GateFailReasons   map[string]int `json:"gate_fail_reasons,omitempty"`
	Scored            int            `json:"scored"`
	BelowFloor        int            `json:"below_floor"`
	ExtractorSkipped  int            `json:"extractor_skipped"`
	AutoConfirmed     int            `json:"auto_confirmed"`
	AutoRejected      int            `json:"auto_rejected"`
	Suggested         int            `json:"suggested"`
	BracketSuppressed int            `json:"bracket_suppressed"`
	LinksWritten      int            `json:"links_written"`
	AutoRules         map[string]int `json:"auto_rules,omitempty"`
	ErrorKinds        map[string]int `json:"error_kinds,omitempty"`
	Warnings          []string       `json:"warnings,omitempty"`
}

func newRunSummary(runID, topic, left, right, algoVersion string) *RunSummary {
	return &RunSummary{
		RunID:           runID,
		Topic:           topic,
		LeftVenue:       left,
		RightVenue:      right,
		AlgoVersion:     algoVersion,
		StartedAt:       time.Now().UTC(),
		GateFailReasons: map[string]int{},
		AutoRules:       map[string]int{},
		ErrorKinds:      map[string]int{},
	}
}

// JSON renders the summary for non-TTY consumers.
func (s *RunSummary) JSON() string {
	raw, _ := json.MarshalIndent(s, "", "  ")
	return string(raw)
}

// Table renders the printable per-run table for CLI invocations.
func (s *RunSummary) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s  topic=%s  %s -> %s  (%s)\n",
		s.RunID, s.Topic, s.LeftVenue, s.RightVenue, s.AlgoVersion)
	fmt.Fprintf(&b, "  duration            %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  markets             left=%d right=%d\n", s.LeftMarkets, s.RightMarkets)
	fmt.Fprintf(&b, "  candidate pairs     %d\n", s.CandidatePairs)
	fmt.Fprintf(&b, "  gates               passed=%d failed=%d\n", s.GatePassed, s.GateFailed)
	for _, kv := range sortedCounts(s.GateFailReasons) {
		fmt.Fprintf(&b, "    fail %-18s %d\n", kv.k, kv.v)
	}
	fmt.Fprintf(&b, "  scored              %d (below floor %d)\n", s.Scored, s.BelowFloor)
	fmt.Fprintf(&b, "  auto                confirmed=%d rejected=%d\n", s.AutoConfirmed, s.AutoRejected)
	for _, kv := range sortedCounts(s.AutoRules) {
		fmt.Fprintf(&b, "    rule %-18s %d\n", kv.k, kv.v)
	}
	fmt.Fprintf(&b, "  bracket suppressed  %d\n", s.BracketSuppressed)
	fmt.Fprintf(&b, "  links written       %d (suggested=%d)\n", s.LinksWritten, s.Suggested)
	for _, kv := range sortedCounts(s.ErrorKinds) {
		fmt.Fprintf(&b, "  errors %-16s %d\n", kv.k, kv.v)
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}

type countKV struct {
	k string
	v int
}

func sortedCounts(m map[string]int) []countKV {
	out := make([]countKV, 0, len(m))
	for k, v := range m {
		out = append(out, countKV{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].v != out[j].v {
			return out[i].v > out[j].v
		}
		return out[i].k < out[j].k
	})
	return out
}
