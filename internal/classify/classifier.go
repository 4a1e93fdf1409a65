// Package classify assigns each normalized market one canonical topic.
// Rules fire in strict precedence: venue ticker prefix, venue category map,
// tag map, title keywords, then UNKNOWN. First hit wins.
package classify

import (
	"regexp"
	"strings"

	"github.com/pmxlab/crosslink/internal/domain"
)

// Source tags which rule family produced the classification.
type Source string

const (
	SourceTicker   Source = "TICKER"
	SourceCategory Source = "CATEGORY"
	SourceTags     Source = "TAGS"
	SourceTitle    Source = "TITLE"
	SourceMetadata Source = "METADATA"
	SourceFallback Source = "FALLBACK"
)

// Result is one classification outcome.
type Result struct {
	Topic      domain.Topic
	Confidence float64
	Source     Source
	Rule       string
}

// tickerPrefixes maps Kalshi series-ticker prefixes to topics. Longest
// prefix wins, so KXETHD beats KXETH when both are present.
var tickerPrefixes = []struct {
	prefix string
	topic  domain.Topic
}{
	{"KXBTCD", domain.TopicCryptoIntraday},
	{"KXETHD", domain.TopicCryptoIntraday},
	{"KXBTC", domain.TopicCryptoDaily},
	{"KXETH", domain.TopicCryptoDaily},
	{"KXSOL", domain.TopicCryptoDaily},
	{"KXXRP", domain.TopicCryptoDaily},
	{"KXDOGE", domain.TopicCryptoDaily},
	{"KXCPI", domain.TopicMacro},
	{"KXPCE", domain.TopicMacro},
	{"KXGDP", domain.TopicMacro},
	{"KXPAYROLL", domain.TopicMacro},
	{"KXU3", domain.TopicMacro},
	{"KXFED", domain.TopicRates},
	{"KXFEDDECISION", domain.TopicRates},
	{"KXECB", domain.TopicRates},
	{"KXBOE", domain.TopicRates},
	{"KXPRES", domain.TopicElections},
	{"KXSENATE", domain.TopicElections},
	{"KXHOUSE", domain.TopicElections},
	{"KXGOV", domain.TopicElections},
	{"KXOIL", domain.TopicCommodities},
	{"KXWTI", domain.TopicCommodities},
	{"KXGOLD", domain.TopicCommodities},
	{"KXNATGAS", domain.TopicCommodities},
	{"KXNBA", domain.TopicSports},
	{"KXNFL", domain.TopicSports},
	{"KXMLB", domain.TopicSports},
	{"KXNHL", domain.TopicSports},
	{"KXEPL", domain.TopicSports},
	{"KXUFC", domain.TopicSports},
	{"KXMV", domain.TopicSports},
	{"KXSPX", domain.TopicFinance},
	{"KXNASDAQ", domain.TopicFinance},
	{"KXINX", domain.TopicFinance},
	{"KXHIGH", domain.TopicClimate},
	{"KXHURRICANE", domain.TopicClimate},
	{"KXOSCAR", domain.TopicEntertainment},
	{"KXGRAMMY", domain.TopicEntertainment},
}

// categoryTopics is the exact-lowercase venue category map.
var categoryTopics = map[string]domain.Topic{
	"crypto":             domain.TopicCryptoDaily,
	"cryptocurrency":     domain.TopicCryptoDaily,
	"economics":          domain.TopicMacro,
	"economy":            domain.TopicMacro,
	"inflation":          domain.TopicMacro,
	"fed":                domain.TopicRates,
	"interest rates":     domain.TopicRates,
	"monetary policy":    domain.TopicRates,
	"politics":           domain.TopicElections,
	"elections":          domain.TopicElections,
	"us-current-affairs": domain.TopicElections,
	"commodities":        domain.TopicCommodities,
	"energy":             domain.TopicCommodities,
	"sports":             domain.TopicSports,
	"nba":                domain.TopicSports,
	"nfl":                domain.TopicSports,
	"soccer":             domain.TopicSports,
	"world":              domain.TopicGeopolitics,
	"geopolitics":        domain.TopicGeopolitics,
	"entertainment":      domain.TopicEntertainment,
	"pop-culture":        domain.TopicEntertainment,
	"pop culture":        domain.TopicEntertainment,
	"finance":            domain.TopicFinance,
	"financials":         domain.TopicFinance,
	"stocks":             domain.TopicFinance,
	"climate":            domain.TopicClimate,
	"weather":            domain.TopicClimate,
	"science":            domain.TopicClimate,
}

// tagTopics maps venue tags (Polymarket mostly) to topics.
var tagTopics = map[string]domain.Topic{
	"bitcoin":       domain.TopicCryptoDaily,
	"ethereum":      domain.TopicCryptoDaily,
	"crypto":        domain.TopicCryptoDaily,
	"crypto prices": domain.TopicCryptoDaily,
	"cpi":           domain.TopicMacro,
	"inflation":     domain.TopicMacro,
	"macro":         domain.TopicMacro,
	"fed":           domain.TopicRates,
	"fed rates":     domain.TopicRates,
	"fomc":          domain.TopicRates,
	"election":      domain.TopicElections,
	"elections":     domain.TopicElections,
	"2028 election": domain.TopicElections,
	"politics":      domain.TopicElections,
	"oil":           domain.TopicCommodities,
	"gold":          domain.TopicCommodities,
	"nba":           domain.TopicSports,
	"nfl":           domain.TopicSports,
	"mlb":           domain.TopicSports,
	"nhl":           domain.TopicSports,
	"epl":           domain.TopicSports,
	"sports":        domain.TopicSports,
	"ukraine":       domain.TopicGeopolitics,
	"middle east":   domain.TopicGeopolitics,
	"world affairs": domain.TopicGeopolitics,
	"movies":        domain.TopicEntertainment,
	"music":         domain.TopicEntertainment,
	"awards":        domain.TopicEntertainment,
	"stocks":        domain.TopicFinance,
	"s&p 500":       domain.TopicFinance,
	"indices":       domain.TopicFinance,
	"climate":       domain.TopicClimate,
	"weather":       domain.TopicClimate,
}

// titleRule is one ordered title-keyword rule.
type titleRule struct {
	re         *regexp.Regexp
	topic      domain.Topic
	confidence float64
	rationale  string
}

var titleRules = []titleRule{
	{regexp.MustCompile(`(?i)\b(bitcoin|btc|ethereum|eth|solana|sol|xrp|dogecoin|doge)\b.*\b(up\s+or\s+down|next\s+hour|this\s+hour|hourly)\b`), domain.TopicCryptoIntraday, 0.90, "crypto name with intraday phrasing"},
	{regexp.MustCompile(`(?i)\b(bitcoin|btc|ethereum|eth|solana|sol|xrp|ripple|dogecoin|doge|cardano|ada|avalanche|polkadot|chainlink|litecoin)\b`), domain.TopicCryptoDaily, 0.90, "crypto currency name"},
	{regexp.MustCompile(`(?i)\b(fed|fomc|ecb|bank\s+of\s+england|bank\s+of\s+japan)\b.*\b(rate|rates|cut|hike|bps|basis\s+point)\b`), domain.TopicRates, 0.95, "central bank with rate action"},
	{regexp.MustCompile(`(?i)\b(fed|fomc)\b.*\b(decision|meeting)\b`), domain.TopicRates, 0.85, "fed meeting"},
	{regexp.MustCompile(`(?i)\b(cpi|inflation|pce|gdp|payrolls|nonfarm|unemployment|jobless|recession|retail\s+sales)\b`), domain.TopicMacro, 0.90, "economic indicator"},
	{regexp.MustCompile(`(?i)\b(president|presidential|senate|governor|gubernatorial|electoral|primary|nominee|ballot)\b`), domain.TopicElections, 0.85, "electoral office phrasing"},
	{regexp.MustCompile(`(?i)\belection\b`), domain.TopicElections, 0.80, "election keyword"},
	{regexp.MustCompile(`(?i)\b(wti|brent|crude|natural\s+gas|natgas|gold|silver|copper|corn|wheat|soybean)\b.*\b(price|above|below|settle|per\s+barrel|per\s+ounce)\b`), domain.TopicCommodities, 0.90, "commodity with price phrasing"},
	{regexp.MustCompile(`(?i)\b(nba|nfl|mlb|nhl|mls|premier\s+league|ufc)\b`), domain.TopicSports, 0.90, "league name"},
	{regexp.MustCompile(`(?i)\b(moneyline|spread|point\s+total)\b|\bvs\.?\s`), domain.TopicSports, 0.75, "game-market phrasing"},
	{regexp.MustCompile(`(?i)\b(s&p|sp500|spx|nasdaq|dow\s+jones|djia|russell|vix|10-year|treasury)\b`), domain.TopicFinance, 0.90, "index or instrument"},
	{regexp.MustCompile(`(?i)\b(tesla|nvidia|apple|microsoft|amazon)\b.*\b(stock|share|market\s+cap|close[s]?)\b`), domain.TopicFinance, 0.85, "equity with price phrasing"},
	{regexp.MustCompile(`(?i)\b(ceasefire|nato|invasion|sanctions|strait|nuclear\s+deal|peace\s+deal|tariff)\b`), domain.TopicGeopolitics, 0.85, "geopolitical event"},
	{regexp.MustCompile(`(?i)\b(oscars?|academy\s+award|grammy|emmy|golden\s+globe|box\s+office|album|billboard)\b`), domain.TopicEntertainment, 0.85, "awards or entertainment"},
	{regexp.MustCompile(`(?i)\b(hurricane|temperature|heat\s+record|el\s+ni[ñn]o|la\s+ni[ñn]a|wildfire|rainfall)\b`), domain.TopicClimate, 0.85, "weather or climate event"},
}

// Classifier carries no state; it exists so call sites can hold one value
// and tests can construct it directly.
type Classifier struct{}

func New() *Classifier { return &Classifier{} }

// Classify assigns a market its canonical topic. Pure and deterministic.
func (c *Classifier) Classify(m *domain.Market) Result {
	if ticker := tickerOf(m); ticker != "" && m.Venue == domain.VenueKalshi {
		upper := strings.ToUpper(ticker)
		best := ""
		var bestTopic domain.Topic
		for _, tp := range tickerPrefixes {
			if strings.HasPrefix(upper, tp.prefix) && len(tp.prefix) > len(best) {
				best, bestTopic = tp.prefix, tp.topic
			}
		}
		if best != "" {
			return Result{Topic: bestTopic, Confidence: 0.95, Source: SourceTicker, Rule: best}
		}
	}

	if m.Category != nil {
		key := strings.TrimSpace(strings.ToLower(*m.Category))
		if topic, ok := categoryTopics[key]; ok {
			return Result{Topic: topic, Confidence: 0.85, Source: SourceCategory, Rule: key}
		}
	}

	for _, tag := range m.Tags {
		key := strings.TrimSpace(strings.ToLower(tag))
		if topic, ok := tagTopics[key]; ok {
			return Result{Topic: topic, Confidence: 0.70, Source: SourceTags, Rule: key}
		}
	}

	for _, rule := range titleRules {
		if rule.re.MatchString(m.Title) {
			return Result{Topic: rule.topic, Confidence: rule.confidence, Source: SourceTitle, Rule: rule.rationale}
		}
	}

	return Result{Topic: domain.TopicUnknown, Confidence: 0, Source: SourceFallback}
}

func tickerOf(m *domain.Market) string {
	if t := m.Meta("series_ticker"); t != "" {
		return t
	}
	if t := m.Meta("ticker"); t != "" {
		return t
	}
	return m.ExternalID
}
