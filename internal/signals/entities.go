package signals

import (
	"sort"
	"strings"
)

// aliasKeys holds every alias ordered longest-first so multi-word aliases
// ("los angeles lakers") win over their fragments ("lakers").
var aliasKeys = func() []string {
	keys := make([]string, 0, len(entityAliases))
	for k := range entityAliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// FindEntities scans a title for alias-table hits and returns the canonical
// names, sorted and deduplicated. Matches are word-bounded substring checks
// over the lowercased title, so "Bitcoin's rally" still hits BITCOIN while
// "bit" alone never does.
func FindEntities(title string) []string {
	return FindEntitiesIn(title, nil)
}

// FindEntitiesIn is FindEntities restricted to a canonical subset. A nil
// set means no restriction.
func FindEntitiesIn(title string, allowed map[string]bool) []string {
	lower := strings.ToLower(title)
	seen := map[string]struct{}{}
	for _, alias := range aliasKeys {
		canonical := entityAliases[alias]
		if allowed != nil && !allowed[canonical] {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		if containsWord(lower, alias) {
			seen[canonical] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// containsWord reports whether needle occurs in haystack bounded by
// non-alphanumeric runes on both sides.
func containsWord(haystack, needle string) bool {
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		leftOK := start == 0 || !isAlnumByte(haystack[start-1])
		rightOK := end == len(haystack) || !isAlnumByte(haystack[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}

func isAlnumByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// firstOr returns the first element or empty.
func firstOr(entities []string) string {
	if len(entities) == 0 {
		return ""
	}
	return entities[0]
}
