package signals

import "strings"

// stopWords are dropped during tokenization. Short function words only;
// domain words like "above" stay because the comparator parser needs them
// in token context checks.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "will": {}, "on": {}, "in": {}, "of": {},
	"for": {}, "to": {}, "is": {}, "be": {}, "at": {}, "by": {}, "or": {},
	"and": {}, "as": {}, "it": {}, "its": {}, "this": {}, "that": {},
	"with": {}, "than": {}, "do": {}, "does": {}, "if": {}, "what": {},
}

// Tokenize lowercases a title, strips punctuation except intra-word hyphens,
// collapses whitespace, and drops stop words and sub-2-character tokens.
// Output order follows the title.
func Tokenize(title string) []string {
	var b strings.Builder
	b.Grow(len(title))
	runes := []rune(strings.ToLower(title))
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i > 0 && i < len(runes)-1 && isWordRune(runes[i-1]) && isWordRune(runes[i+1]):
			b.WriteRune(r)
		case r == '.' && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]):
			// keep decimal points inside numbers (3.5 stays one token)
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// TokenSet returns the tokens as a membership set for Jaccard scoring.
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard computes |A∩B| / |A∪B| over two token sets. Empty-vs-empty is 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
