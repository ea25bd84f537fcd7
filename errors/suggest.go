package errors

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of names offered in a hint.
const MaxSuggestions = 3

// Suggestion is a candidate name with its edit distance from the target.
type Suggestion struct {
	Value    string
	Distance int
}

// suggestionThreshold scales the allowed edit distance with name length so
// that short names only match near-identical candidates.
func suggestionThreshold(name string) int {
	switch n := len(name); {
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	default:
		return 3
	}
}

// SuggestSimilar returns up to MaxSuggestions candidates close to target,
// nearest first. Comparison ignores case; exact matches are skipped.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	lower := strings.ToLower(target)
	threshold := suggestionThreshold(target)
	seen := map[string]bool{}
	var out []Suggestion
	for _, c := range candidates {
		if c == "" || seen[c] || strings.ToLower(c) == lower {
			continue
		}
		seen[c] = true
		if d := editDistance(lower, strings.ToLower(c)); d <= threshold {
			out = append(out, Suggestion{Value: c, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a hint, or "" if there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "Did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// editDistance is the Levenshtein distance over runes, computed with two rows.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
