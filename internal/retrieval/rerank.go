package retrieval

import (
	"math"
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// tokenSet lowercases and tokenizes text into a set of distinct words.
func tokenSet(text string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// lexicalOverlap scores text against the query token set with the Ochiai
// coefficient: |A∩B| / sqrt(|A|·|B|). It corrects embedding-only ranking
// artifacts by rewarding literal term matches.
func lexicalOverlap(queryTokens map[string]struct{}, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	intersection := 0
	for _, t := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			intersection++
		}
	}
	if len(seen) == 0 {
		return 0
	}
	return float64(intersection) / (math.Sqrt(float64(len(queryTokens))) * math.Sqrt(float64(len(seen))))
}
