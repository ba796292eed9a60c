// Derive a bounded, deduplicated keyword set from free text,
// seeded by the curated skill vocabulary.

package keywords

import (
	"sort"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
)

// DefaultMax bounds the keyword list when the caller passes no limit.
const DefaultMax = 24

// minKnownBeforeBackfill: when fewer known skills than this are found, the
// extractor backfills with frequent non-stopword tokens.
const minKnownBeforeBackfill = 5

// Extractor tokenizes job-description text against the skill vocabulary.
// The zero-cost way to add employer- or user-specific vocabulary is via
// NewExtractor's extra list.
type Extractor struct {
	known   mapset.Set[string]
	aliases map[string]string
}

func NewExtractor(extraSkills []string) *Extractor {
	known := mapset.NewThreadUnsafeSet[string]()
	for _, s := range knownSkills {
		known.Add(s)
	}
	for _, s := range extraSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			known.Add(s)
		}
	}
	return &Extractor{known: known, aliases: skillAliases}
}

// Extract returns at most max deduplicated keywords: known skills first, in
// order of first occurrence, then (only when fewer than five known skills
// were found) frequent other tokens. Empty or stopword-only input yields an
// empty slice.
func (e *Extractor) Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	tokens := tokenize(text)

	seen := mapset.NewThreadUnsafeSet[string]()
	var known []string
	freq := make(map[string]int)
	firstAt := make(map[string]int)

	for i, tok := range tokens {
		canonical := tok
		if alias, ok := e.aliases[tok]; ok {
			canonical = alias
		}
		if e.known.Contains(canonical) {
			if seen.Add(canonical) {
				known = append(known, canonical)
			}
			continue
		}
		if _, stop := stopwords[tok]; stop || len(tok) < 3 {
			continue
		}
		if _, ok := firstAt[tok]; !ok {
			firstAt[tok] = i
		}
		freq[tok]++
	}

	if len(known) > max {
		known = known[:max]
	}
	if len(known) >= minKnownBeforeBackfill {
		return known
	}

	fillers := make([]string, 0, len(freq))
	for tok := range freq {
		if !seen.Contains(tok) {
			fillers = append(fillers, tok)
		}
	}
	sort.Slice(fillers, func(i, j int) bool {
		if freq[fillers[i]] != freq[fillers[j]] {
			return freq[fillers[i]] > freq[fillers[j]]
		}
		return firstAt[fillers[i]] < firstAt[fillers[j]]
	})

	out := known
	for _, tok := range fillers {
		if len(out) >= max {
			break
		}
		out = append(out, tok)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// tokenize lowercases and splits on non-alphanumeric boundaries, keeping
// + # . inside tokens so terms like "c++", "c#" and "node.js" survive.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
