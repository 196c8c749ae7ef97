package grading

import (
	"sort"
	"strings"
)

// Resolver matches pick-sheet player names against box-score names.
// The two feeds disagree on suffixes, punctuation, and occasionally
// whole name forms ("Leonard" vs "Kawhi Leonard"), so matching runs on
// normalized forms with a deterministic fallback chain.
type Resolver struct {
	// normalized candidate name -> original box-score name
	candidates map[string]string
}

// NewResolver indexes the box-score names an actual stat exists for.
func NewResolver(names []string) *Resolver {
	r := &Resolver{candidates: make(map[string]string, len(names))}
	for _, name := range names {
		r.candidates[Normalize(name)] = name
	}
	return r
}

// Resolve maps a pick-sheet name to a box-score name. Resolution order:
// exact normalized match, then substring containment in either
// direction (shortest candidate wins), then nothing. Ties at any step
// break lexicographically so repeated runs agree.
func (r *Resolver) Resolve(name string) (string, bool) {
	norm := Normalize(name)
	if norm == "" {
		return "", false
	}

	if original, ok := r.candidates[norm]; ok {
		return original, true
	}

	var matches []string
	for candidate := range r.candidates {
		if strings.Contains(candidate, norm) || strings.Contains(norm, candidate) {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return "", false
	}

	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})

	return r.candidates[matches[0]], true
}

// Normalize lowercases a player name and strips punctuation, suffixes,
// and extra whitespace so feed spelling differences cancel out.
func Normalize(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, ch := range lower {
		switch {
		case ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == ' ' || ch == '-':
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	trimmed := words[:0]
	for _, w := range words {
		if nameSuffixes[w] {
			continue
		}
		trimmed = append(trimmed, w)
	}

	return strings.Join(trimmed, " ")
}

var nameSuffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"v":   true,
}
