// Package similarity scores how alike two templates are on a normalized
// [0,1] scale, blending string similarity of names and descriptions with
// exact classification matches.
//
// Score is a pure, deterministic function of its two inputs, so the
// Scorer memoizes results in-process; the cache key orders the two
// templates canonically, which makes the memoized function symmetric by
// construction.
package similarity

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// Blend weights. Name and description carry the string-similarity
// weight; maturity and phase contribute binary exact-match terms.
const (
	nameWeight        = 0.3
	descriptionWeight = 0.4
	maturityWeight    = 0.2
	phaseWeight       = 0.1
)

// Score computes the weighted similarity of two templates without
// caching. Exported for callers that compare each pair once.
//
// The score accumulates the weighted distance from 1.0 and subtracts it
// at the end: summing the four weights directly rounds an exact match
// to just under 1.0 in float64, and threshold lookups at exact
// boundaries must see identical templates as exactly 1.0.
func Score(a, b capability.Template) float64 {
	penalty := nameWeight * (1 - stringSimilarity(a.Name, b.Name))
	penalty += descriptionWeight * (1 - stringSimilarity(a.Description, b.Description))
	if a.Maturity != b.Maturity {
		penalty += maturityWeight
	}
	if a.Phase != b.Phase {
		penalty += phaseWeight
	}
	return 1 - penalty
}

// Scorer memoizes Score. Safe for concurrent use.
type Scorer struct {
	cache *gocache.Cache
}

// NewScorer creates a Scorer with an unbounded, non-expiring memo cache.
// Registry scans compare every candidate against every stored template,
// so repeated pairs are the common case.
func NewScorer() *Scorer {
	return &Scorer{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Score returns the memoized similarity of a and b.
func (s *Scorer) Score(a, b capability.Template) float64 {
	key := pairKey(a, b)
	if v, ok := s.cache.Get(key); ok {
		return v.(float64)
	}
	score := Score(a, b)
	s.cache.Set(key, score, gocache.NoExpiration)
	return score
}

// pairKey builds a cache key from every field the score reads, with the
// two templates in canonical order so (a,b) and (b,a) share an entry.
func pairKey(a, b capability.Template) string {
	ka := fieldKey(a)
	kb := fieldKey(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "\x00\x00" + kb
}

func fieldKey(t capability.Template) string {
	return strings.Join([]string{t.Name, t.Description, string(t.Maturity), string(t.Phase)}, "\x00")
}

// stringSimilarity normalizes Levenshtein distance against the longer
// string: 1 - distance/len(longer). Two empty strings score 1.0 by
// convention.
func stringSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longer)
}

// levenshtein computes classic edit distance (insertion, deletion and
// substitution each cost 1) with a two-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
