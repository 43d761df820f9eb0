// Package match resolves free-form spoken product names against the catalog.
//
// The algorithm is deliberately deterministic and dependency-free at runtime:
//
//  1. Exact lookup (case-insensitive, trimmed) → confidence 1.0.
//  2. Candidate generation through the catalog's token-prefix index, with a
//     full-catalog scan as fallback when the prefix index yields nothing.
//  3. Jaro-Winkler similarity scoring, ranked primarily by the number of
//     shared token prefixes and secondarily by the similarity score, so that
//     multi-word overlap beats a single coincidental fragment.
//
// A low-confidence outcome is represented as data (Matched == false), never
// as an error: "no confident match" is a normal result the caller forwards to
// a human reviewer, not a failure.
package match

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/farm2bag/voicecart/internal/catalog"
)

// DefaultThreshold is the minimum Jaro-Winkler similarity for a fuzzy match
// to be accepted.
const DefaultThreshold = 0.6

// Result is the outcome of matching one query against the catalog.
type Result struct {
	// Query is the input string as received (untrimmed, for audit).
	Query string `json:"query"`

	// Entry is the best catalog candidate. Only meaningful when Matched is
	// true; on an unmatched result it is the zero Entry.
	Entry catalog.Entry `json:"entry"`

	// Confidence is 1.0 for an exact hit, otherwise the Jaro-Winkler score of
	// the top-ranked candidate, in [0, 1]. It is reported even when Matched
	// is false so reviewers can see how close the near-miss was.
	Confidence float64 `json:"confidence"`

	// Matched reports whether Confidence reached the threshold.
	Matched bool `json:"matched"`
}

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithThreshold sets the minimum similarity score required for a fuzzy match
// to be accepted. Default: 0.6.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// Matcher scores queries against a catalog [catalog.Index]. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	threshold float64
}

// New returns a [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{threshold: DefaultThreshold}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match resolves query against idx and returns the best candidate with its
// confidence score. See the package documentation for the algorithm.
//
// An empty or whitespace-only query, or an empty catalog, is immediately
// unmatched with confidence 0; no candidate search is performed.
func (m *Matcher) Match(query string, idx *catalog.Index) Result {
	result := Result{Query: query}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" || idx.Len() == 0 {
		return result
	}

	if entry, ok := idx.Lookup(trimmed); ok {
		result.Entry = entry
		result.Confidence = 1.0
		result.Matched = true
		return result
	}

	queryLower := strings.ToLower(trimmed)
	prefixes := catalog.TokenPrefixes(queryLower)

	candidates := idx.Candidates(prefixes)
	if len(candidates) == 0 {
		// Unlucky tokenization (e.g., all query tokens shorter than the
		// prefix minimum) must not produce a false negative; fall back to
		// scanning the whole catalog.
		for _, e := range idx.Entries() {
			candidates = append(candidates, catalog.Candidate{Entry: e})
		}
	}

	var (
		best      catalog.Candidate
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		score := matchr.JaroWinkler(queryLower, strings.ToLower(c.Entry.CanonicalName), false)
		if !found || ranksAbove(c, score, best, bestScore) {
			best, bestScore, found = c, score, true
		}
	}

	result.Confidence = bestScore
	if bestScore >= m.threshold {
		result.Entry = best.Entry
		result.Matched = true
	}
	return result
}

// ranksAbove reports whether candidate a with score scoreA outranks the
// current best. Shared token-prefix count dominates; similarity breaks ties.
// Equal on both keeps the earlier candidate (catalog load order), keeping
// results stable across runs.
func ranksAbove(a catalog.Candidate, scoreA float64, b catalog.Candidate, scoreB float64) bool {
	if a.SharedPrefixes != b.SharedPrefixes {
		return a.SharedPrefixes > b.SharedPrefixes
	}
	return scoreA > scoreB
}
