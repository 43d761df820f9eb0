// Package catalog holds the in-memory product catalog index that the matcher
// resolves spoken product names against.
//
// An [Index] is immutable after [Build] returns. Hot reload is implemented by
// building a fresh Index and swapping it into a [Holder]; in-flight matches
// keep using the index they started with and never observe a partially-built
// structure.
package catalog

import (
	"log/slog"
	"strings"
)

const (
	// minTokenLen is the minimum token length considered for the prefix index.
	// Shorter tokens ("of", "de") generate too many coincidental candidates.
	minTokenLen = 3

	// prefixLen is the number of leading characters taken from each token to
	// form a prefix-index key.
	prefixLen = 3
)

// Entry is a single product in the catalog. Entries are immutable after load;
// the catalog is rebuilt wholesale on reload, never mutated in place.
type Entry struct {
	// CanonicalName is the product's display name. Unique within the catalog
	// (case-insensitive).
	CanonicalName string `yaml:"name" json:"name"`

	// Unit is the default display unit for the product (e.g., "kg", "piece").
	Unit string `yaml:"unit" json:"unit"`

	// PricePerUnit is the price for one Unit of the product.
	PricePerUnit float64 `yaml:"price" json:"price"`
}

// Index is the read-only lookup structure over a product catalog. All methods
// are safe for concurrent use; the Index is never mutated after Build.
type Index struct {
	entries []Entry

	// exact maps the lowercased, trimmed canonical name to its entry position.
	exact map[string]int

	// prefixes maps a token prefix (first prefixLen characters of each
	// whitespace token of at least minTokenLen characters) to the positions of
	// all entries sharing it. Purely a candidate-set reducer for fuzzy
	// matching, not a correctness requirement.
	prefixes map[string][]int
}

// Build constructs an [Index] over entries.
//
// Duplicate canonical names (case-insensitive, after trimming) resolve
// last-write-wins: the later entry replaces the earlier one and a warning is
// logged. The build never fails on duplicates.
func Build(entries []Entry) *Index {
	idx := &Index{
		entries:  make([]Entry, 0, len(entries)),
		exact:    make(map[string]int, len(entries)),
		prefixes: make(map[string][]int),
	}

	for _, e := range entries {
		e.CanonicalName = strings.TrimSpace(e.CanonicalName)
		if e.CanonicalName == "" {
			continue
		}
		key := strings.ToLower(e.CanonicalName)

		if prev, dup := idx.exact[key]; dup {
			slog.Warn("duplicate catalog entry, keeping the later one",
				"name", e.CanonicalName,
				"replaced", idx.entries[prev].CanonicalName,
			)
			idx.entries[prev] = e
			continue
		}

		pos := len(idx.entries)
		idx.entries = append(idx.entries, e)
		idx.exact[key] = pos
	}

	// The prefix index is built after duplicate resolution so replaced
	// entries never leave stale positions behind.
	for pos, e := range idx.entries {
		for _, p := range TokenPrefixes(e.CanonicalName) {
			idx.prefixes[p] = append(idx.prefixes[p], pos)
		}
	}

	return idx
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns all catalog entries in load order. The returned slice is a
// copy; callers may not mutate the index through it.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Lookup returns the entry whose canonical name equals name, compared
// case-insensitively after trimming.
func (idx *Index) Lookup(name string) (Entry, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	pos, ok := idx.exact[key]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[pos], true
}

// Candidates returns the union of entries sharing at least one of the given
// token prefixes, each paired with the number of prefixes it shares. Results
// are in catalog load order.
func (idx *Index) Candidates(prefixes []string) []Candidate {
	hits := make(map[int]int)
	for _, p := range prefixes {
		for _, pos := range idx.prefixes[p] {
			hits[pos]++
		}
	}

	out := make([]Candidate, 0, len(hits))
	for pos := range idx.entries {
		if n, ok := hits[pos]; ok {
			out = append(out, Candidate{Entry: idx.entries[pos], SharedPrefixes: n})
		}
	}
	return out
}

// Candidate is a catalog entry selected by the prefix index, annotated with
// how many query token prefixes it shares.
type Candidate struct {
	Entry          Entry
	SharedPrefixes int
}

// TokenPrefixes tokenizes name on whitespace and returns the first-prefixLen
// characters of every token of at least minTokenLen characters, lowercased and
// deduplicated. Both catalog names and queries go through this function so the
// two sides always tokenize identically.
func TokenPrefixes(name string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if len(tok) < minTokenLen {
			continue
		}
		p := tok[:prefixLen]
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
