package catalog_test

import (
	"reflect"
	"testing"

	"github.com/farm2bag/voicecart/internal/catalog"
)

func sampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{CanonicalName: "Tomato", Unit: "kg", PricePerUnit: 40},
		{CanonicalName: "Basmati Rice", Unit: "kg", PricePerUnit: 120},
		{CanonicalName: "Brown Rice", Unit: "kg", PricePerUnit: 90},
		{CanonicalName: "Sunflower Oil", Unit: "litre", PricePerUnit: 160},
	}
}

func TestBuild_Len(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
}

func TestBuild_SkipsEmptyNames(t *testing.T) {
	t.Parallel()
	idx := catalog.Build([]catalog.Entry{
		{CanonicalName: "   ", Unit: "kg", PricePerUnit: 10},
		{CanonicalName: "Tomato", Unit: "kg", PricePerUnit: 40},
		{CanonicalName: ""},
	})
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestBuild_DuplicateLastWriteWins(t *testing.T) {
	t.Parallel()
	idx := catalog.Build([]catalog.Entry{
		{CanonicalName: "Tomato", Unit: "kg", PricePerUnit: 40},
		{CanonicalName: "Onion", Unit: "kg", PricePerUnit: 35},
		{CanonicalName: "tomato", Unit: "kg", PricePerUnit: 55},
	})

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
	e, ok := idx.Lookup("Tomato")
	if !ok {
		t.Fatal("Lookup(Tomato) not found")
	}
	if e.PricePerUnit != 55 {
		t.Errorf("duplicate price = %v, want the later entry's 55", e.PricePerUnit)
	}
	// Position of the first occurrence is retained.
	if got := idx.Entries()[0].CanonicalName; got != "tomato" {
		t.Errorf("first entry = %q, want the replacement at the original position", got)
	}
}

func TestLookup_CaseAndSpaceInsensitive(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())

	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"Tomato", "Tomato", true},
		{"tomato", "Tomato", true},
		{"  TOMATO  ", "Tomato", true},
		{"basmati rice", "Basmati Rice", true},
		{"Cucumber", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		e, ok := idx.Lookup(tc.query)
		if ok != tc.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tc.query, ok, tc.ok)
			continue
		}
		if ok && e.CanonicalName != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.query, e.CanonicalName, tc.want)
		}
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())

	entries := idx.Entries()
	entries[0].CanonicalName = "Mutated"

	if got := idx.Entries()[0].CanonicalName; got != "Tomato" {
		t.Errorf("index mutated through Entries() copy: %q", got)
	}
}

func TestTokenPrefixes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single token", "Tomato", []string{"tom"}},
		{"two tokens", "Basmati Rice", []string{"bas", "ric"}},
		{"short tokens skipped", "Oil of El", []string{"oil"}},
		{"duplicate prefixes collapse", "Rice rich ricotta", []string{"ric"}},
		{"empty", "   ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := catalog.TokenPrefixes(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("TokenPrefixes(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCandidates_SharedPrefixCounts(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())

	// "bas" and "ric" both hit Basmati Rice; "ric" alone hits Brown Rice.
	cands := idx.Candidates([]string{"bas", "ric"})
	if len(cands) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(cands))
	}

	byName := make(map[string]int)
	for _, c := range cands {
		byName[c.Entry.CanonicalName] = c.SharedPrefixes
	}
	if byName["Basmati Rice"] != 2 {
		t.Errorf("Basmati Rice shared prefixes = %d, want 2", byName["Basmati Rice"])
	}
	if byName["Brown Rice"] != 1 {
		t.Errorf("Brown Rice shared prefixes = %d, want 1", byName["Brown Rice"])
	}
}

func TestCandidates_LoadOrder(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())

	cands := idx.Candidates([]string{"ric"})
	if len(cands) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(cands))
	}
	if cands[0].Entry.CanonicalName != "Basmati Rice" || cands[1].Entry.CanonicalName != "Brown Rice" {
		t.Errorf("candidates out of load order: %q, %q",
			cands[0].Entry.CanonicalName, cands[1].Entry.CanonicalName)
	}
}

func TestCandidates_NoHits(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())
	if cands := idx.Candidates([]string{"zzz"}); len(cands) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(cands))
	}
}
