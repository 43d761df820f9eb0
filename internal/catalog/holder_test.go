package catalog_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/farm2bag/voicecart/internal/catalog"
)

func TestHolder_EmptyReturnsErrNotLoaded(t *testing.T) {
	t.Parallel()
	var h catalog.Holder
	if _, err := h.Index(); !errors.Is(err, catalog.ErrNotLoaded) {
		t.Errorf("Index() error = %v, want ErrNotLoaded", err)
	}
}

func TestNewHolder_PreLoaded(t *testing.T) {
	t.Parallel()
	idx := catalog.Build(sampleEntries())
	h := catalog.NewHolder(idx)

	got, err := h.Index()
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if got != idx {
		t.Error("Index() did not return the pre-loaded index")
	}
}

func TestHolder_SwapReturnsPrevious(t *testing.T) {
	t.Parallel()
	first := catalog.Build(sampleEntries())
	second := catalog.Build(sampleEntries()[:1])

	h := catalog.NewHolder(first)
	if prev := h.Swap(second); prev != first {
		t.Error("Swap did not return the previous index")
	}

	got, err := h.Index()
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if got != second {
		t.Error("Index() did not return the swapped-in index")
	}
}

func TestHolder_ConcurrentSwapAndRead(t *testing.T) {
	t.Parallel()
	h := catalog.NewHolder(catalog.Build(sampleEntries()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				h.Swap(catalog.Build(sampleEntries()))
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				idx, err := h.Index()
				if err != nil {
					t.Error("Index() failed during concurrent swap")
					return
				}
				if idx.Len() != 4 {
					t.Error("reader observed a partial index")
					return
				}
			}
		}()
	}
	wg.Wait()
}
