package catalog

import (
	"errors"
	"sync/atomic"
)

// ErrNotLoaded is returned by [Holder.Index] before the first catalog has
// been stored. Matching against an unloaded catalog is a programmer error in
// the startup sequence, not a recoverable match failure.
var ErrNotLoaded = errors.New("catalog: index not loaded")

// Holder publishes the current [Index] to concurrent readers. Replacing the
// catalog is a single atomic pointer swap, so a reload never blocks matching
// and a reader never sees a half-built index.
//
// The zero value is ready to use (and empty).
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns a Holder pre-loaded with idx. idx may be nil.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	if idx != nil {
		h.current.Store(idx)
	}
	return h
}

// Index returns the currently published index.
// Returns [ErrNotLoaded] when no index has been stored yet.
func (h *Holder) Index() (*Index, error) {
	idx := h.current.Load()
	if idx == nil {
		return nil, ErrNotLoaded
	}
	return idx, nil
}

// Swap atomically replaces the published index with idx and returns the
// previous one (nil on first load).
func (h *Holder) Swap(idx *Index) *Index {
	return h.current.Swap(idx)
}
