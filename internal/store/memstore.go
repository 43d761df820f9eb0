package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/farm2bag/voicecart/internal/order"
	"github.com/farm2bag/voicecart/internal/pipeline"
)

// Compile-time assertions that the memory stores satisfy their interfaces.
var (
	_ TranscriptionStore = (*TranscriptionMemStore)(nil)
	_ OrderStore         = (*OrderMemStore)(nil)
)

// TranscriptionMemStore is a thread-safe, in-memory [TranscriptionStore].
// It is suitable for tests and single-process deployments without a database.
type TranscriptionMemStore struct {
	mu      sync.RWMutex
	records map[string]Transcription

	// saved remembers insertion order so Latest is well-defined even when
	// two saves land within the same clock tick.
	saved []string

	// now is swappable for tests.
	now func() time.Time
}

// NewTranscriptionMemStore returns an initialised [TranscriptionMemStore].
func NewTranscriptionMemStore() *TranscriptionMemStore {
	return &TranscriptionMemStore{
		records: make(map[string]Transcription),
		now:     time.Now,
	}
}

// Save implements [TranscriptionStore.Save].
func (s *TranscriptionMemStore) Save(ctx context.Context, t Transcription) (Transcription, error) {
	if t.ID == "" {
		id, err := generateID()
		if err != nil {
			return Transcription{}, fmt.Errorf("store: generate id: %w", err)
		}
		t.ID = id
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[t.ID] = t
	s.saved = append(s.saved, t.ID)
	return t, nil
}

// Get implements [TranscriptionStore.Get].
func (s *TranscriptionMemStore) Get(ctx context.Context, id string) (Transcription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.records[id]
	if !ok {
		return Transcription{}, ErrNotFound
	}
	return t, nil
}

// Latest implements [TranscriptionStore.Latest].
func (s *TranscriptionMemStore) Latest(ctx context.Context) (Transcription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.saved) - 1; i >= 0; i-- {
		if t, ok := s.records[s.saved[i]]; ok {
			return t, nil
		}
	}
	return Transcription{}, ErrNotFound
}

// UpdateProducts implements [TranscriptionStore.UpdateProducts].
func (s *TranscriptionMemStore) UpdateProducts(ctx context.Context, id string, products []pipeline.Item, change *ChangeRecord) (Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.records[id]
	if !ok {
		return Transcription{}, ErrNotFound
	}

	t.Products = products
	if change != nil {
		c := *change
		if c.At.IsZero() {
			c.At = s.now()
		}
		t.ChangeHistory = append(t.ChangeHistory, c)
	}

	s.records[id] = t
	return t, nil
}

// OrderMemStore is a thread-safe, in-memory [OrderStore].
type OrderMemStore struct {
	mu     sync.RWMutex
	orders map[string]order.Order
	now    func() time.Time
}

// NewOrderMemStore returns an initialised [OrderMemStore].
func NewOrderMemStore() *OrderMemStore {
	return &OrderMemStore{
		orders: make(map[string]order.Order),
		now:    time.Now,
	}
}

// Create implements [OrderStore.Create].
func (s *OrderMemStore) Create(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		id, err := generateID()
		if err != nil {
			return order.Order{}, fmt.Errorf("store: generate id: %w", err)
		}
		o.ID = id
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o
	return o, nil
}

// Get implements [OrderStore.Get].
func (s *OrderMemStore) Get(ctx context.Context, id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, ErrNotFound
	}
	return o, nil
}

// generateID produces a random 16-byte hex string using crypto/rand.
// The resulting string is 32 hex characters and is statistically unique.
func generateID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
