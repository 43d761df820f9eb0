// Package store persists transcriptions and orders.
//
// Two implementations exist: [MemStore] for tests and single-process use, and
// [PostgresStore] backed by pgx. The matching core never touches this package;
// persistence is a downstream consumer of pipeline results.
//
// All implementations must be safe for concurrent use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/farm2bag/voicecart/internal/order"
	"github.com/farm2bag/voicecart/internal/pipeline"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Transcription is one processed voice order: the raw transcript, the audited
// product rows, and the history of manual corrections applied by reviewers.
type Transcription struct {
	ID            string          `json:"id"`
	Transcript    string          `json:"transcription"`
	Products      []pipeline.Item `json:"products"`
	ChangeHistory []ChangeRecord  `json:"changeHistory,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ChangeRecord documents one manual revision of a transcription's products.
type ChangeRecord struct {
	// At is when the revision was made.
	At time.Time `json:"at"`

	// Note is a free-text description of what was corrected.
	Note string `json:"note,omitempty"`
}

// TranscriptionStore manages transcription records.
type TranscriptionStore interface {
	// Save stores a new transcription. An empty ID is filled with a generated
	// one; the stored record is returned.
	Save(ctx context.Context, t Transcription) (Transcription, error)

	// Get retrieves a transcription by ID.
	// Returns [ErrNotFound] when no record exists.
	Get(ctx context.Context, id string) (Transcription, error)

	// Latest returns the most recently saved transcription.
	// Returns [ErrNotFound] when the store is empty.
	Latest(ctx context.Context) (Transcription, error)

	// UpdateProducts replaces a transcription's product rows. When change is
	// non-nil it is appended to the change history. The updated record is
	// returned. Returns [ErrNotFound] when no record exists.
	UpdateProducts(ctx context.Context, id string, products []pipeline.Item, change *ChangeRecord) (Transcription, error)
}

// OrderStore manages confirmed orders.
type OrderStore interface {
	// Create stores a new order. An empty ID is filled with a generated one;
	// the stored order is returned.
	Create(ctx context.Context, o order.Order) (order.Order, error)

	// Get retrieves an order by ID.
	// Returns [ErrNotFound] when no order exists.
	Get(ctx context.Context, id string) (order.Order, error)
}
