package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/farm2bag/voicecart/internal/order"
	"github.com/farm2bag/voicecart/internal/pipeline"
)

// Schema is the SQL DDL for the voicecart tables. Execute it via [Migrate]
// or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
    id             TEXT PRIMARY KEY,
    seq            BIGINT GENERATED ALWAYS AS IDENTITY,
    transcript     TEXT NOT NULL,
    products       JSONB NOT NULL DEFAULT '[]',
    change_history JSONB NOT NULL DEFAULT '[]',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_seq ON transcriptions(seq DESC);

CREATE TABLE IF NOT EXISTS orders (
    id         TEXT PRIMARY KEY,
    products   JSONB NOT NULL DEFAULT '[]',
    total      DOUBLE PRECISION NOT NULL DEFAULT 0,
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by the postgres stores. Both
// *pgxpool.Pool and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate executes the [Schema] DDL against the database, creating the
// voicecart tables and indexes if they do not already exist.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ TranscriptionStore = (*PostgresTranscriptionStore)(nil)
	_ OrderStore         = (*PostgresOrderStore)(nil)
)

// PostgresTranscriptionStore is a [TranscriptionStore] backed by PostgreSQL.
// Product rows and change history are serialised as JSONB.
type PostgresTranscriptionStore struct {
	db DB
}

// NewPostgresTranscriptionStore creates a store on the given connection or
// pool. The caller must run [Migrate] before issuing queries.
func NewPostgresTranscriptionStore(db DB) *PostgresTranscriptionStore {
	return &PostgresTranscriptionStore{db: db}
}

// Save implements [TranscriptionStore.Save].
func (s *PostgresTranscriptionStore) Save(ctx context.Context, t Transcription) (Transcription, error) {
	if t.ID == "" {
		id, err := generateID()
		if err != nil {
			return Transcription{}, fmt.Errorf("store: generate id: %w", err)
		}
		t.ID = id
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	productsJSON, historyJSON, err := marshalTranscription(t)
	if err != nil {
		return Transcription{}, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO transcriptions (id, transcript, products, change_history, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Transcript, productsJSON, historyJSON, t.CreatedAt,
	)
	if err != nil {
		return Transcription{}, fmt.Errorf("store: insert transcription: %w", err)
	}
	return t, nil
}

// Get implements [TranscriptionStore.Get].
func (s *PostgresTranscriptionStore) Get(ctx context.Context, id string) (Transcription, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, transcript, products, change_history, created_at
		FROM transcriptions WHERE id = $1`, id)
	return scanTranscription(row)
}

// Latest implements [TranscriptionStore.Latest].
func (s *PostgresTranscriptionStore) Latest(ctx context.Context) (Transcription, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, transcript, products, change_history, created_at
		FROM transcriptions ORDER BY seq DESC LIMIT 1`)
	return scanTranscription(row)
}

// UpdateProducts implements [TranscriptionStore.UpdateProducts].
func (s *PostgresTranscriptionStore) UpdateProducts(ctx context.Context, id string, products []pipeline.Item, change *ChangeRecord) (Transcription, error) {
	productsJSON, err := json.Marshal(products)
	if err != nil {
		return Transcription{}, fmt.Errorf("store: marshal products: %w", err)
	}

	var tag pgconn.CommandTag
	if change != nil {
		c := *change
		if c.At.IsZero() {
			c.At = time.Now()
		}
		changeJSON, err := json.Marshal(c)
		if err != nil {
			return Transcription{}, fmt.Errorf("store: marshal change record: %w", err)
		}
		tag, err = s.db.Exec(ctx, `
			UPDATE transcriptions
			SET products = $2, change_history = change_history || $3::jsonb
			WHERE id = $1`,
			id, productsJSON, changeJSON,
		)
		if err != nil {
			return Transcription{}, fmt.Errorf("store: update transcription %q: %w", id, err)
		}
	} else {
		tag, err = s.db.Exec(ctx, `
			UPDATE transcriptions SET products = $2 WHERE id = $1`,
			id, productsJSON,
		)
		if err != nil {
			return Transcription{}, fmt.Errorf("store: update transcription %q: %w", id, err)
		}
	}

	if tag.RowsAffected() == 0 {
		return Transcription{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// marshalTranscription serialises the JSONB columns of t.
func marshalTranscription(t Transcription) (products, history []byte, err error) {
	if t.Products == nil {
		t.Products = []pipeline.Item{}
	}
	if t.ChangeHistory == nil {
		t.ChangeHistory = []ChangeRecord{}
	}
	products, err = json.Marshal(t.Products)
	if err != nil {
		return nil, nil, fmt.Errorf("store: marshal products: %w", err)
	}
	history, err = json.Marshal(t.ChangeHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("store: marshal change history: %w", err)
	}
	return products, history, nil
}

// scanTranscription reads one transcription row.
func scanTranscription(row pgx.Row) (Transcription, error) {
	var (
		t            Transcription
		productsJSON []byte
		historyJSON  []byte
	)
	err := row.Scan(&t.ID, &t.Transcript, &productsJSON, &historyJSON, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transcription{}, ErrNotFound
	}
	if err != nil {
		return Transcription{}, fmt.Errorf("store: scan transcription: %w", err)
	}
	if err := json.Unmarshal(productsJSON, &t.Products); err != nil {
		return Transcription{}, fmt.Errorf("store: unmarshal products: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &t.ChangeHistory); err != nil {
		return Transcription{}, fmt.Errorf("store: unmarshal change history: %w", err)
	}
	return t, nil
}

// PostgresOrderStore is an [OrderStore] backed by PostgreSQL.
type PostgresOrderStore struct {
	db DB
}

// NewPostgresOrderStore creates a store on the given connection or pool.
// The caller must run [Migrate] before issuing queries.
func NewPostgresOrderStore(db DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

// Create implements [OrderStore.Create].
func (s *PostgresOrderStore) Create(ctx context.Context, o order.Order) (order.Order, error) {
	if o.ID == "" {
		id, err := generateID()
		if err != nil {
			return order.Order{}, fmt.Errorf("store: generate id: %w", err)
		}
		o.ID = id
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.Status == "" {
		o.Status = "pending"
	}
	if o.Items == nil {
		o.Items = []order.LineItem{}
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return order.Order{}, fmt.Errorf("store: marshal order items: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO orders (id, products, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, itemsJSON, o.Total, o.Status, o.CreatedAt,
	)
	if err != nil {
		return order.Order{}, fmt.Errorf("store: insert order: %w", err)
	}
	return o, nil
}

// Get implements [OrderStore.Get].
func (s *PostgresOrderStore) Get(ctx context.Context, id string) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, products, total, status, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &itemsJSON, &o.Total, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("store: scan order: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("store: unmarshal order items: %w", err)
	}
	return o, nil
}
