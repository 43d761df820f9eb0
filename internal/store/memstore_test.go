package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farm2bag/voicecart/internal/order"
	"github.com/farm2bag/voicecart/internal/pipeline"
	"github.com/farm2bag/voicecart/internal/store"
)

func sampleProducts() []pipeline.Item {
	return []pipeline.Item{
		{SpokenLabel: "tomatos", Name: "Tomato", Quantity: 5, Unit: "kg", UnitPrice: 40, Matched: true, Confidence: 0.97},
		{SpokenLabel: "onion", Name: "Onion", Quantity: 2, Unit: "kg", UnitPrice: 35, Matched: true, Confidence: 1},
	}
}

func TestTranscriptionMemStore_SaveAssignsID(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()

	saved, err := s.Save(context.Background(), store.Transcription{
		Transcript: "five kg tomatos",
		Products:   sampleProducts(),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(saved.ID) != 32 {
		t.Errorf("ID = %q, want a 32-char hex id", saved.ID)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("CreatedAt not filled")
	}

	got, err := s.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Transcript != "five kg tomatos" || len(got.Products) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestTranscriptionMemStore_SaveKeepsExplicitID(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()

	saved, err := s.Save(context.Background(), store.Transcription{
		ID:         "explicit",
		Transcript: "x",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != "explicit" {
		t.Errorf("ID = %q, want explicit", saved.ID)
	}
	if !saved.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("CreatedAt overwritten: %v", saved.CreatedAt)
	}
}

func TestTranscriptionMemStore_GetMissing(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTranscriptionMemStore_Latest(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()
	ctx := context.Background()

	if _, err := s.Latest(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Latest on empty store: err = %v, want ErrNotFound", err)
	}

	if _, err := s.Save(ctx, store.Transcription{Transcript: "first"}); err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(ctx, store.Transcription{Transcript: "second"})
	if err != nil {
		t.Fatal(err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Latest = %q, want the most recent save %q", latest.ID, second.ID)
	}
}

func TestTranscriptionMemStore_UpdateProducts(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()
	ctx := context.Background()

	saved, err := s.Save(ctx, store.Transcription{Transcript: "x", Products: sampleProducts()})
	if err != nil {
		t.Fatal(err)
	}

	replacement := []pipeline.Item{
		{SpokenLabel: "tomatos", Name: "Tomato", Quantity: 3, Unit: "kg", UnitPrice: 40, Matched: true, Confidence: 0.97},
	}
	updated, err := s.UpdateProducts(ctx, saved.ID, replacement, &store.ChangeRecord{Note: "reviewer fixed quantity"})
	if err != nil {
		t.Fatalf("UpdateProducts: %v", err)
	}

	if len(updated.Products) != 1 || updated.Products[0].Quantity != 3 {
		t.Errorf("products = %+v", updated.Products)
	}
	if len(updated.ChangeHistory) != 1 {
		t.Fatalf("change history = %+v, want one record", updated.ChangeHistory)
	}
	if updated.ChangeHistory[0].Note != "reviewer fixed quantity" {
		t.Errorf("note = %q", updated.ChangeHistory[0].Note)
	}
	if updated.ChangeHistory[0].At.IsZero() {
		t.Error("change record timestamp not filled")
	}

	// A second revision appends.
	updated, err = s.UpdateProducts(ctx, saved.ID, replacement, &store.ChangeRecord{Note: "second pass"})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.ChangeHistory) != 2 {
		t.Errorf("change history length = %d, want 2", len(updated.ChangeHistory))
	}
}

func TestTranscriptionMemStore_UpdateProductsNilChange(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()
	ctx := context.Background()

	saved, err := s.Save(ctx, store.Transcription{Transcript: "x"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := s.UpdateProducts(ctx, saved.ID, sampleProducts(), nil)
	if err != nil {
		t.Fatalf("UpdateProducts: %v", err)
	}
	if len(updated.ChangeHistory) != 0 {
		t.Errorf("nil change must not append history, got %+v", updated.ChangeHistory)
	}
}

func TestTranscriptionMemStore_UpdateProductsMissing(t *testing.T) {
	t.Parallel()
	s := store.NewTranscriptionMemStore()
	_, err := s.UpdateProducts(context.Background(), "nope", nil, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOrderMemStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	s := store.NewOrderMemStore()
	ctx := context.Background()

	created, err := s.Create(ctx, order.Order{
		Items: []order.LineItem{
			{Name: "Tomato", Unit: "kg", Quantity: 5, UnitPrice: 40, Subtotal: 200},
		},
		Total:  200,
		Status: "pending",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.ID) != 32 {
		t.Errorf("ID = %q, want a 32-char hex id", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not filled")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Total != 200 || got.Status != "pending" {
		t.Errorf("got %+v", got)
	}
}

func TestOrderMemStore_GetMissing(t *testing.T) {
	t.Parallel()
	s := store.NewOrderMemStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
