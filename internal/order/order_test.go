package order_test

import (
	"testing"

	"github.com/farm2bag/voicecart/internal/order"
)

func TestAggregate_MergesByName(t *testing.T) {
	t.Parallel()
	items := []order.LineItem{
		{Name: "Tomato", Unit: "kg", Quantity: 2, UnitPrice: 40},
		{Name: "Onion", Unit: "kg", Quantity: 1, UnitPrice: 35},
		{Name: "Tomato", Unit: "kg", Quantity: 3, UnitPrice: 40},
	}

	got := order.Aggregate(items)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	// First-appearance order is kept.
	if got[0].Name != "Tomato" || got[1].Name != "Onion" {
		t.Errorf("order = [%s, %s], want [Tomato, Onion]", got[0].Name, got[1].Name)
	}
	if got[0].Quantity != 5 {
		t.Errorf("Tomato quantity = %v, want 5", got[0].Quantity)
	}
	if got[0].Subtotal != 200 {
		t.Errorf("Tomato subtotal = %v, want 200", got[0].Subtotal)
	}
}

func TestAggregate_RecomputesSubtotals(t *testing.T) {
	t.Parallel()
	// Client-supplied subtotals are lies; Aggregate must overwrite them.
	items := []order.LineItem{
		{Name: "Milk", Unit: "litre", Quantity: 2, UnitPrice: 56, Subtotal: 9999},
	}

	got := order.Aggregate(items)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Subtotal != 112 {
		t.Errorf("subtotal = %v, want 112", got[0].Subtotal)
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()
	if got := order.Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %+v, want empty", got)
	}
}

func TestAggregate_Stable(t *testing.T) {
	t.Parallel()
	items := []order.LineItem{
		{Name: "C", Quantity: 1},
		{Name: "A", Quantity: 1},
		{Name: "B", Quantity: 1},
		{Name: "A", Quantity: 1},
	}

	first := order.Aggregate(items)
	for range 10 {
		again := order.Aggregate(items)
		for i := range first {
			if again[i].Name != first[i].Name {
				t.Fatalf("aggregation order unstable: %+v vs %+v", again, first)
			}
		}
	}
	if first[0].Name != "C" || first[1].Name != "A" || first[2].Name != "B" {
		t.Errorf("order = %+v, want first-appearance [C A B]", first)
	}
}

func TestTotal(t *testing.T) {
	t.Parallel()
	items := []order.LineItem{
		{Name: "Tomato", Quantity: 5, UnitPrice: 40, Subtotal: 200},
		{Name: "Onion", Quantity: 1, UnitPrice: 35, Subtotal: 35},
	}
	if got := order.Total(items); got != 235 {
		t.Errorf("Total = %v, want 235", got)
	}
	if got := order.Total(nil); got != 0 {
		t.Errorf("Total(nil) = %v, want 0", got)
	}
}
