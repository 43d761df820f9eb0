// Package order defines priced line items and the aggregation step that
// merges repeated references to the same product within one order.
package order

import "time"

// LineItem is one priced row of an order. Subtotal is always recomputed from
// Quantity and UnitPrice, never trusted from upstream input, so a stored
// subtotal cannot diverge from its factors.
type LineItem struct {
	// Name is the resolved canonical product name, or the customer's original
	// words when no confident catalog match was found.
	Name string `json:"name"`

	// Unit is the display unit for the quantity.
	Unit string `json:"unit"`

	// Quantity is the ordered amount in Unit.
	Quantity float64 `json:"quantity"`

	// UnitPrice is the catalog price per Unit; 0 for unmatched items.
	UnitPrice float64 `json:"price"`

	// Subtotal is Quantity * UnitPrice.
	Subtotal float64 `json:"subtotal"`
}

// Order is a persisted customer order.
type Order struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"products"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Aggregate merges line items referring to the same product name.
//
// Items are grouped by Name; within a group quantities sum and the
// first-seen unit and unit price are kept (items in a group resolved to the
// same catalog entry, so unit and price are invariant within the group).
// Subtotals are recomputed from the summed quantity. Output order follows the
// first appearance of each distinct name in the input, so repeated runs over
// the same input produce the same list.
func Aggregate(items []LineItem) []LineItem {
	byName := make(map[string]int, len(items))
	out := make([]LineItem, 0, len(items))

	for _, item := range items {
		if pos, seen := byName[item.Name]; seen {
			out[pos].Quantity += item.Quantity
			out[pos].Subtotal = out[pos].Quantity * out[pos].UnitPrice
			continue
		}
		item.Subtotal = item.Quantity * item.UnitPrice
		byName[item.Name] = len(out)
		out = append(out, item)
	}
	return out
}

// Total returns the sum of all item subtotals.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}
