// Package pipeline composes the per-order processing chain: transcript text
// → extraction → normalization → catalog matching → aggregation.
//
// The chain is a short synchronous computation over the immutable catalog
// index; the only blocking call is the LLM extraction at the front. It is
// safe to run any number of orders concurrently: matching holds no locks and
// a catalog reload swaps the index atomically underneath without disturbing
// in-flight orders.
package pipeline

import (
	"context"
	"fmt"

	"github.com/farm2bag/voicecart/internal/catalog"
	"github.com/farm2bag/voicecart/internal/extract"
	"github.com/farm2bag/voicecart/internal/match"
	"github.com/farm2bag/voicecart/internal/order"
)

// Item is one audited product row: the raw extraction joined with its match
// outcome. Items survive into the transcription record so a reviewer can see
// what was heard, what the model extracted, and what the matcher decided.
type Item struct {
	// SpokenLabel is the product reference as uttered by the customer.
	SpokenLabel string `json:"ainame"`

	// Name is the resolved canonical name, or the extracted name unchanged
	// when no confident match was found. The customer's utterance never
	// silently disappears from the order.
	Name string `json:"name"`

	// Quantity is the normalized quantity.
	Quantity float64 `json:"qty"`

	// Unit is the normalized unit; falls back to the catalog entry's display
	// unit when the customer didn't say one.
	Unit string `json:"unit"`

	// UnitPrice is the catalog price, 0 when unmatched.
	UnitPrice float64 `json:"price"`

	// Matched reports whether the matcher was confident.
	Matched bool `json:"matched"`

	// Confidence is the matcher's similarity score in [0, 1].
	Confidence float64 `json:"confidence"`

	// QuantityDefaulted flags that the spoken quantity was unparseable and
	// defaulted to 1.
	QuantityDefaulted bool `json:"qtyDefaulted,omitempty"`
}

// Result is the outcome of processing one transcript.
type Result struct {
	// Transcript is the input text, kept for audit.
	Transcript string

	// Items are the per-extraction audit rows, pre-aggregation, in spoken
	// order.
	Items []Item

	// LineItems are the aggregated, priced rows ready for an order.
	LineItems []order.LineItem

	// Total is the sum of line-item subtotals.
	Total float64
}

// Pipeline wires the extractor, matcher, and catalog holder together.
type Pipeline struct {
	extractor *extract.Extractor
	matcher   *match.Matcher
	catalog   *catalog.Holder
}

// New returns a Pipeline over the given collaborators.
func New(extractor *extract.Extractor, matcher *match.Matcher, holder *catalog.Holder) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		matcher:   matcher,
		catalog:   holder,
	}
}

// Process runs the full chain over transcript.
//
// Only two things can fail: the LLM call and an unloaded catalog (a startup
// ordering bug, not a runtime condition). Unmatched products, garbled
// quantities, and a transcript with no products at all are normal results
// carried in the returned Result, not errors.
func (p *Pipeline) Process(ctx context.Context, transcript string) (*Result, error) {
	extractions, err := p.extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	idx, err := p.catalog.Index()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	result := Price(extractions, idx, p.matcher)
	result.Transcript = transcript
	return result, nil
}

// Price resolves each extraction against idx and aggregates the outcome.
// It is the pure, deterministic tail of the pipeline, split out so tests can
// drive it without an LLM.
func Price(extractions []extract.RawExtraction, idx *catalog.Index, matcher *match.Matcher) *Result {
	result := &Result{
		Items:     make([]Item, 0, len(extractions)),
		LineItems: []order.LineItem{},
	}

	raw := make([]order.LineItem, 0, len(extractions))
	for _, ex := range extractions {
		m := matcher.Match(ex.ExtractedName, idx)

		item := Item{
			SpokenLabel:       ex.SpokenLabel,
			Name:              ex.ExtractedName,
			Quantity:          ex.Quantity,
			Unit:              ex.Unit,
			Matched:           m.Matched,
			Confidence:        m.Confidence,
			QuantityDefaulted: ex.QuantityDefaulted,
		}
		if m.Matched {
			item.Name = m.Entry.CanonicalName
			item.UnitPrice = m.Entry.PricePerUnit
			if item.Unit == "" {
				item.Unit = m.Entry.Unit
			}
		}

		result.Items = append(result.Items, item)
		raw = append(raw, order.LineItem{
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	result.LineItems = order.Aggregate(raw)
	result.Total = order.Total(result.LineItems)
	return result
}
