// Package normalize canonicalizes the free-text quantity and unit tokens the
// extraction LLM produces. Normalization is best-effort cosmetic cleanup, not
// validation: unknown units pass through unchanged and unparseable quantities
// default to 1, because a garbled token must never abort an order.
package normalize

import (
	"strconv"
	"strings"
)

// unitSynonyms maps lowercased unit spellings to their canonical form.
// Canonical forms map to themselves so that Unit is idempotent.
var unitSynonyms = map[string]string{
	// weight
	"kg":        "kg",
	"kgs":       "kg",
	"kilo":      "kg",
	"kilos":     "kg",
	"kilogram":  "kg",
	"kilograms": "kg",
	"gram":      "gram",
	"grams":     "gram",
	"gm":        "gram",
	"gms":       "gram",
	"g":         "gram",

	// count
	"piece":  "piece",
	"pieces": "piece",
	"pc":     "piece",
	"pcs":    "piece",

	// volume
	"ml":          "ml",
	"mls":         "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"litre":       "litre",
	"litres":      "litre",
	"liter":       "litre",
	"liters":      "litre",
	"l":           "litre",

	// currency words the LLM sometimes emits in place of a unit
	"rupee":  "rupees",
	"rupees": "rupees",
	"rs":     "rupees",
	"inr":    "rupees",

	// packaging
	"dozen":   "dozen",
	"dozens":  "dozen",
	"packet":  "packet",
	"packets": "packet",
	"pkt":     "packet",
	"bunch":   "bunch",
	"bunches": "bunch",
}

// Unit maps a free-text unit token onto the fixed unit vocabulary.
// Unrecognized units are returned trimmed but otherwise unchanged.
// Unit is idempotent: Unit(Unit(x)) == Unit(x) for all x.
func Unit(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := unitSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Quantity parses raw as a non-negative quantity.
//
// On any parse failure (empty input, non-numeric text, or a negative value)
// it returns 1 and defaulted=true. The caller decides whether to surface the
// flag to a human reviewer; the pipeline itself keeps going.
func Quantity(raw string) (qty float64, defaulted bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1, true
	}
	q, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || q < 0 {
		return 1, true
	}
	return q, false
}
