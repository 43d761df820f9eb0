// Package extract turns the language model's semi-structured response into
// raw (name, quantity, unit) records.
//
// The model is instructed (see [PromptContract]) to emit one line per product
// of the shape:
//
//	<spoken label> - Name: <name>, Quantity: <number>, Unit: <unit>
//
// [Parse] applies one tolerant pattern over the whole response rather than
// splitting on newlines, so surrounding prose, merged lines, and trailing
// chatter are simply skipped. Zero matches means the model saw no products
// and yields an empty slice, never an error.
//
// Any change to the line shape is a versioned contract change between this
// package and the prompt, not a quiet regex tweak: the pattern and
// [PromptContract] must move together.
package extract

import (
	"regexp"
	"strings"

	"github.com/farm2bag/voicecart/internal/normalize"
)

// RawExtraction is one product reference pulled out of the model response.
// It is ephemeral: the matcher consumes it immediately and only the spoken
// label survives into persistence for audit.
type RawExtraction struct {
	// SpokenLabel is the product reference as the customer uttered it.
	SpokenLabel string

	// ExtractedName is the model's cleaned-up product name. This is what the
	// matcher resolves against the catalog.
	ExtractedName string

	// Quantity is the parsed amount. Defaults to 1 when the model emitted
	// nothing parseable.
	Quantity float64

	// Unit is the unit token after synonym normalization.
	Unit string

	// QuantityDefaulted flags that Quantity could not be parsed and was
	// defaulted to 1, so a reviewer knows the number is a guess.
	QuantityDefaulted bool
}

// linePattern matches one product line of the response after whitespace
// collapsing. The quantity field accepts arbitrary non-comma text so that a
// garbled number ("a few") still yields a record, with the quantity
// defaulted by [normalize.Quantity], instead of dropping the product.
var linePattern = regexp.MustCompile(
	`(?i)([a-zA-Z][a-zA-Z ]*?) *- *Name: *([a-zA-Z][a-zA-Z ]*?), *Quantity: *([^,]+?), *Unit: *([a-zA-Z]+)`,
)

// whitespaceRun collapses any run of whitespace (including newlines) into a
// single space before matching, mirroring how the pattern was calibrated.
var whitespaceRun = regexp.MustCompile(`\s+`)

// Parse extracts all product records from responseText. Fields are trimmed;
// units go through [normalize.Unit] and quantities through
// [normalize.Quantity]. Fragments that do not match the pattern are ignored.
func Parse(responseText string) []RawExtraction {
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(responseText, " "))
	if cleaned == "" {
		return nil
	}

	matches := linePattern.FindAllStringSubmatch(cleaned, -1)
	extractions := make([]RawExtraction, 0, len(matches))
	for _, m := range matches {
		qty, defaulted := normalize.Quantity(m[3])
		extractions = append(extractions, RawExtraction{
			SpokenLabel:       strings.TrimSpace(m[1]),
			ExtractedName:     strings.TrimSpace(m[2]),
			Quantity:          qty,
			Unit:              normalize.Unit(m[4]),
			QuantityDefaulted: defaulted,
		})
	}
	return extractions
}
