package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a voicecart catalog YAML file.
//
// Example:
//
//	catalog:
//	  name: "Farm2Bag Chennai"
//	  currency: "INR"
//	products:
//	  - name: "Tomato"
//	    unit: "kg"
//	    price: 20
type File struct {
	Catalog  Meta    `yaml:"catalog"`
	Products []Entry `yaml:"products"`
}

// Meta holds top-level metadata for a catalog file.
type Meta struct {
	// Name is the catalog's display name (e.g., the shop or warehouse).
	Name string `yaml:"name"`

	// Currency is the ISO 4217 code prices are denominated in.
	Currency string `yaml:"currency"`
}

// LoadFile reads and parses a catalog YAML file from disk.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	cf, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return cf, nil
}

// LoadFromReader parses catalog YAML from an [io.Reader].
// The reader is consumed entirely; the caller is responsible for closing it.
func LoadFromReader(r io.Reader) (*File, error) {
	var cf File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return &cf, nil
}

// LoadTextFile reads the legacy plain-text catalog format: one product per
// line, fields separated by " - ".
//
//	Tomato - kg - 20
//	Basmati Rice - kg - 60
//
// Unit and price are optional; a line with only a name yields an entry with
// an empty unit and price 0. Blank lines are skipped. An unparseable price
// fails the load.
func LoadTextFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()

	entries, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %q: %w", path, err)
	}
	return entries, nil
}

// ParseText parses the plain-text catalog format from r. See [LoadTextFile]
// for the line format.
func ParseText(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, " - ")
		e := Entry{CanonicalName: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			e.Unit = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: price %q: %w", lineNo, parts[2], err)
			}
			e.PricePerUnit = price
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return entries, nil
}
