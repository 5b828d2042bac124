package io

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON encodes d as indented JSON. A TOML document written this way can
// be posted to the HTTP API unchanged.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Canonical returns a stable byte encoding of d, suitable for hashing.
// Documents that differ only in the source format or in map key order encode
// identically.
func Canonical(d *Document) ([]byte, error) {
	// encoding/json sorts map keys; int64(1) and float64(1) both encode as 1.
	return json.Marshal(d)
}
