package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
)

// Supported document formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for files whose extension is neither .toml nor .json.
var ErrUnknownFormat = apperr.New(apperr.ErrCodeInvalidFormat, "unknown document format")

// ReadJSON decodes a JSON document from r. Unknown fields are rejected.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDocument, err, "decode json")
	}
	return &d, nil
}

// ReadTOML decodes a TOML document from r. Unknown keys are rejected.
// ReadTOML does not close r.
func ReadTOML(r io.Reader) (*Document, error) {
	var d Document
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDocument, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, apperr.New(apperr.ErrCodeInvalidDocument, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &d, nil
}

// Read decodes a document in the given format.
func Read(r io.Reader, format string) (*Document, error) {
	switch format {
	case FormatTOML:
		return ReadTOML(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

// FormatFromPath returns the document format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Load reads the document at path, choosing the format by extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
