package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tangle/pkg/errors"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// ReadDocumentFile reads an input document, choosing the decoder from the file
// extension (.json, .yaml, .yml or .toml).
func ReadDocumentFile(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f, format)
}

// FormatFromPath maps a file extension to a document format.
func FormatFromPath(path string) (string, error) {
	ext, err := errors.ValidateExtension(filepath.Ext(path), FormatJSON, FormatYAML, "yml", FormatTOML)
	if err != nil {
		return "", err
	}
	if ext == "yml" {
		return FormatYAML, nil
	}
	return ext, nil
}

// ReadDocument decodes an input document in the given format.
func ReadDocument(r io.Reader, format string) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	return doc, nil
}

// MarshalDocument encodes a document as canonical JSON (sorted map keys).
// The result is stable for identical documents and is used as cache key
// material.
func MarshalDocument(doc Document) ([]byte, error) {
	return encodeCompact(doc)
}

// =============================================================================
// Payload Serialization API
// =============================================================================

// MarshalPayload encodes a payload with sorted keys and four-space
// indentation, without HTML escaping and without a trailing newline.
func MarshalPayload(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePayloadTo(p, &buf); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WritePayloadFile writes the encoded payload to a file.
// The file is created with 0644 permissions.
func WritePayloadFile(data []byte, path string) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writePayloadTo(p Payload, w io.Writer) error {
	if p.Nodes == nil {
		p.Nodes = []NodeRow{}
	}
	if p.Bundles == nil {
		p.Bundles = []BundleRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
