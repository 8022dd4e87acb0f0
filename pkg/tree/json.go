package tree

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Raw Tree Serialization API
// =============================================================================

// ReadTree decodes a raw input tree from JSON.
func ReadTree(r io.Reader) (*RawNode, error) {
	var root RawNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &root, nil
}

// ReadTreeFile reads a JSON file and returns the decoded raw tree.
func ReadTreeFile(path string) (*RawNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// WriteTree writes a raw tree as indented JSON to an io.Writer.
func WriteTree(root *RawNode, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTreeFile writes a raw tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(root *RawNode, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(root, f)
}
