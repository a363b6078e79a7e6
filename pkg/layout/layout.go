// Package layout validates generator-emitted type layouts offline: every
// (instance size, field offset, field size) triple a manifest declares is
// checked with the same bounds rule the accessors assert at access time.
package layout

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/interop-lab/managed-go-bridge/pkg/bridge"
)

// Manifest is the TOML description of generated type layouts.
type Manifest struct {
	Types []Type `toml:"types"`
}

// Type declares one generated type and its instance size in bytes.
// Sizes and offsets decode as integers; they convert to uintptr at the
// bounds check.
type Type struct {
	Name   string  `toml:"name"`
	Size   uint64  `toml:"size"`
	Fields []Field `toml:"fields"`
}

// Field declares one instance field by byte offset and size.
type Field struct {
	Name   string `toml:"name"`
	Offset uint64 `toml:"offset"`
	Size   uint64 `toml:"size"`
}

// Violation is one field whose declared triple is not self-consistent.
type Violation struct {
	Type  string
	Field Field
	Size  uint64 // declared instance size
}

func (v Violation) String() string {
	return fmt.Sprintf("%s.%s: offset 0x%x + size 0x%x exceeds instance size 0x%x",
		v.Type, v.Field.Name, v.Field.Offset, v.Field.Size, v.Size)
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes manifest TOML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("layout: decoding manifest: %w", err)
	}
	return &m, nil
}

// Validate returns every field declaration that fails the bounds rule.
func (m *Manifest) Validate() []Violation {
	var violations []Violation
	for _, t := range m.Types {
		for _, f := range t.Fields {
			if !bridge.OffsetInBounds(uintptr(t.Size), uintptr(f.Offset), uintptr(f.Size)) {
				violations = append(violations, Violation{Type: t.Name, Field: f, Size: t.Size})
			}
		}
	}
	return violations
}
