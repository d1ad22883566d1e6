// Package fixture loads prompt fixture files: YAML documents mapping a
// group name to an ordered list of arbitrary input items. The engine never
// inspects item shape; items flow through to completion callbacks as-is.
package fixture

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Structural failure modes of a fixture file. Callers match with errors.Is.
var (
	ErrEmptyFile    = errors.New("fixture: empty file")
	ErrParse        = errors.New("fixture: unparsable content")
	ErrInvalidShape = errors.New("fixture: invalid shape")
)

// Map holds the contents of one fixture file: group name to input items.
type Map map[string][]any

// ReadFixtureMap reads and structurally validates a fixture file.
// The document must be non-empty, parseable, contain at least one group,
// and every group value must be a sequence.
func ReadFixtureMap(path string) (Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %q: %w", path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil, fmt.Errorf("fixture: %q: %w", path, ErrEmptyFile)
	}

	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("fixture: %q: %w: %v", path, ErrParse, err)
	}
	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("fixture: %q: %w: top-level value is not a mapping", path, ErrInvalidShape)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fixture: %q: %w: no groups", path, ErrInvalidShape)
	}

	out := make(Map, len(raw))
	for name, v := range raw {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("fixture: %q: %w: group %q is not a sequence", path, ErrInvalidShape, name)
		}
		out[name] = items
	}
	return out, nil
}

// LoadGroup returns the named group's items from a fixture file. An empty
// path or group name means there is nothing to load and yields an empty
// slice, as does a group absent from an otherwise valid file.
func LoadGroup(path, group string) ([]any, error) {
	if path == "" || group == "" {
		return []any{}, nil
	}

	m, err := ReadFixtureMap(path)
	if err != nil {
		return nil, err
	}
	items, ok := m[group]
	if !ok {
		return []any{}, nil
	}
	return items, nil
}
