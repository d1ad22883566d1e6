package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadFixtureMap(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "prompts.yaml", `
greetings:
  - role: user
    content: hi
  - role: user
    content: hello there
empty_group: []
codes:
  - 401
  - 403
`)

	m, err := ReadFixtureMap(path)
	if err != nil {
		t.Fatalf("ReadFixtureMap: %v", err)
	}
	if len(m) != 3 {
		t.Fatalf("len(groups): got %d want %d", len(m), 3)
	}
	if len(m["greetings"]) != 2 {
		t.Fatalf("len(greetings): got %d want %d", len(m["greetings"]), 2)
	}
	item, ok := m["greetings"][0].(map[string]any)
	if !ok {
		t.Fatalf("greetings[0]: got %T want map", m["greetings"][0])
	}
	if item["content"] != "hi" {
		t.Fatalf("greetings[0].content: got %v want %q", item["content"], "hi")
	}
	if len(m["empty_group"]) != 0 {
		t.Fatalf("len(empty_group): got %d want 0", len(m["empty_group"]))
	}
}

func TestReadFixtureMap_JSONDocument(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "prompts.json", `{"g": [{"role": "user", "content": "hi"}]}`)

	m, err := ReadFixtureMap(path)
	if err != nil {
		t.Fatalf("ReadFixtureMap: %v", err)
	}
	if len(m["g"]) != 1 {
		t.Fatalf("len(g): got %d want 1", len(m["g"]))
	}
}

func TestReadFixtureMap_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", ErrEmptyFile},
		{"whitespace_only", "  \n\t\n", ErrEmptyFile},
		{"unparsable", "g: [1, 2", ErrParse},
		{"zero_groups", "{}", ErrInvalidShape},
		{"top_level_sequence", "- a\n- b", ErrInvalidShape},
		{"scalar_group", "g: 42", ErrInvalidShape},
		{"object_group", "g:\n  nested: true", ErrInvalidShape},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFixture(t, "bad.yaml", tt.content)
			_, err := ReadFixtureMap(path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ReadFixtureMap: got %v want %v", err, tt.want)
			}
		})
	}
}

func TestReadFixtureMap_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadFixtureMap(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("ReadFixtureMap: expected error")
	}
}

func TestLoadGroup(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "prompts.yaml", `
g:
  - one
  - two
`)

	items, err := LoadGroup(path, "g")
	if err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}
	if len(items) != 2 || items[0] != "one" {
		t.Fatalf("items: got %#v", items)
	}
}

func TestLoadGroup_NothingToLoad(t *testing.T) {
	t.Parallel()

	for _, args := range [][2]string{{"", "g"}, {"prompts.yaml", ""}, {"", ""}} {
		items, err := LoadGroup(args[0], args[1])
		if err != nil {
			t.Fatalf("LoadGroup(%q, %q): %v", args[0], args[1], err)
		}
		if len(items) != 0 {
			t.Fatalf("LoadGroup(%q, %q): got %#v want empty", args[0], args[1], items)
		}
	}
}

func TestLoadGroup_AbsentGroup(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "prompts.yaml", "g:\n  - one\n")

	items, err := LoadGroup(path, "other")
	if err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items: got %#v want empty", items)
	}
}

func TestLoadGroup_PropagatesErrors(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "bad.yaml", "g: scalar")
	if _, err := LoadGroup(path, "g"); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("LoadGroup: got %v want %v", err, ErrInvalidShape)
	}
}
