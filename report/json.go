package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stellarlinkco/promptcheck/runner"
)

// WriteJSON persists a run summary to path as indented JSON, faithfully
// including nested prompt items and nullable stage errors.
func WriteJSON(path string, s *runner.Summary) error {
	if s == nil {
		return fmt.Errorf("report: nil summary")
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}
	b = append(b, '\n')

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	return nil
}
