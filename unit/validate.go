package unit

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks a unit configuration before registration. Checks run in
// order and the first violation is returned as a *Error tagged
// StageConfigValidation; nil means the configuration is acceptable.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return configError("missing unit name")
	}

	if strings.TrimSpace(cfg.FixtureFile) == "" {
		return configError("missing fixture file path")
	}
	info, err := os.Stat(cfg.FixtureFile)
	switch {
	case os.IsNotExist(err):
		return configError(fmt.Sprintf("fixture file %q does not exist", cfg.FixtureFile))
	case err != nil:
		return configError(fmt.Sprintf("fixture file %q inaccessible: %v", cfg.FixtureFile, err))
	case info.IsDir():
		return configError(fmt.Sprintf("fixture file %q is a directory", cfg.FixtureFile))
	}

	if strings.TrimSpace(cfg.Group) == "" {
		return configError("missing group name")
	}

	if cfg.PassThreshold != nil && *cfg.PassThreshold < 0 {
		return configError(fmt.Sprintf("pass threshold must be >= 0, got %v", *cfg.PassThreshold))
	}

	return nil
}

func configError(msg string) *Error {
	return &Error{Stage: StageConfigValidation, Message: msg}
}
