package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrUnknownStage indicates an unrecognized pipeline stage name
	ErrUnknownStage = errors.New("unknown extraction stage")

	// ErrEmptyStages indicates no pipeline stage was enabled
	ErrEmptyStages = errors.New("empty extraction stages")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}

	// Include/ignore patterns may be empty; discovery handles that
	// gracefully.

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if len(cfg.Stages) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one stage required", ErrEmptyStages))
	}

	validStages := map[string]bool{
		"symbols":       true,
		"identifiers":   true,
		"relationships": true,
		"types":         true,
	}
	for _, stage := range cfg.Stages {
		if !validStages[stage] {
			errs = append(errs, fmt.Errorf("%w: %s (valid: symbols, identifiers, relationships, types)", ErrUnknownStage, stage))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
