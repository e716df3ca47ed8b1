package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrToolNotFound  = errors.New("tool not found")
	ErrCanceled      = errors.New("canceled by user")
	ErrAborted       = errors.New("aborted")
	ErrFilesystem    = errors.New("filesystem error")
	ErrInvalidOutput = errors.New("invalid output")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCanceled reports whether err stems from a user cancellation rather than a
// failure. Cancellation never triggers a fallback attempt.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// IsSilent reports whether err should end a run without an error report.
func IsSilent(err error) bool {
	return IsCanceled(err) || errors.Is(err, ErrAborted)
}

// Outcome maps an error to the run status recorded in history.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "succeeded"
	case IsCanceled(err):
		return "canceled"
	case errors.Is(err, ErrAborted):
		return "aborted"
	default:
		return "failed"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
