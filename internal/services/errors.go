package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrConnectivity       = errors.New("connectivity failure")
	ErrAuthorization      = errors.New("authorization failure")
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrCanceled           = errors.New("canceled")
)

// Wrap builds an error message that includes phase context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, phase, operation, message string, err error) error {
	detail := buildDetail(phase, operation, message)
	if marker == nil {
		marker = ErrUnexpectedResponse
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run rather than the
// current unit of work. Configuration, connectivity, and authorization
// failures affect every subsequent call the same way; decoding problems and
// unexpected statuses are scoped to one request and may be retried or
// skipped by the caller.
func Fatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrConnectivity),
		errors.Is(err, ErrAuthorization):
		return true
	default:
		return false
	}
}

func buildDetail(phase, operation, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
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
