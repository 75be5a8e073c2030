package circulation

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrCrossTenant  = errors.New("entity belongs to another library")
	ErrIneligible   = errors.New("not eligible")
	ErrConflict     = errors.New("conflict")
	ErrHoldConflict = errors.New("copy has pending holds")
	ErrRenewalLimit = errors.New("renewal limit reached")
)

// IsRetryable reports whether the caller may re-read state and reissue the command.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCrossTenant):
		return "cross_tenant"
	case errors.Is(err, ErrIneligible):
		return "ineligible"
	case errors.Is(err, ErrHoldConflict):
		return "hold_conflict"
	case errors.Is(err, ErrRenewalLimit):
		return "renewal_limit"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}

	return "internal"
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func ineligiblef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIneligible, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
