package report

import (
	"errors"
	"strings"

	"mis-reports/internal/registry"
)

var (
	ErrMissingModule    = errors.New("please select a module")
	ErrMissingCategory  = errors.New("please select a category")
	ErrMissingDateRange = errors.New("please select both a start and an end date")
	ErrInvalidDateRange = errors.New("start date must be on or before the end date")
	ErrMalformedDate    = errors.New("dates must use the YYYY-MM-DD format")
	ErrUnknownCategory  = registry.ErrUnknownCategory
	ErrFetchFailed      = errors.New("failed to fetch report data")

	// ErrSuperseded is returned to a Session caller whose generation was replaced
	// by a newer one or invalidated by a module change. Its result was discarded.
	ErrSuperseded = errors.New("report generation was superseded")
)

// GenericFailureMessage is shown when a failure carries no message of its own.
const GenericFailureMessage = "Failed to generate report"

// FetchError wraps a backend failure. Its message is the backend's, verbatim.
type FetchError struct {
	Module   registry.Module
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil || strings.TrimSpace(e.Err.Error()) == "" {
		return ErrFetchFailed.Error()
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingModule) ||
		errors.Is(err, ErrMissingCategory) ||
		errors.Is(err, ErrMissingDateRange) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrMalformedDate) ||
		errors.Is(err, ErrUnknownCategory)
}

// UserMessage is the notification text for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericFailureMessage
}
