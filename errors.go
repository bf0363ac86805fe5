package axe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

// Sentinel errors for the failure classes a batch item can hit.
var (
	ErrNotFound              = errors.New("not found")
	ErrMetadataNotFound      = errors.New("paper not found")
	ErrConversionUnavailable = errors.New("conversion unavailable")
	ErrValidation            = errors.New("validation failed")

	// ErrInterrupted is returned by the orchestrator when the batch was
	// cancelled by a process-level interrupt.
	ErrInterrupted = errors.New("interrupted")

	// ErrAlreadyMerged is returned by MergeAndPersist when the current run
	// has already been merged into the persistent statistics.
	ErrAlreadyMerged = errors.New("run statistics already merged")
)

// NotFoundError reports a target that is neither an existing path nor a
// recognizable network locator.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Target)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NetworkError reports a failed fetch or download.
type NetworkError struct {
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConversionUnavailableError reports that the conversion back end is not
// installed. Remediation is shown to the user verbatim.
type ConversionUnavailableError struct {
	Tool        string
	Remediation string
}

func (e *ConversionUnavailableError) Error() string {
	return fmt.Sprintf("%s is not installed. %s", e.Tool, e.Remediation)
}

func (e *ConversionUnavailableError) Is(target error) bool {
	return target == ErrConversionUnavailable
}

// ConversionError reports a conversion step that ran but failed.
type ConversionError struct {
	Format Format
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert to %s: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ValidationError represents a malformed user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FailureKind classifies why an item failed.
type FailureKind string

const (
	FailureNone                  FailureKind = ""
	FailureNotFound              FailureKind = "not-found"
	FailureNetwork               FailureKind = "network"
	FailureMetadataNotFound      FailureKind = "metadata-not-found"
	FailureConversionUnavailable FailureKind = "conversion-unavailable"
	FailureConversion            FailureKind = "conversion-failure"
	FailureValidation            FailureKind = "validation"
	FailureIO                    FailureKind = "io"
	FailureUnexpected            FailureKind = "unexpected"
)

// FailureKindOf maps an error onto the failure taxonomy. Order matters:
// a ConversionError wrapping a NetworkError is still a conversion failure.
func FailureKindOf(err error) FailureKind {
	var (
		convErr *ConversionError
		netErr  *NetworkError
		pathErr *fs.PathError
		linkErr *os.LinkError
	)
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrConversionUnavailable):
		return FailureConversionUnavailable
	case errors.As(err, &convErr):
		return FailureConversion
	case errors.Is(err, ErrMetadataNotFound):
		return FailureMetadataNotFound
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrValidation):
		return FailureValidation
	case errors.As(err, &netErr):
		return FailureNetwork
	case errors.As(err, &pathErr), errors.As(err, &linkErr):
		return FailureIO
	default:
		return FailureUnexpected
	}
}

// interrupted reports whether ctx was cancelled or timed out.
func interrupted(ctx context.Context) bool {
	return ctx.Err() != nil
}
