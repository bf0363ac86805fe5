package axe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureKindOf(t *testing.T) {
	dir := t.TempDir()
	renameErr := os.Rename(filepath.Join(dir, "missing"), filepath.Join(dir, "other"))
	require.Error(t, renameErr)
	_, openErr := os.Open(filepath.Join(dir, "missing"))
	require.Error(t, openErr)

	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureNone},
		{"not found", &NotFoundError{Target: "x"}, FailureNotFound},
		{"network", &NetworkError{URL: "u", StatusCode: 503}, FailureNetwork},
		{"metadata", fmt.Errorf("%w: 1234.5678", ErrMetadataNotFound), FailureMetadataNotFound},
		{"unavailable", &ConversionUnavailableError{Tool: "pdftotext"}, FailureConversionUnavailable},
		{"conversion wrapping network", &ConversionError{Format: FormatText, Err: &NetworkError{URL: "u"}}, FailureConversion},
		{"validation", &ValidationError{Field: "f", Message: "bad"}, FailureValidation},
		{"path error", openErr, FailureIO},
		{"link error", renameErr, FailureIO},
		{"wrapped link error", fmt.Errorf("save: %w", renameErr), FailureIO},
		{"other", errors.New("boom"), FailureUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureKindOf(tt.err))
		})
	}
}

func TestInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, interrupted(ctx))
	cancel()
	assert.True(t, interrupted(ctx))
}
