package axe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePDFToText writes a shell script standing in for pdftotext. It checks
// that its input exists and prints a fixed text.
func fakePDFToText(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "pdftotext")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0755))
	return bin
}

const okScript = `test -f "$3" || { echo "missing $3" >&2; exit 1; }
printf 'Hello\nworld.\n\nSecond para-\ngraph.\n'
`

func samplePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
	return path
}

func TestPDFToTextConvert(t *testing.T) {
	conv := NewPDFToText(fakePDFToText(t, okScript), nil)
	pdf := samplePDF(t)

	t.Run("text", func(t *testing.T) {
		res, err := conv.Convert(context.Background(), ConversionRequest{Source: pdf, Format: FormatText, BaseName: "sample"})
		require.NoError(t, err)
		assert.Equal(t, "Hello\nworld.\n\nSecond para-\ngraph.\n", res.Content)
		assert.Empty(t, res.Path)
	})

	t.Run("markdown without metadata", func(t *testing.T) {
		res, err := conv.Convert(context.Background(), ConversionRequest{Source: "file://" + pdf, Format: FormatMarkdown, BaseName: "sample"})
		require.NoError(t, err)
		assert.Equal(t, "# sample\n\nHello world.\n\nSecond paragraph.\n", res.Content)
	})

	t.Run("markdown with metadata", func(t *testing.T) {
		res, err := conv.Convert(context.Background(), ConversionRequest{Source: pdf, Format: FormatMarkdown, BaseName: "x", Paper: attentionPaper()})
		require.NoError(t, err)
		assert.Contains(t, res.Content, "# Attention Is All You Need\n")
		assert.Contains(t, res.Content, "```bibtex\n@misc{vaswani2017atten,")
	})

	t.Run("both is not a single step", func(t *testing.T) {
		_, err := conv.Convert(context.Background(), ConversionRequest{Source: pdf, Format: FormatBoth})
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestPDFToTextRemoteSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pdf/2103.15538.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	conv := NewPDFToText(fakePDFToText(t, okScript), server.Client())

	res, err := conv.Convert(context.Background(), ConversionRequest{Source: server.URL + "/pdf/2103.15538.pdf", Format: FormatText})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Hello")

	_, err = conv.Convert(context.Background(), ConversionRequest{Source: server.URL + "/pdf/missing.pdf", Format: FormatText})
	require.Error(t, err)
	assert.Equal(t, FailureConversion, FailureKindOf(err))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
}

func TestPDFToTextReusesLocalPath(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	conv := NewPDFToText(fakePDFToText(t, okScript), server.Client())
	source := server.URL + "/pdf/2103.15538.pdf"

	res, err := conv.Convert(context.Background(), ConversionRequest{Source: source, LocalPath: samplePDF(t), Format: FormatText})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Hello")
	assert.Zero(t, hits)

	// A local copy that is gone falls back to the source.
	_, err = conv.Convert(context.Background(), ConversionRequest{Source: source, LocalPath: filepath.Join(t.TempDir(), "gone.pdf"), Format: FormatText})
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestPDFToTextFailures(t *testing.T) {
	t.Run("not installed", func(t *testing.T) {
		conv := NewPDFToText(filepath.Join(t.TempDir(), "no-such-pdftotext"), nil)
		require.Error(t, conv.Available())

		_, err := conv.Convert(context.Background(), ConversionRequest{Source: "x.pdf", Format: FormatText})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConversionUnavailable))
		assert.Equal(t, FailureConversionUnavailable, FailureKindOf(err))
		assert.Contains(t, err.Error(), "Install poppler")
	})

	t.Run("tool fails", func(t *testing.T) {
		conv := NewPDFToText(fakePDFToText(t, "echo 'Syntax Error: bad xref' >&2\nexit 1\n"), nil)
		_, err := conv.Convert(context.Background(), ConversionRequest{Source: samplePDF(t), Format: FormatText})
		require.Error(t, err)
		assert.Equal(t, FailureConversion, FailureKindOf(err))
		assert.Contains(t, err.Error(), "bad xref")
	})

	t.Run("missing input", func(t *testing.T) {
		conv := NewPDFToText(fakePDFToText(t, okScript), nil)
		_, err := conv.Convert(context.Background(), ConversionRequest{Source: filepath.Join(t.TempDir(), "gone.pdf"), Format: FormatText})
		require.Error(t, err)
		assert.Equal(t, FailureConversion, FailureKindOf(err))
	})
}
