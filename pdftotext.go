package axe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
)

// Converter is the conversion capability: it turns a PDF into text or
// markdown for a single format step.
type Converter interface {
	Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error)
}

// ConversionRequest describes one single-format conversion step.
type ConversionRequest struct {
	// Source is a public URL or a local file path / file:// URI.
	Source string

	// LocalPath is an already downloaded copy of Source, if any.
	// Converters that read files use it instead of fetching Source.
	LocalPath string

	// Format is FormatText or FormatMarkdown, never FormatBoth.
	Format Format

	// OutputDir and BaseName say where the output belongs.
	OutputDir string
	BaseName  string

	// Paper is the metadata, when known.
	Paper *Paper
}

// ConversionResult is what a step produced. Path is set only when the
// converter wrote the output file itself.
type ConversionResult struct {
	Content string
	Path    string
}

const pdftotextRemediation = "Install poppler (apt install poppler-utils, brew install poppler) or set AXE_PDFTOTEXT to the pdftotext binary."

// PDFToText converts PDFs with poppler's pdftotext. It never writes output
// files; the orchestrator persists the returned content.
type PDFToText struct {
	bin        string
	httpClient *http.Client
	userAgent  string
}

// NewPDFToText returns a converter using bin (default "pdftotext").
func NewPDFToText(bin string, httpClient *http.Client) *PDFToText {
	if bin == "" {
		bin = "pdftotext"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PDFToText{bin: bin, httpClient: httpClient, userAgent: defaultUserAgent}
}

// Available reports whether the pdftotext binary can be found.
func (p *PDFToText) Available() error {
	if _, err := exec.LookPath(p.bin); err != nil {
		return &ConversionUnavailableError{Tool: p.bin, Remediation: pdftotextRemediation}
	}
	return nil
}

// Convert implements Converter.
func (p *PDFToText) Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error) {
	if err := p.Available(); err != nil {
		return ConversionResult{}, err
	}

	source := req.Source
	if req.LocalPath != "" {
		if _, err := os.Stat(req.LocalPath); err == nil {
			source = req.LocalPath
		}
	}
	path, cleanup, err := p.localCopy(ctx, source)
	if err != nil {
		return ConversionResult{}, &ConversionError{Format: req.Format, Err: err}
	}
	defer cleanup()

	text, err := p.extract(ctx, path)
	if err != nil {
		return ConversionResult{}, &ConversionError{Format: req.Format, Err: err}
	}

	switch req.Format {
	case FormatText:
		return ConversionResult{Content: text}, nil
	case FormatMarkdown:
		title := req.BaseName
		if req.Paper != nil && req.Paper.Title != "" {
			title = req.Paper.Title
		}
		return ConversionResult{Content: RenderMarkdown(title, text, req.Paper)}, nil
	}
	return ConversionResult{}, &ValidationError{Field: "format", Message: fmt.Sprintf("cannot convert to %q", req.Format)}
}

// extract runs pdftotext and returns the extracted text.
func (p *PDFToText) extract(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.bin, "-enc", "UTF-8", pdfPath, "-")
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// localCopy makes source readable by pdftotext: remote sources are fetched
// into a temporary file that cleanup removes.
func (p *PDFToText) localCopy(ctx context.Context, source string) (string, func(), error) {
	noop := func() {}
	source = strings.TrimPrefix(source, "file://")
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		if _, err := os.Stat(source); err != nil {
			return "", noop, fmt.Errorf("PDF not found: %w", err)
		}
		return source, noop, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", noop, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", noop, &NetworkError{URL: source, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", noop, &NetworkError{URL: source, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp("", "axe-convert-*.pdf")
	if err != nil {
		return "", noop, err
	}
	_, err = io.Copy(tmp, resp.Body)
	tmp.Close()
	cleanup := func() { os.Remove(tmp.Name()) }
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("read PDF: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
