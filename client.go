package axe

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	apiBaseURL       = "https://export.arxiv.org/api/query"
	pdfBaseURL       = "https://arxiv.org/pdf"
	defaultUserAgent = "axe/1.0 (+https://github.com/tmc/axe)"
)

// Fetcher looks up paper metadata and downloads artifacts.
type Fetcher interface {
	Lookup(ctx context.Context, id Identifier) (*Paper, error)
	Download(ctx context.Context, url, path string) (int64, error)
}

// Client talks to the arXiv export API and PDF mirror.
type Client struct {
	httpClient *http.Client
	apiURL     string
	pdfURL     string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAPIURL overrides the metadata query endpoint.
func WithAPIURL(u string) ClientOption {
	return func(c *Client) { c.apiURL = strings.TrimRight(u, "/") }
}

// WithPDFURL overrides the PDF base URL.
func WithPDFURL(u string) ClientOption {
	return func(c *Client) { c.pdfURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates an arXiv client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     apiBaseURL,
		pdfURL:     pdfBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PDFURL returns the public PDF location for id.
func (c *Client) PDFURL(id Identifier) string {
	return c.pdfURL + "/" + string(id) + ".pdf"
}

// Lookup queries the API for exactly one identifier. It returns an error
// matching ErrMetadataNotFound when the API has no entry for it.
func (c *Client) Lookup(ctx context.Context, id Identifier) (*Paper, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s&max_results=1", c.apiURL, url.QueryEscape(string(id)))

	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: reqURL, Err: err}
	}

	var feed apiFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, &NetworkError{URL: reqURL, Err: fmt.Errorf("parse xml: %w", err)}
	}

	for _, entry := range feed.Entries {
		if entry.isError() {
			continue
		}
		paper := entry.paper()
		paper.PDFLink = c.PDFURL(id)
		return paper, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, id)
}

// Download streams url into path. The file only appears at path once the
// body has been fully written.
func (c *Client) Download(ctx context.Context, url, path string) (int64, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".axe-download-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, &NetworkError{URL: url, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return n, err
	}
	return n, nil
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &NetworkError{URL: u, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// apiFeed is the part of the API's Atom response that becomes a Paper.
type apiFeed struct {
	Entries []apiEntry `xml:"entry"`
}

type apiEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Primary struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
	Comment    string `xml:"comment"`
	JournalRef string `xml:"journal_ref"`
	DOI        string `xml:"doi"`
}

// isError reports whether e is the placeholder the API returns for an
// unknown or malformed id.
func (e apiEntry) isError() bool {
	return strings.Contains(e.ID, "/api/errors")
}

// paper converts e. The primary category, when present, is listed first.
func (e apiEntry) paper() *Paper {
	p := &Paper{
		Title:      collapseSpace(e.Title),
		Abstract:   collapseSpace(e.Summary),
		Comments:   collapseSpace(e.Comment),
		JournalRef: collapseSpace(e.JournalRef),
		DOI:        strings.TrimSpace(e.DOI),
	}
	// http://arxiv.org/abs/2301.00001v1 -> 2301.00001
	if _, abs, ok := strings.Cut(e.ID, "/abs/"); ok {
		p.ID = string(Identifier(abs).Base())
	}
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, collapseSpace(a.Name))
	}

	var cats []string
	if e.Primary.Term != "" {
		cats = append(cats, e.Primary.Term)
	}
	for _, c := range e.Categories {
		if c.Term != e.Primary.Term {
			cats = append(cats, c.Term)
		}
	}
	p.Categories = strings.Join(cats, " ")

	p.Published, _ = time.Parse(time.RFC3339, e.Published)
	p.Updated, _ = time.Parse(time.RFC3339, e.Updated)
	return p
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
