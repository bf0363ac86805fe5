package axe

import (
	"fmt"
	"strings"
)

// SourceKind says how a user-supplied target was resolved.
type SourceKind string

const (
	KindFile           SourceKind = "file"
	KindDirectory      SourceKind = "directory"
	KindConfiguredPath SourceKind = "configured-path"
	KindURLOrID        SourceKind = "url-or-id"
)

// SourceItem is a classified target, consumed once by the orchestrator.
type SourceItem struct {
	Locator string
	Kind    SourceKind
}

// Format selects the conversion output.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatBoth     Format = "both"
)

// Formats lists the accepted format selectors.
var Formats = []Format{FormatText, FormatMarkdown, FormatBoth}

// ParseFormat parses a format selector case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", &ValidationError{
		Field:   "format",
		Message: fmt.Sprintf("invalid format %q: must be one of text, markdown, both", s),
	}
}

// Steps returns the single-format conversions the selector requires.
func (f Format) Steps() []Format {
	switch f {
	case FormatText:
		return []Format{FormatText}
	case FormatMarkdown:
		return []Format{FormatMarkdown}
	case FormatBoth:
		return []Format{FormatText, FormatMarkdown}
	}
	return nil
}

// Ext returns the output file extension for a single-format step.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return ".md"
}

// Status is the final state of a conversion job.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome is the tagged result of one job: Success, Failed(kind, detail)
// or Skipped(reason).
type Outcome struct {
	Status  Status
	Kind    FailureKind // set only for StatusFailed
	Detail  string
	Outputs []string // files written, set only for StatusSuccess
}

// Success builds a successful outcome.
func Success(outputs ...string) Outcome {
	return Outcome{Status: StatusSuccess, Outputs: outputs}
}

// Failed builds a failed outcome.
func Failed(kind FailureKind, detail string) Outcome {
	return Outcome{Status: StatusFailed, Kind: kind, Detail: detail}
}

// FailedErr builds a failed outcome from an error.
func FailedErr(err error) Outcome {
	return Failed(FailureKindOf(err), err.Error())
}

// Skipped builds a skipped outcome.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Detail: reason}
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusFailed:
		return fmt.Sprintf("failed (%s): %s", o.Kind, o.Detail)
	case StatusSkipped:
		return "skipped: " + o.Detail
	}
	return string(o.Status)
}

// ConversionJob ties an item to the format requested and its outcome.
type ConversionJob struct {
	Item       SourceItem
	Format     Format
	Identifier Identifier // empty for local PDFs
	Title      string
	Outcome    Outcome
}

// StatsSink receives one increment per finished job.
type StatsSink interface {
	IncrementSuccess()
	IncrementFailed()
	IncrementSkipped()
}

// Tally counts outcomes in a slice of jobs.
func Tally(jobs []ConversionJob) (success, failed, skipped int) {
	for _, j := range jobs {
		switch j.Outcome.Status {
		case StatusSuccess:
			success++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return success, failed, skipped
}
