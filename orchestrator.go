package axe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultDelay separates consecutive items of a directory batch.
const DefaultDelay = 100 * time.Millisecond

const (
	skipNotPDF        = "not a PDF document"
	skipNotRecognized = "not a PDF or recognizable arXiv file"
)

// EventKind labels a progress event.
type EventKind string

const (
	EventStart   EventKind = "start"
	EventInfo    EventKind = "info"
	EventWrote   EventKind = "wrote"
	EventDone    EventKind = "done"
	EventWarning EventKind = "warning"
)

// Event is a textual progress report. Job is set for EventDone.
type Event struct {
	Kind    EventKind
	Item    SourceItem
	Message string
	Path    string
	Job     *ConversionJob
}

// EventFunc receives progress events.
type EventFunc func(Event)

// Recorder stores finished jobs, e.g. in the ledger.
type Recorder interface {
	Record(ctx context.Context, job ConversionJob) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDelay sets the pause between consecutive directory items.
func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// WithEvents sets the progress callback.
func WithEvents(fn EventFunc) Option {
	return func(o *Orchestrator) { o.events = fn }
}

// WithRecorder records every finished job.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// Orchestrator fetches and converts items one at a time. A failing item
// never stops the batch; only cancellation of the context does.
type Orchestrator struct {
	fetcher   Fetcher
	converter Converter
	stats     StatsSink
	delay     time.Duration
	events    EventFunc
	recorder  Recorder
}

// NewOrchestrator returns an orchestrator reporting outcomes to stats.
func NewOrchestrator(fetcher Fetcher, converter Converter, stats StatsSink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:   fetcher,
		converter: converter,
		stats:     stats,
		delay:     DefaultDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process dispatches a classified item. A configured path is processed as
// a directory. The error is non-nil only when the batch was interrupted.
func (o *Orchestrator) Process(ctx context.Context, item SourceItem, outputDir string, format Format) ([]ConversionJob, error) {
	switch item.Kind {
	case KindDirectory, KindConfiguredPath:
		return o.processDirectory(ctx, item, outputDir, format)
	case KindFile:
		job, err := o.ProcessFile(ctx, item.Locator, outputDir, format)
		if err != nil {
			return nil, err
		}
		return []ConversionJob{job}, nil
	case KindURLOrID:
		job, err := o.ProcessURLOrID(ctx, item.Locator, outputDir, format)
		if err != nil {
			return nil, err
		}
		return []ConversionJob{job}, nil
	}
	return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown source kind %q", item.Kind)}
}

// ProcessFile converts a local PDF. Any other file is looked up on arXiv
// when its name carries an identifier, and skipped otherwise.
func (o *Orchestrator) ProcessFile(ctx context.Context, path, outputDir string, format Format) (ConversionJob, error) {
	item := SourceItem{Locator: path, Kind: KindFile}
	return o.run(ctx, item, format, func(job *ConversionJob) Outcome {
		name := filepath.Base(path)
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		if strings.EqualFold(ext, ".pdf") {
			job.Title = stem
			return o.convert(ctx, job, path, "", outputDir, stem, nil)
		}
		id, ok := ExtractIdentifier(stem)
		if !ok {
			return Skipped(skipNotRecognized)
		}
		return o.fetchAndConvert(ctx, job, string(id), outputDir)
	})
}

// ProcessDirectory converts every PDF directly inside dir, in name order,
// pausing between items. Other regular files are recorded as skipped.
func (o *Orchestrator) ProcessDirectory(ctx context.Context, dir, outputDir string, format Format) ([]ConversionJob, error) {
	return o.processDirectory(ctx, SourceItem{Locator: dir, Kind: KindDirectory}, outputDir, format)
}

func (o *Orchestrator) processDirectory(ctx context.Context, dirItem SourceItem, outputDir string, format Format) ([]ConversionJob, error) {
	if interrupted(ctx) {
		return nil, interruptErr(ctx)
	}

	files, err := listFiles(dirItem.Locator)
	if err != nil {
		job := o.finish(ctx, ConversionJob{Item: dirItem, Format: format, Outcome: FailedErr(err)})
		return []ConversionJob{job}, nil
	}
	if len(files) == 0 {
		o.emit(Event{Kind: EventInfo, Item: dirItem, Message: "no documents found in " + dirItem.Locator})
		return nil, nil
	}

	var jobs []ConversionJob
	for i, path := range files {
		if i > 0 {
			if err := sleep(ctx, o.delay); err != nil {
				return jobs, interruptErr(ctx)
			}
		}

		var job ConversionJob
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			job, err = o.ProcessFile(ctx, path, outputDir, format)
		} else {
			item := SourceItem{Locator: path, Kind: KindFile}
			job, err = o.run(ctx, item, format, func(*ConversionJob) Outcome {
				return Skipped(skipNotPDF)
			})
		}
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// ProcessURLOrID looks up an identifier, URL or free text on arXiv,
// downloads the PDF and converts it.
func (o *Orchestrator) ProcessURLOrID(ctx context.Context, locator, outputDir string, format Format) (ConversionJob, error) {
	item := SourceItem{Locator: locator, Kind: KindURLOrID}
	return o.run(ctx, item, format, func(job *ConversionJob) Outcome {
		return o.fetchAndConvert(ctx, job, locator, outputDir)
	})
}

func (o *Orchestrator) fetchAndConvert(ctx context.Context, job *ConversionJob, locator, outputDir string) Outcome {
	id, ok := ExtractIdentifier(locator)
	if !ok {
		return Failed(FailureValidation, fmt.Sprintf("could not parse identifier from %q", locator))
	}
	job.Identifier = id

	o.emit(Event{Kind: EventInfo, Item: job.Item, Message: "looking up " + string(id)})
	paper, err := o.fetcher.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMetadataNotFound) {
			return Failed(FailureMetadataNotFound, "paper not found: "+string(id))
		}
		return FailedErr(err)
	}
	if paper.PDFLink == "" {
		return Failed(FailureNetwork, "no PDF location for "+string(id))
	}
	job.Title = paper.Title

	base := SanitizeFilename(paper.Title)
	if base == "" {
		base = string(id)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return FailedErr(err)
	}

	pdfPath := filepath.Join(outputDir, base+".pdf")
	n, err := o.fetcher.Download(ctx, paper.PDFLink, pdfPath)
	if err != nil {
		return FailedErr(err)
	}
	o.emit(Event{
		Kind:    EventWrote,
		Item:    job.Item,
		Path:    pdfPath,
		Message: fmt.Sprintf("downloaded %s (%s)", filepath.Base(pdfPath), humanize.Bytes(uint64(n))),
	})

	return o.convert(ctx, job, paper.PDFLink, pdfPath, outputDir, base, paper)
}

// convert runs one conversion step per requested format. Content the
// converter returns without writing is written to outputDir/base.ext.
// local is the downloaded copy of source; a step that cannot reach source
// is retried against it.
func (o *Orchestrator) convert(ctx context.Context, job *ConversionJob, source, local, outputDir, base string, paper *Paper) Outcome {
	steps := job.Format.Steps()
	if len(steps) == 0 {
		return Failed(FailureValidation, fmt.Sprintf("invalid format %q", job.Format))
	}

	var outputs []string
	for _, step := range steps {
		req := ConversionRequest{
			Source:    source,
			LocalPath: local,
			Format:    step,
			OutputDir: outputDir,
			BaseName:  base,
			Paper:     paper,
		}
		res, err := o.converter.Convert(ctx, req)
		var netErr *NetworkError
		if err != nil && local != "" && errors.As(err, &netErr) && !interrupted(ctx) {
			o.emit(Event{Kind: EventInfo, Item: job.Item, Message: fmt.Sprintf("%s unreachable, converting %s", source, filepath.Base(local))})
			req.Source = local
			res, err = o.converter.Convert(ctx, req)
		}
		if err != nil {
			return FailedErr(err)
		}

		path := res.Path
		if path == "" {
			if res.Content == "" {
				return Failed(FailureConversion, fmt.Sprintf("convert to %s: no content produced", step))
			}
			path = filepath.Join(outputDir, base+step.Ext())
			if err := writeOutput(path, res.Content); err != nil {
				return FailedErr(err)
			}
		}
		o.emit(Event{Kind: EventWrote, Item: job.Item, Path: path, Message: "wrote " + filepath.Base(path)})
		outputs = append(outputs, path)
	}
	return Success(outputs...)
}

// run processes one item. Panics become unexpected failures. When the
// context is cancelled the item's work is discarded and nothing is
// recorded.
func (o *Orchestrator) run(ctx context.Context, item SourceItem, format Format, fn func(*ConversionJob) Outcome) (ConversionJob, error) {
	if interrupted(ctx) {
		return ConversionJob{}, interruptErr(ctx)
	}
	o.emit(Event{Kind: EventStart, Item: item, Message: "processing " + item.Locator})

	job := ConversionJob{Item: item, Format: format}
	outcome := guard(&job, fn)
	if interrupted(ctx) {
		return ConversionJob{}, interruptErr(ctx)
	}
	job.Outcome = outcome
	return o.finish(ctx, job), nil
}

func guard(job *ConversionJob, fn func(*ConversionJob) Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(FailureUnexpected, fmt.Sprintf("unexpected error: %v", r))
		}
	}()
	return fn(job)
}

// finish counts, reports and records a job with its final outcome.
func (o *Orchestrator) finish(ctx context.Context, job ConversionJob) ConversionJob {
	switch job.Outcome.Status {
	case StatusSuccess:
		o.stats.IncrementSuccess()
	case StatusFailed:
		o.stats.IncrementFailed()
	case StatusSkipped:
		o.stats.IncrementSkipped()
	}
	o.emit(Event{Kind: EventDone, Item: job.Item, Message: job.Outcome.String(), Job: &job})

	if o.recorder != nil {
		if err := o.recorder.Record(context.WithoutCancel(ctx), job); err != nil {
			o.emit(Event{Kind: EventWarning, Item: job.Item, Message: "record job: " + err.Error()})
		}
	}
	return job
}

func (o *Orchestrator) emit(e Event) {
	if o.events != nil {
		o.events(e)
	}
}

// listFiles returns the regular files directly inside dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func interruptErr(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
}
