package axe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JobRecord is one finished job in the ledger.
type JobRecord struct {
	ID          uint      `gorm:"primaryKey"`
	RunID       string    `gorm:"index;column:run_id"`
	Locator     string
	SourceKind  string    `gorm:"column:source_kind"`
	Identifier  string    `gorm:"index"`
	Title       string
	Format      string
	Status      string    `gorm:"index"`
	FailureKind string    `gorm:"column:failure_kind"`
	Detail      string
	Outputs     string    `gorm:"type:text"` // newline-separated paths
	CreatedAt   time.Time `gorm:"index"`
}

// TableName implements gorm's tabler.
func (JobRecord) TableName() string {
	return "jobs"
}

// OutputPaths splits Outputs.
func (r JobRecord) OutputPaths() []string {
	if r.Outputs == "" {
		return nil
	}
	return strings.Split(r.Outputs, "\n")
}

// PaperRecord caches arXiv metadata by requested identifier.
type PaperRecord struct {
	ID         string `gorm:"primaryKey"`
	Title      string
	Abstract   string `gorm:"type:text"`
	Authors    string // newline-separated
	Categories string
	Published  time.Time
	Updated    time.Time
	Comments   string
	JournalRef string `gorm:"column:journal_ref"`
	DOI        string `gorm:"column:doi"`
	PDFLink    string `gorm:"column:pdf_link"`
	FetchedAt  time.Time
}

// TableName implements gorm's tabler.
func (PaperRecord) TableName() string {
	return "papers"
}

func paperRecord(id Identifier, p *Paper) PaperRecord {
	return PaperRecord{
		ID:         string(id),
		Title:      p.Title,
		Abstract:   p.Abstract,
		Authors:    strings.Join(p.Authors, "\n"),
		Categories: p.Categories,
		Published:  p.Published,
		Updated:    p.Updated,
		Comments:   p.Comments,
		JournalRef: p.JournalRef,
		DOI:        p.DOI,
		PDFLink:    p.PDFLink,
		FetchedAt:  time.Now(),
	}
}

func (r PaperRecord) paper() *Paper {
	var authors []string
	if r.Authors != "" {
		authors = strings.Split(r.Authors, "\n")
	}
	return &Paper{
		ID:         string(Identifier(r.ID).Base()),
		Title:      r.Title,
		Abstract:   r.Abstract,
		Authors:    authors,
		Categories: r.Categories,
		Published:  r.Published,
		Updated:    r.Updated,
		Comments:   r.Comments,
		JournalRef: r.JournalRef,
		DOI:        r.DOI,
		PDFLink:    r.PDFLink,
	}
}

// Ledger is a SQLite record of finished jobs and fetched metadata.
type Ledger struct {
	db *gorm.DB
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite3",
		DSN:        path + "?_busy_timeout=5000",
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&JobRecord{}, &PaperRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores job under runID.
func (l *Ledger) Record(ctx context.Context, runID string, job ConversionJob) error {
	rec := JobRecord{
		RunID:       runID,
		Locator:     job.Item.Locator,
		SourceKind:  string(job.Item.Kind),
		Identifier:  string(job.Identifier),
		Title:       job.Title,
		Format:      string(job.Format),
		Status:      string(job.Outcome.Status),
		FailureKind: string(job.Outcome.Kind),
		Detail:      job.Outcome.Detail,
		Outputs:     strings.Join(job.Outcome.Outputs, "\n"),
	}
	return l.db.WithContext(ctx).Create(&rec).Error
}

// ForRun returns a Recorder that files jobs under runID.
func (l *Ledger) ForRun(runID string) Recorder {
	return runRecorder{ledger: l, runID: runID}
}

type runRecorder struct {
	ledger *Ledger
	runID  string
}

func (r runRecorder) Record(ctx context.Context, job ConversionJob) error {
	return r.ledger.Record(ctx, r.runID, job)
}

// History returns the most recent jobs, newest first.
func (l *Ledger) History(ctx context.Context, limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []JobRecord
	err := l.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&recs).Error
	return recs, err
}

// RunJobs returns the jobs of one run in the order they finished.
func (l *Ledger) RunJobs(ctx context.Context, runID string) ([]JobRecord, error) {
	var recs []JobRecord
	err := l.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&recs).Error
	return recs, err
}

// CachePaper stores metadata fetched for id.
func (l *Ledger) CachePaper(ctx context.Context, id Identifier, p *Paper) error {
	rec := paperRecord(id, p)
	return l.db.WithContext(ctx).Save(&rec).Error
}

// CachedPaper returns cached metadata for id, or ErrNotFound.
func (l *Ledger) CachedPaper(ctx context.Context, id Identifier) (*Paper, error) {
	var rec PaperRecord
	err := l.db.WithContext(ctx).Where("id = ?", string(id)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec.paper(), nil
}

// CachingFetcher serves Lookup from memory, then the ledger, before asking
// the wrapped Fetcher. Downloads always go to the wrapped Fetcher.
type CachingFetcher struct {
	Fetcher
	ledger *Ledger
	recent *lru[Identifier, *Paper]
}

// NewCachingFetcher wraps f with the ledger's metadata cache.
func NewCachingFetcher(f Fetcher, l *Ledger) *CachingFetcher {
	return &CachingFetcher{Fetcher: f, ledger: l, recent: newLRU[Identifier, *Paper](256)}
}

// Lookup implements Fetcher. Cache write failures are ignored.
func (c *CachingFetcher) Lookup(ctx context.Context, id Identifier) (*Paper, error) {
	if p, ok := c.recent.Get(id); ok {
		return p, nil
	}
	if p, err := c.ledger.CachedPaper(ctx, id); err == nil {
		c.recent.Put(id, p)
		return p, nil
	}

	p, err := c.Fetcher.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	c.recent.Put(id, p)
	_ = c.ledger.CachePaper(ctx, id, p)
	return p, nil
}
