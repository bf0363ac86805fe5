package axe

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatistics counts outcomes of a single invocation.
type RunStatistics struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Success   int       `json:"success" yaml:"success"`
	Failed    int       `json:"failed" yaml:"failed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	StartTime time.Time `json:"start_time" yaml:"start_time"`
}

// Total returns the number of finished jobs.
func (r RunStatistics) Total() int {
	return r.Success + r.Failed + r.Skipped
}

// PersistentStatistics accumulates across invocations. Counters only ever
// grow, except through Reset which zeroes everything.
type PersistentStatistics struct {
	TotalSuccess int        `json:"total_success" yaml:"total_success"`
	TotalFailed  int        `json:"total_failed" yaml:"total_failed"`
	TotalSkipped int        `json:"total_skipped" yaml:"total_skipped"`
	TotalRuns    int        `json:"total_runs" yaml:"total_runs"`
	FirstRun     *Timestamp `json:"first_run" yaml:"first_run"`
	LastRun      *Timestamp `json:"last_run" yaml:"last_run"`
}

// Timestamp is a time serialized as RFC 3339. It also reads the naive
// "2006-01-02T15:04:05.999999" form older stats files used, as local time.
type Timestamp struct {
	time.Time
}

const legacyTimestampLayout = "2006-01-02T15:04:05.999999"

// NewTimestamp returns a pointer to t as a Timestamp.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// MarshalJSON writes t as an RFC 3339 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 and the legacy naive layout.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.ParseInLocation(legacyTimestampLayout, s, time.Local)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// MarshalYAML writes t as an RFC 3339 string.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.Format(time.RFC3339Nano), nil
}

// StatsStore loads and saves persistent statistics.
type StatsStore interface {
	Load() PersistentStatistics
	Save(PersistentStatistics) error
}

// Aggregator holds run statistics and the persistent statistics they are
// merged into once per run.
type Aggregator struct {
	mu         sync.Mutex
	store      StatsStore
	run        RunStatistics
	persistent PersistentStatistics
	merged     bool
	now        func() time.Time
}

// NewAggregator loads the persistent statistics from store and begins a run.
func NewAggregator(store StatsStore) *Aggregator {
	a := &Aggregator{
		store:      store,
		persistent: store.Load(),
		now:        time.Now,
	}
	a.BeginRun()
	return a
}

// BeginRun zeroes the run statistics and assigns a new run ID.
func (a *Aggregator) BeginRun() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.run = RunStatistics{RunID: uuid.NewString(), StartTime: a.now()}
	a.merged = false
}

// IncrementSuccess counts a successful job in the current run.
func (a *Aggregator) IncrementSuccess() { a.add(func(r *RunStatistics) { r.Success++ }) }

// IncrementFailed counts a failed job in the current run.
func (a *Aggregator) IncrementFailed() { a.add(func(r *RunStatistics) { r.Failed++ }) }

// IncrementSkipped counts a skipped job in the current run.
func (a *Aggregator) IncrementSkipped() { a.add(func(r *RunStatistics) { r.Skipped++ }) }

func (a *Aggregator) add(fn func(*RunStatistics)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.run)
}

// Run returns a copy of the current run statistics.
func (a *Aggregator) Run() RunStatistics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.run
}

// Persistent returns a copy of the persistent statistics.
func (a *Aggregator) Persistent() PersistentStatistics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.persistent
}

// MergeAndPersist adds the run into the persistent statistics and saves
// them. If the save fails the in-memory state is left as it was. It returns
// ErrAlreadyMerged when called twice for the same run.
func (a *Aggregator) MergeAndPersist() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.merged {
		return ErrAlreadyMerged
	}

	now := a.now()
	next := a.persistent
	next.TotalSuccess += a.run.Success
	next.TotalFailed += a.run.Failed
	next.TotalSkipped += a.run.Skipped
	next.TotalRuns++
	next.LastRun = NewTimestamp(now)
	if next.FirstRun == nil {
		next.FirstRun = NewTimestamp(now)
	}

	if err := a.store.Save(next); err != nil {
		return err
	}
	a.persistent = next
	a.merged = true
	return nil
}

// Reset replaces the persistent statistics with the zero state and saves
// it immediately. Run statistics are untouched.
func (a *Aggregator) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Save(PersistentStatistics{}); err != nil {
		return err
	}
	a.persistent = PersistentStatistics{}
	return nil
}
