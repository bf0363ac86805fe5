package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/tmc/axe"
)

// printer writes styled progress and summaries. Colors are only used when
// w is a terminal.
type printer struct {
	w io.Writer

	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	box     lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		skipped: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366F1")).
			Padding(0, 1),
	}
}

// panel prints a bordered block of "label: value" rows.
func (p *printer) panel(title string, rows ...[2]string) {
	body := p.title.Render(title)
	for _, r := range rows {
		body += "\n" + p.label.Render(r[0]+":") + " " + r[1]
	}
	fmt.Fprintln(p.w, p.box.Render(body))
}

// event renders orchestrator progress.
func (p *printer) event(e axe.Event) {
	switch e.Kind {
	case axe.EventStart:
		fmt.Fprintln(p.w, p.muted.Render("→ "+e.Message))
	case axe.EventInfo:
		fmt.Fprintln(p.w, p.muted.Render("  "+e.Message))
	case axe.EventWrote:
		fmt.Fprintln(p.w, "  "+e.Message)
	case axe.EventWarning:
		fmt.Fprintln(p.w, p.skipped.Render("  warning: "+e.Message))
	case axe.EventDone:
		if e.Job != nil {
			p.outcome(e.Item.Locator, e.Job.Outcome)
		}
	}
}

func (p *printer) outcome(locator string, o axe.Outcome) {
	switch o.Status {
	case axe.StatusSuccess:
		fmt.Fprintln(p.w, p.success.Render("✓ "+locator))
	case axe.StatusFailed:
		fmt.Fprintln(p.w, p.failed.Render(fmt.Sprintf("✗ %s: %s", locator, o.Detail)))
	case axe.StatusSkipped:
		fmt.Fprintln(p.w, p.skipped.Render(fmt.Sprintf("- %s: %s", locator, o.Detail)))
	}
}

// tally prints the final run counters.
func (p *printer) tally(run axe.RunStatistics) {
	elapsed := time.Since(run.StartTime).Round(time.Millisecond)
	fmt.Fprintf(p.w, "\n%s %s succeeded, %s failed, %s skipped %s\n",
		p.title.Render("Done:"),
		p.success.Render(humanize.Comma(int64(run.Success))),
		p.failed.Render(humanize.Comma(int64(run.Failed))),
		p.skipped.Render(humanize.Comma(int64(run.Skipped))),
		p.muted.Render("("+elapsed.String()+")"),
	)
}

func (p *printer) stats(st axe.PersistentStatistics) {
	p.panel("Statistics",
		[2]string{"Successful", humanize.Comma(int64(st.TotalSuccess))},
		[2]string{"Failed", humanize.Comma(int64(st.TotalFailed))},
		[2]string{"Skipped", humanize.Comma(int64(st.TotalSkipped))},
		[2]string{"Total runs", humanize.Comma(int64(st.TotalRuns))},
		[2]string{"First run", formatTimestamp(st.FirstRun)},
		[2]string{"Last run", formatTimestamp(st.LastRun)},
	)
}

func formatTimestamp(ts *axe.Timestamp) string {
	if ts == nil {
		return "never"
	}
	return fmt.Sprintf("%s (%s)", ts.Format("2006-01-02 15:04:05"), humanize.Time(ts.Time))
}
