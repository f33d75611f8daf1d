// Package report accumulates per-item outcomes over one run and renders
// the progress lines, the final summary, and the plain-text log file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status of one processed item.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the running bookkeeping of one batch run. It has exactly
// one writer (the sequential item loop), so it needs no locking. A
// warning does not change an item's status: warned items stay in
// Succeeded and are additionally listed in Warnings.
type Outcome struct {
	RunID   string
	Started time.Time

	Succeeded []string
	Failed    []string
	Skipped   []string
	Warnings  []string
}

func NewOutcome() *Outcome {
	return &Outcome{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
}

func (o *Outcome) AddSuccess(item string) {
	o.Succeeded = append(o.Succeeded, item)
}

func (o *Outcome) AddFailure(item string, err error) {
	o.Failed = append(o.Failed, fmt.Sprintf("%s: %v", item, err))
}

func (o *Outcome) AddSkip(item, reason string) {
	o.Skipped = append(o.Skipped, fmt.Sprintf("%s: %s", item, reason))
}

func (o *Outcome) AddWarning(item string, err error) {
	o.Warnings = append(o.Warnings, fmt.Sprintf("%s: %v", item, err))
}

func (o *Outcome) Total() int {
	return len(o.Succeeded) + len(o.Failed) + len(o.Skipped)
}

// ExitCode is non-zero if and only if at least one item failed. Skips
// alone leave it zero.
func (o *Outcome) ExitCode() int {
	if len(o.Failed) > 0 {
		return 1
	}
	return 0
}

// Reporter renders progress and summaries. Progress goes through the
// logger; the summary table goes to out (normally stdout).
type Reporter struct {
	log zerolog.Logger
	out io.Writer
}

func NewReporter(log zerolog.Logger, out io.Writer) *Reporter {
	return &Reporter{log: log, out: out}
}

// Progress emits one running line after an item is processed.
func (r *Reporter) Progress(n, total int, item string, status Status) {
	r.log.Info().
		Str("status", status.String()).
		Msg(fmt.Sprintf("[%d/%d] %s", n, total, item))
}

// Summary prints the final tabulated counts.
func (r *Reporter) Summary(title string, o *Outcome) {
	fmt.Fprintf(r.out, "\n=== %s summary ===\n", title)
	fmt.Fprintf(r.out, "Run ID:    %s\n", o.RunID)
	fmt.Fprintf(r.out, "Duration:  %s\n", time.Since(o.Started).Round(time.Millisecond))
	fmt.Fprintf(r.out, "Total:     %d\n", o.Total())
	fmt.Fprintf(r.out, "Succeeded: %d\n", len(o.Succeeded))
	fmt.Fprintf(r.out, "Skipped:   %d\n", len(o.Skipped))
	fmt.Fprintf(r.out, "Failed:    %d\n", len(o.Failed))
	if len(o.Warnings) > 0 {
		fmt.Fprintf(r.out, "Warnings:  %d\n", len(o.Warnings))
	}
}

// WriteFile writes the plain-text run log: a header with counts and
// timing followed by one section per outcome class.
func (o *Outcome) WriteFile(path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s\n", o.RunID)
	fmt.Fprintf(&b, "started %s\n", o.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration %s\n", time.Since(o.Started).Round(time.Millisecond))
	fmt.Fprintf(&b, "total %d succeeded %d skipped %d failed %d warnings %d\n",
		o.Total(), len(o.Succeeded), len(o.Skipped), len(o.Failed), len(o.Warnings))

	writeSection(&b, "SUCCEEDED", o.Succeeded)
	writeSection(&b, "SKIPPED", o.Skipped)
	writeSection(&b, "FAILED", o.Failed)
	if len(o.Warnings) > 0 {
		writeSection(&b, "WARNINGS", o.Warnings)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}

// DefaultLogPath names the run log written into dir.
func (o *Outcome) DefaultLogPath(dir string) string {
	name := fmt.Sprintf("datamove-%s.log", o.Started.Format("20060102-150405"))
	return filepath.Join(dir, name)
}

func writeSection(b *strings.Builder, name string, items []string) {
	fmt.Fprintf(b, "\n[%s] (%d)\n", name, len(items))
	for _, it := range items {
		fmt.Fprintf(b, "%s\n", it)
	}
}
