// Package srarun wraps the SRA Toolkit's prefetch and fasterq-dump for
// batch accession downloads: one accession fully handled before the
// next, one outcome per accession, no retries.
package srarun

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/hpcdata/datamove/pkg/report"
)

// Runner executes one external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with the real tools, streaming their output
// to the logger.
type ExecRunner struct {
	Log zerolog.Logger
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	tool := r.Log.With().Str("tool", filepath.Base(name)).Logger()
	cmd.Stdout = tool
	cmd.Stderr = tool
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}

// Config holds the external tool paths and dump options.
type Config struct {
	OutputDir    string
	PrefetchPath string
	FasterqPath  string
	Threads      int
	SplitFiles   bool
	DryRun       bool
}

var accessionRe = regexp.MustCompile(`^[DES]RR[0-9]+$`)

// ValidateAccessions rejects anything that is not an SRA/ENA/DDBJ run
// accession before any download starts.
func ValidateAccessions(accessions []string) error {
	if len(accessions) == 0 {
		return fmt.Errorf("no accessions to process")
	}
	for _, acc := range accessions {
		if !accessionRe.MatchString(acc) {
			return fmt.Errorf("invalid run accession %q", acc)
		}
	}
	return nil
}

// Fetcher downloads accessions strictly in order.
type Fetcher struct {
	runner   Runner
	cfg      Config
	log      zerolog.Logger
	reporter *report.Reporter
}

func NewFetcher(runner Runner, cfg Config, log zerolog.Logger, reporter *report.Reporter) *Fetcher {
	return &Fetcher{runner: runner, cfg: cfg, log: log, reporter: reporter}
}

// FetchAll processes each accession in turn, recording one outcome per
// accession. A failed accession does not stop the run.
func (f *Fetcher) FetchAll(ctx context.Context, accessions []string) *report.Outcome {
	outcome := report.NewOutcome()
	total := len(accessions)

	for i, acc := range accessions {
		status := report.StatusSucceeded
		if err := f.fetchOne(ctx, acc); err != nil {
			status = report.StatusFailed
			outcome.AddFailure(acc, err)
			f.log.Error().Err(err).Str("accession", acc).Msg("fetch failed")
		} else {
			outcome.AddSuccess(acc)
		}
		f.reporter.Progress(i+1, total, acc, status)
	}

	return outcome
}

func (f *Fetcher) fetchOne(ctx context.Context, acc string) error {
	prefetchArgs := []string{acc, "--output-directory", f.cfg.OutputDir}
	dumpArgs := []string{
		filepath.Join(f.cfg.OutputDir, acc),
		"--outdir", f.cfg.OutputDir,
		"--threads", strconv.Itoa(f.cfg.Threads),
	}
	if f.cfg.SplitFiles {
		dumpArgs = append(dumpArgs, "--split-files")
	}

	if f.cfg.DryRun {
		f.log.Info().
			Str("accession", acc).
			Strs("prefetch", prefetchArgs).
			Strs("fasterq-dump", dumpArgs).
			Msg("dry-run")
		return nil
	}

	if err := f.runner.Run(ctx, f.cfg.PrefetchPath, prefetchArgs...); err != nil {
		return fmt.Errorf("prefetch %s: %w", acc, err)
	}
	if err := f.runner.Run(ctx, f.cfg.FasterqPath, dumpArgs...); err != nil {
		return fmt.Errorf("fasterq-dump %s: %w", acc, err)
	}
	return nil
}
