package srarun

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpcdata/datamove/pkg/report"
)

type fakeRunner struct {
	calls   []string
	failOn  string
	failErr error
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.Contains(call, r.failOn) {
		return r.failErr
	}
	return nil
}

func newFetcher(runner Runner, cfg Config) *Fetcher {
	log := zerolog.Nop()
	return NewFetcher(runner, cfg, log, report.NewReporter(log, io.Discard))
}

func testConfig() Config {
	return Config{
		OutputDir:    "/scratch/sra",
		PrefetchPath: "prefetch",
		FasterqPath:  "fasterq-dump",
		Threads:      4,
		SplitFiles:   true,
	}
}

func TestValidateAccessions(t *testing.T) {
	require.NoError(t, ValidateAccessions([]string{"SRR12345678", "ERR1", "DRR000001"}))

	assert.Error(t, ValidateAccessions(nil))
	assert.Error(t, ValidateAccessions([]string{"SRX123"}))
	assert.Error(t, ValidateAccessions([]string{"SRR123; rm -rf /"}))
}

func TestFetchAllCommandSequence(t *testing.T) {
	runner := &fakeRunner{}
	f := newFetcher(runner, testConfig())

	outcome := f.FetchAll(context.Background(), []string{"SRR1", "SRR2"})

	assert.Equal(t, 0, outcome.ExitCode())
	assert.Len(t, outcome.Succeeded, 2)
	require.Len(t, runner.calls, 4, "prefetch then fasterq-dump, per accession, in order")

	assert.Equal(t, "prefetch SRR1 --output-directory /scratch/sra", runner.calls[0])
	assert.Equal(t, "fasterq-dump /scratch/sra/SRR1 --outdir /scratch/sra --threads 4 --split-files", runner.calls[1])
	assert.Equal(t, "prefetch SRR2 --output-directory /scratch/sra", runner.calls[2])
}

func TestFetchAllPrefetchFailureSkipsDump(t *testing.T) {
	runner := &fakeRunner{failOn: "prefetch SRR1", failErr: errors.New("exit status 3")}
	f := newFetcher(runner, testConfig())

	outcome := f.FetchAll(context.Background(), []string{"SRR1", "SRR2"})

	assert.Equal(t, 1, outcome.ExitCode())
	assert.Len(t, outcome.Failed, 1)
	assert.Len(t, outcome.Succeeded, 1, "a failed accession must not stop the run")

	for _, call := range runner.calls {
		assert.NotContains(t, call, "fasterq-dump /scratch/sra/SRR1", "no dump after failed prefetch")
	}
}

func TestFetchAllDryRun(t *testing.T) {
	runner := &fakeRunner{}
	cfg := testConfig()
	cfg.DryRun = true
	f := newFetcher(runner, cfg)

	outcome := f.FetchAll(context.Background(), []string{"SRR1"})

	assert.Equal(t, 0, outcome.ExitCode())
	assert.Empty(t, runner.calls, "dry run must not invoke the tools")
}
