package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	o := NewOutcome()
	assert.Equal(t, 0, o.ExitCode())

	o.AddSuccess("/a")
	o.AddSkip("/b", "source vanished")
	assert.Equal(t, 0, o.ExitCode(), "skip-only shortfall still exits 0")

	o.AddFailure("/c", errors.New("copy failed"))
	assert.Equal(t, 1, o.ExitCode())
}

func TestWarningsDoNotFail(t *testing.T) {
	o := NewOutcome()
	o.AddSuccess("/a")
	o.AddWarning("/a", errors.New("source left in place"))

	assert.Equal(t, 0, o.ExitCode())
	assert.Equal(t, 1, o.Total(), "warning does not add an item")
}

func TestWriteFileSections(t *testing.T) {
	o := NewOutcome()
	o.AddSuccess("/data/a.bam")
	o.AddSkip("/data/b.bam", "source vanished")
	o.AddFailure("s3://x/c.bam", errors.New("backend exit 1"))
	o.AddWarning("/data/a.bam", errors.New("delete source: permission denied"))

	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, o.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "run "+o.RunID)
	assert.Contains(t, text, "total 3 succeeded 1 skipped 1 failed 1 warnings 1")
	assert.Contains(t, text, "[SUCCEEDED] (1)\n/data/a.bam")
	assert.Contains(t, text, "[SKIPPED] (1)\n/data/b.bam: source vanished")
	assert.Contains(t, text, "[FAILED] (1)\ns3://x/c.bam: backend exit 1")
	assert.Contains(t, text, "[WARNINGS] (1)")
}

func TestSummary(t *testing.T) {
	o := NewOutcome()
	o.AddSuccess("/a")
	o.AddFailure("/b", errors.New("nope"))

	var buf bytes.Buffer
	r := NewReporter(zerolog.Nop(), &buf)
	r.Summary("Transfer", o)

	out := buf.String()
	assert.Contains(t, out, "=== Transfer summary ===")
	assert.Contains(t, out, "Succeeded: 1")
	assert.Contains(t, out, "Failed:    1")
}
