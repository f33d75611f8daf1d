package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		"# batch for 2026-08",
		"",
		"/data/runs/a.bam",
		"  s3://archive/runs/b.bam  ",
		"\t",
		"# trailing comment",
		"relative/c.fastq.gz",
	}, "\n")

	lines, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/data/runs/a.bam",
		"s3://archive/runs/b.bam",
		"relative/c.fastq.gz",
	}, lines)
}

func TestParseAllFiltered(t *testing.T) {
	lines, err := Parse(strings.NewReader("# only comments\n\n#\n"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}
