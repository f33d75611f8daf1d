package samtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	headerLine  = "@SQ\tSN:chr1\tLN:248956422"
	mappedLine  = "read1\t0\tchr1\t100\t255\t50M\t*\t0\t0\tACGT\tFFFF\tNM:i:0\tAS:i:50"
	mapped60    = "read1\t0\tchr1\t100\t60\t50M\t*\t0\t0\tACGT\tFFFF\tNM:i:0\tAS:i:50"
	unmappedRec = "read2\t4\t*\t0\t37\t*\t*\t0\t0\tACGT\tFFFF"
)

func TestParseRecordRoundTrip(t *testing.T) {
	rec, err := ParseRecord(mappedLine)
	require.NoError(t, err)

	assert.Equal(t, "read1", rec.QName)
	assert.Equal(t, 255, rec.MapQ)
	assert.Equal(t, []string{"NM:i:0", "AS:i:50"}, rec.Tags)
	assert.False(t, rec.Unmapped())

	assert.Equal(t, mappedLine, rec.String())
}

func TestParseRecordTooFewFields(t *testing.T) {
	_, err := ParseRecord("read1\t0\tchr1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "11")
}

func TestCapMapq(t *testing.T) {
	rec, err := ParseRecord(mappedLine)
	require.NoError(t, err)

	keep := CapMapq(MapqUnavailable, 60)(rec)
	assert.True(t, keep)
	assert.Equal(t, 60, rec.MapQ)

	// Values other than the marker are left alone.
	keep = CapMapq(MapqUnavailable, 60)(rec)
	assert.True(t, keep)
	assert.Equal(t, 60, rec.MapQ)
}

func TestZeroMapqUnmapped(t *testing.T) {
	rec, err := ParseRecord(unmappedRec)
	require.NoError(t, err)

	assert.True(t, ZeroMapqUnmapped()(rec))
	assert.Equal(t, 0, rec.MapQ)
}

func TestRunPipeline(t *testing.T) {
	in := strings.Join([]string{headerLine, mappedLine, unmappedRec}, "\n") + "\n"

	var out strings.Builder
	stats, err := Run(strings.NewReader(in), &out, CapMapq(MapqUnavailable, 60), DropUnmapped())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.HeaderLines)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Dropped)

	assert.Equal(t, headerLine+"\n"+mapped60+"\n", out.String())
}

func TestRunHeaderPassthrough(t *testing.T) {
	in := "@HD\tVN:1.6\tSO:coordinate\n" + headerLine + "\n"

	var out strings.Builder
	stats, err := Run(strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.HeaderLines)
	assert.Equal(t, in, out.String())
}

func TestRunMalformedLineReportsNumber(t *testing.T) {
	in := headerLine + "\nnot\ta\tsam\tline\n"

	var out strings.Builder
	_, err := Run(strings.NewReader(in), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
