package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestOpenSamInputCloseMidStream(t *testing.T) {
	dir := t.TempDir()
	// A decoder that emits far more than one pipe buffer holds.
	samtools := writeScript(t, dir, "samtools", "head -c 10485760 /dev/zero\n")

	in, closeIn, err := openSamInput(context.Background(), filepath.Join(dir, "x.bam"), samtools)
	require.NoError(t, err)

	buf := make([]byte, 16)
	_, err = io.ReadFull(in, buf)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		closeIn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("closing the input blocked while the decoder was still writing")
	}
}

func TestOpenSamInputDrained(t *testing.T) {
	dir := t.TempDir()
	samtools := writeScript(t, dir, "samtools", "printf '@HD\\tVN:1.6\\n'\n")

	in, closeIn, err := openSamInput(context.Background(), filepath.Join(dir, "x.bam"), samtools)
	require.NoError(t, err)

	data, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "@HD\tVN:1.6\n", string(data))
	assert.NoError(t, closeIn())
}
