package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTransferMissingDestPrintsUsage(t *testing.T) {
	out, err := execute(t, "transfer", "--source", "/data/a.bam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dest is required")
	assert.Contains(t, out, "Usage:")
}

func TestTransferMissingSourcePrintsUsage(t *testing.T) {
	out, err := execute(t, "transfer", "--dest", "s3://b/out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--source or --manifest")
	assert.Contains(t, out, "Usage:")
}

func TestTransferManifestRejectsListingFlags(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "m.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("/data/a.bam\n"), 0o644))

	_, err := execute(t, "transfer", "--dest", "/out", "--manifest", manifest, "--exclude", "*.log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--manifest")
}
