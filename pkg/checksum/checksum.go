// Package checksum generates and verifies md5sum-compatible manifests
// for batches of local files.
package checksum

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Entry is one manifest line: a hex digest and the path it was computed
// from.
type Entry struct {
	Digest string
	Path   string
}

// VerifyStatus classifies one verified entry.
type VerifyStatus int

const (
	VerifyOK VerifyStatus = iota
	VerifyMismatch
	VerifyMissing
	VerifyError
)

// VerifyResult is the verdict for one manifest entry.
type VerifyResult struct {
	Entry  Entry
	Status VerifyStatus
	Got    string
	Err    error
}

// FileDigest returns the hex MD5 digest of the file at path, streamed.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Generate hashes every regular file named by paths, walking
// directories, with at most jobs digests in flight. Results come back
// in path order regardless of completion order.
func Generate(ctx context.Context, paths []string, jobs int) ([]Entry, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to process")
	}
	if jobs <= 0 {
		jobs = 1
	}

	entries := make([]Entry, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, err := FileDigest(path)
			if err != nil {
				return err
			}
			entries[i] = Entry{Digest: digest, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Verify recomputes the digest of each entry sequentially. A missing
// file is a skip-class result, distinct from a mismatch or read error.
func Verify(entries []Entry) []VerifyResult {
	results := make([]VerifyResult, 0, len(entries))
	for _, e := range entries {
		res := VerifyResult{Entry: e}
		got, err := FileDigest(e.Path)
		switch {
		case err != nil && os.IsNotExist(err):
			res.Status = VerifyMissing
			res.Err = err
		case err != nil:
			res.Status = VerifyError
			res.Err = err
		case got != e.Digest:
			res.Status = VerifyMismatch
			res.Got = got
		default:
			res.Status = VerifyOK
			res.Got = got
		}
		results = append(results, res)
	}
	return results
}

// WriteManifest writes entries in md5sum format: "<digest>  <path>".
func WriteManifest(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s  %s\n", e.Digest, e.Path); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseManifest reads md5sum-format lines; blank lines and #-comments
// are skipped, and the "*" binary marker before the path is tolerated.
func ParseManifest(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		digest, rest, ok := strings.Cut(line, " ")
		if !ok || len(digest) != 2*md5.Size {
			return nil, fmt.Errorf("line %d: not an md5sum entry", lineno)
		}
		path := strings.TrimPrefix(strings.TrimSpace(rest), "*")
		if path == "" {
			return nil, fmt.Errorf("line %d: missing path", lineno)
		}
		entries = append(entries, Entry{Digest: digest, Path: path})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return entries, nil
}

// ReadManifestFile parses the manifest at path.
func ReadManifestFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}

// expand resolves the argument paths to a sorted list of regular files,
// walking directories.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("source not found: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(sub string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, sub)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
