package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

const objectScheme = "s3://"

// Location is a classified endpoint: either an object-store URI
// (Bucket/Key set) or a local filesystem path (Path set, absolute).
type Location struct {
	Raw    string
	Remote bool
	Bucket string
	Key    string
	Path   string
}

func (l Location) String() string {
	if !l.Remote {
		return l.Path
	}
	if l.Key == "" {
		return objectScheme + l.Bucket
	}
	return objectScheme + l.Bucket + "/" + l.Key
}

// Base returns the last path element of the location, used to preserve
// the top-level name when recursing into a container.
func (l Location) Base() string {
	if !l.Remote {
		return filepath.Base(l.Path)
	}
	if l.Key == "" {
		return l.Bucket
	}
	trimmed := strings.TrimSuffix(l.Key, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Classify decides whether s addresses the object store or the local
// filesystem. A malformed object URI (missing bucket segment) is an
// error, never coerced to a local path. Local paths are normalized to
// best-effort absolute form.
func Classify(s string) (Location, error) {
	if strings.HasPrefix(s, objectScheme) {
		rest := strings.TrimPrefix(s, objectScheme)
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("malformed object URI %q: missing bucket", s)
		}
		return Location{Raw: s, Remote: true, Bucket: bucket, Key: strings.TrimSuffix(key, "/")}, nil
	}
	return Location{Raw: s, Path: Normalize(s)}, nil
}

// Normalize resolves p to an absolute path, following symlinks where the
// path exists. For a path that does not exist yet, the deepest existing
// ancestor is resolved and the remaining suffix is appended verbatim.
// Non-existence is never an error; the result is best effort.
func Normalize(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	dir := abs
	var suffix []string
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			if len(suffix) == 0 {
				return resolved
			}
			for i, j := 0, len(suffix)-1; i < j; i, j = i+1, j-1 {
				suffix[i], suffix[j] = suffix[j], suffix[i]
			}
			return filepath.Join(append([]string{resolved}, suffix...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		suffix = append(suffix, filepath.Base(dir))
		dir = parent
	}
}

// JoinKey joins object key segments with forward slashes, skipping
// empty segments.
func JoinKey(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
