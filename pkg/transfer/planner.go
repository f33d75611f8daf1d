package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hpcdata/datamove/pkg/pathutil"
	"github.com/hpcdata/datamove/pkg/s3client"
)

// ErrNoFiles is returned when listing or manifest expansion produces an
// empty plan. An empty plan aborts the run before any transfer.
var ErrNoFiles = errors.New("no files to process")

// Planner expands a source (or manifest) into a flat, ordered list of
// transfer items. Remote containers are expanded through the
// object-store client; local containers through the filesystem.
type Planner struct {
	client s3client.Client
}

func NewPlanner(client s3client.Client) *Planner {
	return &Planner{client: client}
}

// ItemsFromSource expands a single source path. Non-recursive sources
// yield exactly one item; recursive sources are treated as containers
// and every leaf below them becomes an item, with its path relative to
// the source root preserved under dest/<base(source)>/.
func (p *Planner) ItemsFromSource(ctx context.Context, src, dest pathutil.Location, cfg Config) ([]Item, error) {
	var (
		items []Item
		err   error
	)
	if src.Remote {
		items, err = p.expandRemote(ctx, src, dest, cfg)
	} else {
		items, err = expandLocal(src, dest, cfg)
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoFiles
	}
	sortItems(items)
	return items, nil
}

// ItemsFromManifest pairs each manifest line with dest/<basename(line)>.
// Relative local lines resolve against baseDir when one is supplied;
// remote lines are used verbatim. Lines naming a local directory are a
// validation error: manifests enumerate files, never containers.
func (p *Planner) ItemsFromManifest(lines []string, baseDir string, dest pathutil.Location) ([]Item, error) {
	if len(lines) == 0 {
		return nil, ErrNoFiles
	}

	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, "://") && !filepath.IsAbs(line) && baseDir != "" {
			line = filepath.Join(baseDir, line)
		}
		src, err := pathutil.Classify(line)
		if err != nil {
			return nil, err
		}
		if src.Remote && src.Key == "" {
			return nil, fmt.Errorf("manifest entry %q: object key required", line)
		}
		if !src.Remote {
			if info, err := os.Stat(src.Path); err == nil && info.IsDir() {
				return nil, fmt.Errorf("manifest entry %q is a directory", line)
			}
		}
		items = append(items, newItem(src, childOf(dest, src.Base())))
	}
	sortItems(items)
	return items, nil
}

func expandLocal(src, dest pathutil.Location, cfg Config) ([]Item, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, fmt.Errorf("source not found: %w", err)
	}

	if !info.IsDir() {
		return []Item{newItem(src, childOf(dest, src.Base()))}, nil
	}

	if !cfg.Recursive {
		return nil, fmt.Errorf("source %s is a directory (use --recursive)", src.Path)
	}

	var items []Item
	err = filepath.WalkDir(src.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src.Path, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		excluded, err := isExcluded(rel, cfg.Excludes)
		if err != nil {
			return err
		}
		if excluded {
			return nil
		}
		leaf := pathutil.Location{Raw: p, Path: p}
		items = append(items, newItem(leaf, childOf(dest, path.Join(src.Base(), rel))))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk source: %w", err)
	}
	return items, nil
}

func (p *Planner) expandRemote(ctx context.Context, src, dest pathutil.Location, cfg Config) ([]Item, error) {
	if !cfg.Recursive {
		if src.Key == "" {
			return nil, fmt.Errorf("source %s is a bucket (use --recursive)", src)
		}
		if _, err := p.client.Head(ctx, src.Bucket, src.Key); err != nil {
			if s3client.IsNotFound(err) {
				return nil, fmt.Errorf("source not found: %s", src)
			}
			return nil, err
		}
		return []Item{newItem(src, childOf(dest, src.Base()))}, nil
	}

	objects, err := p.client.List(ctx, src.Bucket, src.Key)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, obj := range objects {
		rel := relativeKey(src.Key, obj.Key)
		if rel == "" {
			continue
		}
		excluded, err := isExcluded(rel, cfg.Excludes)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		leafRel := path.Join(src.Base(), rel)
		if obj.Key == src.Key {
			// The prefix names this object itself, not a container
			// around it.
			leafRel = rel
		}
		leaf := pathutil.Location{
			Raw:    "s3://" + src.Bucket + "/" + obj.Key,
			Remote: true,
			Bucket: src.Bucket,
			Key:    obj.Key,
		}
		items = append(items, newItem(leaf, childOf(dest, leafRel)))
	}
	return items, nil
}

// relativeKey returns key's path relative to prefix, or "" when key is
// not under prefix (list-by-prefix also matches sibling prefixes that
// merely share the leading characters).
func relativeKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == prefix {
		return path.Base(key)
	}
	if strings.HasPrefix(key, prefix+"/") {
		return strings.TrimPrefix(key, prefix+"/")
	}
	return ""
}

// childOf places one relative leaf (slash-separated) under the
// destination root.
func childOf(dest pathutil.Location, relSlash string) pathutil.Location {
	if dest.Remote {
		return pathutil.Location{
			Raw:    dest.Raw,
			Remote: true,
			Bucket: dest.Bucket,
			Key:    pathutil.JoinKey(dest.Key, relSlash),
		}
	}
	p := filepath.Join(dest.Path, filepath.FromSlash(relSlash))
	return pathutil.Location{Raw: p, Path: p}
}

func newItem(src, dst pathutil.Location) Item {
	return Item{Source: src, Dest: dst, Kind: ResolveKind(src, dst)}
}

func isExcluded(relPath string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Source.String() < items[j].Source.String()
	})
}
