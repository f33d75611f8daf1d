// Package executor performs planned transfers one item at a time. Each
// item is fully handled, including the optional source delete and the
// bookkeeping, before the next begins; there is no in-process
// parallelism and no automatic retry.
package executor

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hpcdata/datamove/pkg/report"
	"github.com/hpcdata/datamove/pkg/s3client"
	"github.com/hpcdata/datamove/pkg/transfer"
)

type Executor struct {
	client   s3client.Client
	cfg      transfer.Config
	log      zerolog.Logger
	reporter *report.Reporter
}

func New(client s3client.Client, cfg transfer.Config, log zerolog.Logger, reporter *report.Reporter) *Executor {
	return &Executor{
		client:   client,
		cfg:      cfg,
		log:      log,
		reporter: reporter,
	}
}

// itemResult separates the transfer verdict from the post-copy cleanup
// verdict: a failed source delete after a successful destination write
// is a warning, never a failure.
type itemResult struct {
	status report.Status
	reason string
	err    error
	warn   error
}

// Execute runs the plan strictly in order and returns the accumulated
// outcome. The outcome has this loop as its only writer.
func (e *Executor) Execute(ctx context.Context, items []transfer.Item) *report.Outcome {
	outcome := report.NewOutcome()
	total := len(items)

	for i, item := range items {
		res := e.processItem(ctx, item)

		src := item.Source.String()
		switch res.status {
		case report.StatusSucceeded:
			outcome.AddSuccess(src)
		case report.StatusSkipped:
			outcome.AddSkip(src, res.reason)
		case report.StatusFailed:
			outcome.AddFailure(src, res.err)
			e.log.Error().Err(res.err).Str("kind", item.Kind.String()).Msg(src)
		}
		if res.warn != nil {
			outcome.AddWarning(src, res.warn)
			e.log.Warn().Err(res.warn).Msg(src)
		}

		e.reporter.Progress(i+1, total, src, res.status)
	}

	return outcome
}

func (e *Executor) processItem(ctx context.Context, item transfer.Item) itemResult {
	exists, err := e.sourceExists(ctx, item)
	if err != nil {
		return itemResult{status: report.StatusFailed, err: err}
	}
	if !exists {
		return itemResult{status: report.StatusSkipped, reason: "source vanished"}
	}

	if e.cfg.DryRun {
		ev := e.log.Info().
			Str("kind", item.Kind.String()).
			Str("source", item.Source.String()).
			Str("dest", item.Dest.String())
		if item.Dest.Remote {
			ev = ev.Str("storage_class", string(e.cfg.StorageClass))
		}
		ev.Msg("dry-run")
		return itemResult{status: report.StatusSucceeded}
	}

	var warn error
	switch item.Kind {
	case transfer.ObjectToObject:
		warn, err = e.objectToObject(ctx, item)
	case transfer.ObjectToLocal:
		warn, err = e.objectToLocal(ctx, item)
	case transfer.LocalToObject:
		warn, err = e.localToObject(ctx, item)
	case transfer.LocalToLocal:
		warn, err = e.localToLocal(item)
	default:
		err = fmt.Errorf("unhandled transfer kind %v", item.Kind)
	}
	if err != nil {
		return itemResult{status: report.StatusFailed, err: err}
	}
	return itemResult{status: report.StatusSucceeded, warn: warn}
}

func (e *Executor) sourceExists(ctx context.Context, item transfer.Item) (bool, error) {
	if item.Source.Remote {
		_, err := e.client.Head(ctx, item.Source.Bucket, item.Source.Key)
		if err != nil {
			if s3client.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	_, err := os.Stat(item.Source.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// objectToObject is a server-side copy; move semantics delete the
// source object only after the copy succeeded.
func (e *Executor) objectToObject(ctx context.Context, item transfer.Item) (warn, err error) {
	err = e.client.Copy(ctx, item.Source.Bucket, item.Source.Key,
		item.Dest.Bucket, item.Dest.Key, string(e.cfg.StorageClass))
	if err != nil {
		return nil, err
	}
	if !e.cfg.KeepSource {
		if derr := e.client.Delete(ctx, item.Source.Bucket, item.Source.Key); derr != nil {
			warn = fmt.Errorf("copied but failed to delete source: %w", derr)
		}
	}
	return warn, nil
}

func (e *Executor) objectToLocal(ctx context.Context, item transfer.Item) (warn, err error) {
	if err := os.MkdirAll(filepath.Dir(item.Dest.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	f, err := os.Create(item.Dest.Path)
	if err != nil {
		return nil, fmt.Errorf("create destination file: %w", err)
	}
	if err := e.client.Download(ctx, item.Source.Bucket, item.Source.Key, f); err != nil {
		f.Close()
		os.Remove(item.Dest.Path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(item.Dest.Path)
		return nil, fmt.Errorf("close destination file: %w", err)
	}

	if !e.cfg.KeepSource {
		if derr := e.client.Delete(ctx, item.Source.Bucket, item.Source.Key); derr != nil {
			warn = fmt.Errorf("downloaded but failed to delete source: %w", derr)
		}
	}
	return warn, nil
}

func (e *Executor) localToObject(ctx context.Context, item transfer.Item) (warn, err error) {
	f, err := os.Open(item.Source.Path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	err = e.client.Upload(ctx, item.Dest.Bucket, item.Dest.Key, f,
		guessContentType(item.Source.Path), string(e.cfg.StorageClass))
	if err != nil {
		return nil, err
	}

	if !e.cfg.KeepSource {
		f.Close()
		if derr := os.Remove(item.Source.Path); derr != nil {
			warn = fmt.Errorf("uploaded but failed to delete source: %w", derr)
		}
	}
	return warn, nil
}

func (e *Executor) localToLocal(item transfer.Item) (warn, err error) {
	if err := os.MkdirAll(filepath.Dir(item.Dest.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	if e.cfg.KeepSource {
		return nil, copyFile(item.Source.Path, item.Dest.Path)
	}
	return moveFile(item.Source.Path, item.Dest.Path)
}

func guessContentType(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}
