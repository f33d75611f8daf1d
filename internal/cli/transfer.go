package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpcdata/datamove/internal/logging"
	"github.com/hpcdata/datamove/pkg/executor"
	"github.com/hpcdata/datamove/pkg/manifest"
	"github.com/hpcdata/datamove/pkg/pathutil"
	"github.com/hpcdata/datamove/pkg/report"
	"github.com/hpcdata/datamove/pkg/s3client"
	"github.com/hpcdata/datamove/pkg/transfer"
)

func newTransferCmd(g *global) *cobra.Command {
	var (
		source       string
		dest         string
		manifestPath string
		logFile      string
		storageClass string
		profile      string
		region       string
		recursive    bool
		dryRun       bool
		keepSource   bool
		noLog        bool
		excludes     []string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move or copy files between the local filesystem and the object store",
		Long: `transfer plans a batch of (source, destination) pairs from a single
source path or a manifest file, then processes them one at a time.
Sources and destinations may each be local paths or s3:// URIs; the
default is move semantics (source deleted after a successful write),
--keep-source switches to copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dest == "" {
				_ = cmd.Usage()
				return fmt.Errorf("--dest is required")
			}
			if source == "" && manifestPath == "" {
				_ = cmd.Usage()
				return fmt.Errorf("either --source or --manifest is required")
			}
			if manifestPath != "" && (recursive || len(excludes) > 0) {
				_ = cmd.Usage()
				return fmt.Errorf("--recursive and --exclude do not apply to --manifest entries")
			}

			if storageClass == "" {
				storageClass = g.settings.StorageClass
			}
			class, err := transfer.ParseStorageClass(storageClass)
			if err != nil {
				return err
			}
			cfg := transfer.Config{
				Recursive:    recursive,
				DryRun:       dryRun,
				KeepSource:   keepSource,
				StorageClass: class,
				Excludes:     excludes,
			}

			destLoc, err := pathutil.Classify(dest)
			if err != nil {
				return fmt.Errorf("invalid destination: %w", err)
			}

			ctx := cmd.Context()
			awsCfg, err := g.awsConfig(ctx, profile, region)
			if err != nil {
				return err
			}
			client := s3client.NewAWSClient(awsCfg)
			planner := transfer.NewPlanner(client)

			var items []transfer.Item
			if manifestPath != "" {
				lines, err := manifest.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				var baseDir string
				if source != "" {
					srcLoc, err := pathutil.Classify(source)
					if err != nil {
						return fmt.Errorf("invalid source: %w", err)
					}
					if srcLoc.Remote {
						return fmt.Errorf("manifest base source must be a local directory")
					}
					baseDir = srcLoc.Path
				}
				items, err = planner.ItemsFromManifest(lines, baseDir, destLoc)
				if err != nil {
					return err
				}
			} else {
				srcLoc, err := pathutil.Classify(source)
				if err != nil {
					return fmt.Errorf("invalid source: %w", err)
				}
				items, err = planner.ItemsFromSource(ctx, srcLoc, destLoc, cfg)
				if err != nil {
					return err
				}
			}

			g.log.Info().Int("items", len(items)).Bool("dry_run", dryRun).Msg("starting transfer")

			reporter := report.NewReporter(g.log, cmd.OutOrStdout())
			outcome := executor.New(client, cfg, g.log, reporter).Execute(ctx, items)

			runLog := logging.WithRun(g.log, outcome.RunID)
			reporter.Summary("Transfer", outcome)

			if !dryRun && !noLog {
				logPath := logFile
				if logPath == "" {
					logPath = outcome.DefaultLogPath(g.settings.LogDir)
				}
				if err := outcome.WriteFile(logPath); err != nil {
					return err
				}
				runLog.Info().Str("path", logPath).Msg("run log written")
			}

			if n := len(outcome.Failed); n > 0 {
				return fmt.Errorf("%d of %d transfers failed", n, outcome.Total())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&source, "source", "", "Source path or s3:// URI (base for relative manifest lines)")
	flags.StringVar(&dest, "dest", "", "Destination path or s3:// URI")
	flags.StringVar(&manifestPath, "manifest", "", "Manifest file: one source path per line, # comments")
	flags.BoolVar(&recursive, "recursive", false, "Expand a directory or key prefix source")
	flags.BoolVar(&dryRun, "dryrun", false, "Show operations without executing")
	flags.BoolVar(&keepSource, "keep-source", false, "Copy instead of move (retain the source)")
	flags.StringVar(&storageClass, "storage-class", "", "Object-store tier: standard, glacier or deep-archive")
	flags.StringSliceVar(&excludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	flags.StringVar(&logFile, "log-file", "", "Run log path (default datamove-<timestamp>.log)")
	flags.BoolVar(&noLog, "no-log", false, "Skip writing the run log")
	flags.StringVar(&profile, "profile", "", "AWS profile to use")
	flags.StringVar(&region, "region", "", "AWS region (uses default if not specified)")

	return cmd
}
