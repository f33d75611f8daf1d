package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpcdata/datamove/pkg/manifest"
	"github.com/hpcdata/datamove/pkg/report"
	"github.com/hpcdata/datamove/pkg/srarun"
)

func newFetchCmd(g *global) *cobra.Command {
	var (
		outputDir    string
		manifestPath string
		threads      int
		splitFiles   bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [accession...]",
		Short: "Download SRA runs with prefetch and fasterq-dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			accessions := args
			if manifestPath != "" {
				lines, err := manifest.ReadFile(manifestPath)
				if err != nil {
					return err
				}
				accessions = append(accessions, lines...)
			}
			if err := srarun.ValidateAccessions(accessions); err != nil {
				return err
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if threads <= 0 {
				threads = g.settings.FetchThreads
			}

			cfg := srarun.Config{
				OutputDir:    outputDir,
				PrefetchPath: g.settings.PrefetchPath,
				FasterqPath:  g.settings.FasterqPath,
				Threads:      threads,
				SplitFiles:   splitFiles,
				DryRun:       dryRun,
			}

			reporter := report.NewReporter(g.log, cmd.OutOrStdout())
			fetcher := srarun.NewFetcher(&srarun.ExecRunner{Log: g.log}, cfg, g.log, reporter)
			outcome := fetcher.FetchAll(cmd.Context(), accessions)

			reporter.Summary("Fetch", outcome)

			if n := len(outcome.Failed); n > 0 {
				return fmt.Errorf("%d of %d accessions failed", n, outcome.Total())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputDir, "output-dir", "O", ".", "Directory for downloaded runs")
	flags.StringVar(&manifestPath, "manifest", "", "Accession list: one per line, # comments")
	flags.IntVar(&threads, "threads", 0, "fasterq-dump threads (default from config)")
	flags.BoolVar(&splitFiles, "split-files", true, "Write one FASTQ per read in spot")
	flags.BoolVar(&dryRun, "dryrun", false, "Show tool invocations without executing")

	return cmd
}
