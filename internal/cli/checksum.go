package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hpcdata/datamove/pkg/checksum"
	"github.com/hpcdata/datamove/pkg/report"
)

func newChecksumCmd(g *global) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksum",
		Short: "Generate or verify MD5 manifests",
	}
	cmd.AddCommand(newChecksumGenerateCmd(g), newChecksumVerifyCmd(g))
	return cmd
}

func newChecksumGenerateCmd(g *global) *cobra.Command {
	var (
		output string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "generate <path>...",
		Short: "Write an md5sum-compatible manifest for files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs <= 0 {
				jobs = g.settings.ChecksumJobs
			}

			entries, err := checksum.Generate(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create manifest: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := checksum.WriteManifest(w, entries); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			g.log.Info().Int("files", len(entries)).Msg("manifest generated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Manifest file to write (default stdout)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Concurrent hash jobs (default from config)")
	return cmd
}

func newChecksumVerifyCmd(g *global) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <manifest>",
		Short: "Recompute digests and compare against a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := checksum.ReadManifestFile(args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no files to process")
			}

			reporter := report.NewReporter(g.log, cmd.OutOrStdout())
			outcome := report.NewOutcome()
			results := checksum.Verify(entries)
			for i, res := range results {
				var status report.Status
				switch res.Status {
				case checksum.VerifyOK:
					status = report.StatusSucceeded
					outcome.AddSuccess(res.Entry.Path)
				case checksum.VerifyMissing:
					status = report.StatusSkipped
					outcome.AddSkip(res.Entry.Path, "file missing")
				case checksum.VerifyMismatch:
					status = report.StatusFailed
					outcome.AddFailure(res.Entry.Path,
						fmt.Errorf("digest mismatch: manifest %s, file %s", res.Entry.Digest, res.Got))
				default:
					status = report.StatusFailed
					outcome.AddFailure(res.Entry.Path, res.Err)
				}
				reporter.Progress(i+1, len(results), res.Entry.Path, status)
			}

			reporter.Summary("Checksum", outcome)

			if n := len(outcome.Failed); n > 0 {
				return fmt.Errorf("%d of %d checksums failed", n, outcome.Total())
			}
			return nil
		},
	}
	return cmd
}
