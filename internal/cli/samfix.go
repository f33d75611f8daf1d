package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hpcdata/datamove/pkg/samtext"
)

func newSamfixCmd(g *global) *cobra.Command {
	var (
		input        string
		output       string
		samtoolsPath string
		mapqFrom     int
		mapqTo       int
		zeroUnmapped bool
		dropUnmapped bool
	)

	cmd := &cobra.Command{
		Use:   "samfix",
		Short: "Rewrite MAPQ values in a SAM/BAM stream",
		Long: `samfix streams alignment records through a decode -> filter -> encode
pipeline. By default it rewrites the "unavailable" MAPQ marker (255)
to 60. BAM input and output are decoded and re-encoded through
samtools view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samtoolsPath == "" {
				samtoolsPath = g.settings.SamtoolsPath
			}
			ctx := cmd.Context()

			in, closeIn, err := openSamInput(ctx, input, samtoolsPath)
			if err != nil {
				return err
			}
			out, closeOut, err := openSamOutput(ctx, output, samtoolsPath)
			if err != nil {
				closeIn()
				return err
			}

			filters := []samtext.Filter{samtext.CapMapq(mapqFrom, mapqTo)}
			if zeroUnmapped {
				filters = append(filters, samtext.ZeroMapqUnmapped())
			}
			if dropUnmapped {
				filters = append(filters, samtext.DropUnmapped())
			}

			stats, runErr := samtext.Run(in, out, filters...)

			if err := closeIn(); runErr == nil && err != nil {
				runErr = fmt.Errorf("close input: %w", err)
			}
			if err := closeOut(); runErr == nil && err != nil {
				runErr = fmt.Errorf("close output: %w", err)
			}
			if runErr != nil {
				return runErr
			}

			g.log.Info().
				Int("records", stats.Records).
				Int("dropped", stats.Dropped).
				Msg("samfix complete")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "-", "Input SAM/BAM file (- for stdin SAM)")
	flags.StringVarP(&output, "output", "o", "-", "Output SAM/BAM file (- for stdout SAM)")
	flags.IntVar(&mapqFrom, "mapq-from", samtext.MapqUnavailable, "MAPQ value to rewrite")
	flags.IntVar(&mapqTo, "mapq-to", 60, "Replacement MAPQ value")
	flags.BoolVar(&zeroUnmapped, "zero-unmapped", false, "Set MAPQ to 0 on unmapped records")
	flags.BoolVar(&dropUnmapped, "drop-unmapped", false, "Drop unmapped records")
	flags.StringVar(&samtoolsPath, "samtools", "", "samtools binary for BAM decode/encode (default from config)")

	return cmd
}

func isBAM(path string) bool {
	return strings.HasSuffix(path, ".bam")
}

// openSamInput returns a SAM text stream for path: stdin, a plain file,
// or a samtools view decode of a BAM.
func openSamInput(ctx context.Context, path, samtools string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	if isBAM(path) {
		cmd := exec.CommandContext(ctx, samtools, "view", "-h", path)
		cmd.Stderr = os.Stderr
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, nil, fmt.Errorf("pipe samtools: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, fmt.Errorf("start samtools: %w", err)
		}
		// Close the read end before waiting: a run that stopped
		// mid-stream would otherwise leave the decoder blocked on a
		// full pipe and Wait never returns.
		closer := func() error {
			pipe.Close()
			return cmd.Wait()
		}
		return pipe, closer, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, f.Close, nil
}

// openSamOutput returns a SAM text sink for path: stdout, a plain file,
// or a samtools view re-encode into a BAM.
func openSamOutput(ctx context.Context, path, samtools string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	if isBAM(path) {
		cmd := exec.CommandContext(ctx, samtools, "view", "-b", "-o", path, "-")
		cmd.Stderr = os.Stderr
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, nil, fmt.Errorf("pipe samtools: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, fmt.Errorf("start samtools: %w", err)
		}
		closer := func() error {
			if err := stdin.Close(); err != nil {
				return err
			}
			return cmd.Wait()
		}
		return stdin, closer, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
