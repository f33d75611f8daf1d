// Package cli wires the datamove subcommands.
package cli

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hpcdata/datamove/internal/config"
	"github.com/hpcdata/datamove/internal/logging"
)

// global carries what every subcommand needs: the merged settings and
// the process logger, built once in the persistent pre-run.
type global struct {
	cfgFile string
	quiet   bool
	verbose bool

	settings *config.Settings
	log      zerolog.Logger
}

// NewRootCmd builds the datamove command tree.
func NewRootCmd(version string) *cobra.Command {
	g := &global{}

	root := &cobra.Command{
		Use:   "datamove",
		Short: "Batch data movement toolkit for HPC genomics operations",
		Long: `datamove batches the data chores around sequencing pipelines: moving
files between the cluster filesystem and the object store, generating
and verifying MD5 manifests, fixing MAPQ values in SAM/BAM streams, and
downloading SRA runs.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(g.cfgFile)
			if err != nil {
				return err
			}
			g.settings = settings
			g.log = logging.New(g.quiet, g.verbose)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "", "Config file (default $HOME/.datamove.yaml)")
	pf.BoolVar(&g.quiet, "quiet", false, "Suppress non-error output")
	pf.BoolVar(&g.verbose, "verbose", false, "Enable debug output")

	root.AddCommand(
		newTransferCmd(g),
		newChecksumCmd(g),
		newSamfixCmd(g),
		newFetchCmd(g),
	)
	return root
}

// awsConfig loads the AWS configuration, with the flag values winning
// over the settings file.
func (g *global) awsConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	if profile == "" {
		profile = g.settings.Profile
	}
	if region == "" {
		region = g.settings.Region
	}

	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
