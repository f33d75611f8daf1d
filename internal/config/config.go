// Package config loads file- and environment-supplied defaults. CLI
// flags always win over these.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the operator-tunable defaults.
type Settings struct {
	Region       string
	Profile      string
	StorageClass string
	LogDir       string

	SamtoolsPath string
	PrefetchPath string
	FasterqPath  string

	FetchThreads int
	ChecksumJobs int
}

// Load reads the config file at path when given, otherwise looks for
// .datamove.yaml in the home directory. DATAMOVE_* environment
// variables override file values. A missing default file is fine; a
// missing explicit file is an error.
func Load(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("storage_class", "STANDARD")
	v.SetDefault("tools.samtools", "samtools")
	v.SetDefault("tools.prefetch", "prefetch")
	v.SetDefault("tools.fasterq_dump", "fasterq-dump")
	v.SetDefault("fetch.threads", 4)
	v.SetDefault("checksum.jobs", 4)

	v.SetEnvPrefix("DATAMOVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(".datamove")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &Settings{
		Region:       v.GetString("region"),
		Profile:      v.GetString("profile"),
		StorageClass: v.GetString("storage_class"),
		LogDir:       v.GetString("log_dir"),
		SamtoolsPath: v.GetString("tools.samtools"),
		PrefetchPath: v.GetString("tools.prefetch"),
		FasterqPath:  v.GetString("tools.fasterq_dump"),
		FetchThreads: v.GetInt("fetch.threads"),
		ChecksumJobs: v.GetInt("checksum.jobs"),
	}, nil
}
