// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/viper"
)

// Root is the directory holding the binary and its bundled assets
// (the default chloroplast CDS BLAST db lives under it)
var Root = rootDir()

// FilterConfig holds the bounds used to screen connected components
// of the contig graph before any of them is treated as a genome candidate
type FilterConfig struct {
	// the minimum number of oriented contig nodes in a component
	MinNodes int `mapstructure:"min-nodes"`

	// the maximum number of oriented contig nodes in a component
	MaxNodes int `mapstructure:"max-nodes"`

	// the minimum summed length of a component's distinct sequences
	MinSeqLen int `mapstructure:"min-seq-len"`

	// the maximum summed length of a component's distinct sequences
	MaxSeqLen int `mapstructure:"max-seq-len"`

	// MinSeqLen is divided by this for the relaxed rescue lower bound.
	// kept separate from the component bound on purpose
	RescueDivisor int `mapstructure:"rescue-divisor"`
}

// BlastConfig is settings for the blastn homology search
type BlastConfig struct {
	// path to the blastn executable
	Blastn string `mapstructure:"blastn"`

	// scratch directory for query/output files
	Dir string `mapstructure:"dir"`

	// e-value cutoff for a hit to count as homology evidence
	EValue float64 `mapstructure:"evalue"`

	// default reference db of chloroplast coding sequences
	DB string `mapstructure:"db"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.yaml and those
// available from the command line
type Config struct {
	// component screening bounds
	Filters FilterConfig

	// homology search settings
	Blast BlastConfig
}

// New returns a new Config struct populated by Viper settings
// (either from a local settings.yaml or the defaults below)
func New() *Config {
	setDefaults()

	viper.SetConfigName("settings")
	viper.AddConfigPath(Root)
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("failed to read settings file: %v", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}

// setDefaults registers the tool's built-in thresholds with viper.
// a settings.yaml next to the binary overrides any of them
func setDefaults() {
	viper.SetDefault("filters.min-nodes", 3)
	viper.SetDefault("filters.max-nodes", 100)
	viper.SetDefault("filters.min-seq-len", 25000)
	viper.SetDefault("filters.max-seq-len", 1000000)
	viper.SetDefault("filters.rescue-divisor", 10)

	viper.SetDefault("blast.blastn", "blastn")
	viper.SetDefault("blast.dir", filepath.Join(os.TempDir(), "graph-parser"))
	viper.SetDefault("blast.evalue", 1e-10)
	viper.SetDefault("blast.db", path.Join(Root, "assets", "chloroplast-cds", "db", "cds"))
}

// rootDir finds the directory of the executing binary
func rootDir() string {
	ex, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(ex)
}
