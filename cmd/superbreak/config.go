package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/superbreak/internal/config"
)

var flagDumpDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective game configuration",
	Long: `Print the configuration a game would start with, after the config
file and difficulty preset are applied.

Examples:
  superbreak config
  superbreak config --difficulty hard
  superbreak config --dump-default > ~/.superbreak/configs/superbreak.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDumpDefault, "dump-default", false, "Print the built-in default config file")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDumpDefault {
		if _, err := os.Stdout.Write(config.DefaultYAML()); err != nil {
			fatalf("writing config: %v", err)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fatalf("encoding config: %v", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fatalf("writing config: %v", err)
	}
}
