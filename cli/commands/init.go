package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/anthropic-go/cli/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Create a starter configuration file with sensible defaults.

Writes ~/.plume/config.yaml unless --config points elsewhere. An
existing file is left untouched unless --force is given.

Example:
  plume init
  plume init --config ./plume.yaml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}

	starter := &config.Config{
		DefaultModel: "claude-sonnet-4-5",
		MaxTokens:    1024,
	}
	if err := config.SaveConfig(path, starter); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  plume keys set anthropic")
	fmt.Println(`  plume chat --prompt "Hello"`)

	return nil
}
