package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/config"
	"github.com/gisops/webtool/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config [project_path]",
	Short: "Configure the portal connection interactively",
	Long: `Config runs an interactive wizard for the portal connection settings
(portal URL, server URL, username) and writes them to webtool.yaml in the
project directory. Existing service and tool settings are preserved.

The password is never part of the configuration file: set
$WEBTOOL_PASSWORD, use a .env file, or let the CLI prompt for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	sourcePath := "."
	if len(args) == 1 {
		sourcePath = args[0]
	}

	if !tui.IsInteractive() {
		return fmt.Errorf("config requires an interactive terminal; edit %s directly in scripts", config.ConfigFileName)
	}

	projectCfg, err := config.Load(sourcePath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		projectCfg = &config.ProjectConfig{}
	}

	result, err := tui.RunConnectionWizard(projectCfg.Portal)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Println("Cancelled; configuration unchanged.")
		return nil
	}

	projectCfg.Portal = result.Portal
	if err := config.Save(sourcePath, projectCfg); err != nil {
		return err
	}

	fmt.Printf("✓ Portal connection saved to %s\n", config.ConfigFileName)
	return nil
}
