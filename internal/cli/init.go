package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Scaffold a new webtool project",
	Long: `Init creates a new project directory with a webtool.yaml, a tool inputs
file, example stops, and a README. The target directory must be empty or
absent.

Examples:
  # Scaffold into ./myservice
  webtool init myservice

  # Scaffold into the current (empty) directory
  webtool init

  # Pick a project name different from the directory
  webtool init myservice --name BufferPoints`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runInit,
	ValidArgsFunction: cobra.NoFileCompletions,
}

type initFlagValues struct {
	template string
	name     string
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.template, "template", "t", "basic",
		"Project template to scaffold from")
	initCmd.Flags().StringVar(&initFlags.name, "name", "",
		"Project name substituted into the templates (default: directory name)")

	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	verbose := getVerboseFlag(cmd)

	projectName := initFlags.name
	if projectName == "" {
		abs, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("failed to resolve target directory: %w", err)
		}
		projectName = filepath.Base(abs)
	}

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))
	if err := scaffolder.CreateProject(projectName, initFlags.template, target); err != nil {
		return err
	}

	fmt.Printf("✓ Project '%s' created in %s\n", projectName, target)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit webtool.yaml with your portal and tool settings")
	fmt.Println("  2. Set $WEBTOOL_PASSWORD (or add it to a .env file)")
	fmt.Println("  3. Run 'webtool publish'")
	return nil
}
