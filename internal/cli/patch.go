package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/internal/sddraft"
	"github.com/gisops/webtool/pkg/webtool"
)

var patchCmd = &cobra.Command{
	Use:   "patch <sddraft>",
	Short: "Patch a service definition draft in place",
	Long: `Patch ensures a configuration property exists in a service definition
draft, rewriting the file in place. With no flags it enables job
directory reuse, which is what a web tool shared from run history needs
to keep its result.

The operation is idempotent: patching an already-patched draft leaves it
byte-for-byte unchanged.

Examples:
  # Enable job directory reuse (the default)
  webtool patch out/BufferPoints.sddraft

  # Set an arbitrary configuration property
  webtool patch out/BufferPoints.sddraft --property showMessages --value true`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

type patchFlagValues struct {
	property string
	value    string
}

var patchFlags patchFlagValues

func init() {
	rootCmd.AddCommand(patchCmd)

	patchCmd.Flags().StringVar(&patchFlags.property, "property", webtool.JobDirReuseProperty,
		"Configuration property to ensure")
	patchCmd.Flags().StringVar(&patchFlags.value, "value", "true",
		"Value the property is set to")
}

func runPatch(cmd *cobra.Command, args []string) error {
	draftPath := args[0]
	verbose := getVerboseFlag(cmd)

	logger := logging.NewConsoleLogger(verbose)
	patcher := sddraft.NewPatcher(filesystem.NewOSFileSystem(), logger)

	if err := patcher.EnsureProperty(draftPath, patchFlags.property, patchFlags.value); err != nil {
		return err
	}

	fmt.Printf("✓ %s: %s = %s\n", draftPath, patchFlags.property, patchFlags.value)
	return nil
}
