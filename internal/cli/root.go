package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `
               __    __              __
 _      _____ / /_  / /_____  ____  / /
| | /| / / _ \/ __ \/ __/ __ \/ __ \/ /
| |/ |/ /  __/ /_/ / /_/ /_/ / /_/ / /
|__/|__/\___/_.__/\__/\____/\____/_/
`

var rootCmd = &cobra.Command{
	Use:   "webtool",
	Short: "Publish geoprocessing tools as hosted web services",
	Long: asciiLogo + `

webtool packages a geoprocessing tool, patches the sharing draft, stages
it into a service definition, and publishes it to a portal as a hosted
web tool. It can also submit stop locations to a route-solving service
and export the returned turn-by-turn directions.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Portal or server connection failed
  12 - User denied overwrite approval
  13 - Route solve failed
  14 - Malformed service definition draft
  15 - Portal authentication failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for webtool")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
