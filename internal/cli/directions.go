package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/internal/route"
	"github.com/gisops/webtool/internal/services"
	"github.com/gisops/webtool/pkg/webtool"
)

var directionsCmd = &cobra.Command{
	Use:   "directions",
	Short: "Compute travel directions between stop locations",
	Long: `Directions submits the stops in a JSON file to a route-solving service
and exports the returned turn-by-turn directions as JSON.

If the solve does not succeed, the solver's warnings and errors are
reported and the command exits nonzero without writing an artifact.

Examples:
  # Solve between the stops in stops.json
  webtool directions --stops stops.json --solver-url https://solver.example.com

  # Time-aware solve leaving at a specific departure time
  webtool directions --stops stops.json --start-time 2026-08-25T08:30:00Z

  # Choose a travel mode and output path
  webtool directions --stops stops.json --travel-mode "Walking Time" --out walk.json`,
	Args: cobra.NoArgs,
	RunE: runDirections,
}

type directionsFlagValues struct {
	stopsPath  string
	solverURL  string
	travelMode string
	startTime  string
	outputPath string
	timeout    time.Duration
}

var directionsFlags directionsFlagValues

func init() {
	rootCmd.AddCommand(directionsCmd)

	directionsCmd.Flags().StringVar(&directionsFlags.stopsPath, "stops", "stops.json",
		"JSON file with the ordered stop locations to visit")
	directionsCmd.Flags().StringVar(&directionsFlags.solverURL, "solver-url", "",
		"Route-solving service endpoint\n"+
			"Precedence: --solver-url > $WEBTOOL_SOLVER_URL")
	directionsCmd.Flags().StringVar(&directionsFlags.travelMode, "travel-mode", "Driving Time",
		"Travel mode descriptor understood by the solver")
	directionsCmd.Flags().StringVar(&directionsFlags.startTime, "start-time", "",
		"Departure time in RFC 3339 format (e.g. 2026-08-25T08:30:00Z)\n"+
			"Omit to let the solver decide (departure now)")
	directionsCmd.Flags().StringVarP(&directionsFlags.outputPath, "out", "o", "directions.json",
		"Output path for the exported directions")
	directionsCmd.Flags().DurationVar(&directionsFlags.timeout, "timeout", webtool.DefaultTimeout,
		"Catastrophic failure protection timeout")
}

// buildDirectionsConfig builds a DirectionsConfig from CLI flags and
// environment. Extracted for testability.
func buildDirectionsConfig(verbose bool) (webtool.DirectionsConfig, error) {
	_ = godotenv.Load()

	cfg := webtool.DirectionsConfig{
		StopsPath:  directionsFlags.stopsPath,
		SolverURL:  firstNonEmpty(directionsFlags.solverURL, os.Getenv("WEBTOOL_SOLVER_URL")),
		TravelMode: directionsFlags.travelMode,
		OutputPath: directionsFlags.outputPath,
		Timeout:    directionsFlags.timeout,
		Verbose:    verbose,
	}

	if directionsFlags.startTime != "" {
		start, err := time.Parse(time.RFC3339, directionsFlags.startTime)
		if err != nil {
			return webtool.DirectionsConfig{}, fmt.Errorf("invalid --start-time (want RFC 3339, e.g. 2026-08-25T08:30:00Z): %w", err)
		}
		cfg.StartTime = start
	}

	return cfg, nil
}

func runDirections(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildDirectionsConfig(verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	fsProvider := filesystem.NewOSFileSystem()
	solver := route.NewSolverClient(cfg.SolverURL, logger)
	runner := services.NewDirectionsService(solver, fsProvider, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling solve...")
		cancel()
	}()

	if err := runner.Run(ctx, cfg); err != nil {
		return fmt.Errorf("directions failed: %w", err)
	}
	return nil
}
