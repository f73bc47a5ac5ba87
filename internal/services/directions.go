package services

import (
	"context"
	"fmt"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/route"
	"github.com/gisops/webtool/pkg/webtool"
)

// DirectionsService implements the DirectionsRunner interface: load the
// stops, submit the solve, and either export the directions or report the
// solver's diagnostics.
type DirectionsService struct {
	solver webtool.Solver
	fs     filesystem.Provider
	logger webtool.Logger
}

// NewDirectionsService creates a new DirectionsService with all
// dependencies injected. Panics on nil dependencies.
func NewDirectionsService(solver webtool.Solver, fs filesystem.Provider, logger webtool.Logger) *DirectionsService {
	if solver == nil {
		panic("solver cannot be nil")
	}
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &DirectionsService{
		solver: solver,
		fs:     fs,
		logger: logger,
	}
}

// Run executes a directions run using the provided configuration.
func (s *DirectionsService) Run(ctx context.Context, config webtool.DirectionsConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stops, err := route.LoadStops(s.fs, config.StopsPath)
	if err != nil {
		return err
	}
	s.logger.Verbose("Loaded %d stops from %s", len(stops), config.StopsPath)

	result, err := s.solver.Solve(ctx, webtool.SolveRequest{
		Stops:      stops,
		TravelMode: config.TravelMode,
		StartTime:  config.StartTime,
	})
	if err != nil {
		return err
	}

	if !result.Succeeded {
		for _, msg := range result.WarningMessages() {
			s.logger.Info("Solver warning: %s", msg.Text)
		}
		for _, msg := range result.ErrorMessages() {
			s.logger.Error("Solver error: %s", msg.Text)
		}
		return fmt.Errorf("route solve did not succeed: %w", webtool.ErrSolveFailed)
	}

	if err := route.Export(s.fs, result, config.OutputPath); err != nil {
		return err
	}

	s.logger.Info("✓ Directions written to %s (%d steps)", config.OutputPath, len(result.Directions))
	return nil
}

// Verify DirectionsService implements the DirectionsRunner interface at compile time
var _ webtool.DirectionsRunner = (*DirectionsService)(nil)
