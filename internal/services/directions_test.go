package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/pkg/webtool"
)

const stopsJSON = `[
	{"name": "Office", "x": -122.68, "y": 45.53},
	{"name": "Airport", "x": -122.59, "y": 45.58}
]`

func validDirectionsConfig() webtool.DirectionsConfig {
	return webtool.DirectionsConfig{
		StopsPath:  "/work/stops.json",
		SolverURL:  "https://solver.example.com",
		TravelMode: "Driving Time",
		OutputPath: "/work/directions.json",
	}
}

func newDirectionsFixture(t *testing.T, solver *mockSolver) (*DirectionsService, filesystem.Provider) {
	t.Helper()
	memfs := filesystem.NewMemoryFileSystem()
	require.NoError(t, memfs.WriteFile("/work/stops.json", []byte(stopsJSON), 0o644))
	return NewDirectionsService(solver, memfs, logging.NewNullLogger()), memfs
}

func TestDirectionsRunExportsOnSuccess(t *testing.T) {
	solver := &mockSolver{result: &webtool.SolveResult{
		Succeeded: true,
		Directions: []webtool.Direction{
			{Sequence: 1, Text: "Start at Office"},
			{Sequence: 2, Text: "Arrive at Airport", Meters: 9000, Minutes: 14},
		},
	}}
	service, memfs := newDirectionsFixture(t, solver)

	err := service.Run(context.Background(), validDirectionsConfig())
	require.NoError(t, err)

	require.Equal(t, 1, solver.calls)
	req := solver.requests[0]
	assert.Len(t, req.Stops, 2)
	assert.Equal(t, "Driving Time", req.TravelMode)

	data, err := memfs.ReadFile("/work/directions.json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc["directions"], 2)
}

func TestDirectionsRunPassesStartTime(t *testing.T) {
	solver := &mockSolver{result: &webtool.SolveResult{Succeeded: true}}
	service, _ := newDirectionsFixture(t, solver)

	config := validDirectionsConfig()
	config.StartTime = time.Date(2026, 8, 25, 8, 30, 0, 0, time.UTC)

	require.NoError(t, service.Run(context.Background(), config))
	assert.Equal(t, config.StartTime, solver.requests[0].StartTime)
}

func TestDirectionsRunReportsDiagnosticsOnFailure(t *testing.T) {
	solver := &mockSolver{result: &webtool.SolveResult{
		Succeeded: false,
		Messages: []webtool.SolverMessage{
			{Severity: webtool.SeverityWarning, Text: "Stop \"Airport\" is unlocated"},
			{Severity: webtool.SeverityError, Text: "No solution found"},
			{Severity: webtool.SeverityInfo, Text: "Solve started"},
		},
	}}

	memfs := filesystem.NewMemoryFileSystem()
	require.NoError(t, memfs.WriteFile("/work/stops.json", []byte(stopsJSON), 0o644))

	var out bytes.Buffer
	logger := logging.NewConsoleLoggerTo(&out, false)
	service := NewDirectionsService(solver, memfs, logger)

	err := service.Run(context.Background(), validDirectionsConfig())
	assert.ErrorIs(t, err, webtool.ErrSolveFailed)

	logged := out.String()
	assert.Contains(t, logged, "Stop \"Airport\" is unlocated")
	assert.Contains(t, logged, "No solution found")
	assert.NotContains(t, logged, "Solve started", "info diagnostics are not reported")

	_, statErr := memfs.Stat("/work/directions.json")
	assert.Error(t, statErr, "no artifact may be written on failure")
}

func TestDirectionsRunSolverError(t *testing.T) {
	solver := &mockSolver{err: context.DeadlineExceeded}
	service, memfs := newDirectionsFixture(t, solver)

	err := service.Run(context.Background(), validDirectionsConfig())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, statErr := memfs.Stat("/work/directions.json")
	assert.Error(t, statErr)
}

func TestDirectionsRunInvalidConfig(t *testing.T) {
	solver := &mockSolver{}
	service, _ := newDirectionsFixture(t, solver)

	err := service.Run(context.Background(), webtool.DirectionsConfig{})
	assert.ErrorIs(t, err, webtool.ErrInvalidConfig)
	assert.Equal(t, 0, solver.calls)
}

func TestDirectionsRunMissingStopsFile(t *testing.T) {
	solver := &mockSolver{}
	service := NewDirectionsService(solver, filesystem.NewMemoryFileSystem(), logging.NewNullLogger())

	err := service.Run(context.Background(), validDirectionsConfig())
	require.Error(t, err)
	assert.Equal(t, 0, solver.calls)
}

func TestNewDirectionsServiceNilDependenciesPanic(t *testing.T) {
	solver := &mockSolver{}
	memfs := filesystem.NewMemoryFileSystem()
	logger := logging.NewNullLogger()

	assert.Panics(t, func() { NewDirectionsService(nil, memfs, logger) })
	assert.Panics(t, func() { NewDirectionsService(solver, nil, logger) })
	assert.Panics(t, func() { NewDirectionsService(solver, memfs, nil) })
}
