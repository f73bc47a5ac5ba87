package webtool

import "context"

// Publisher is the main interface for publishing a packaged tool as a
// hosted web tool. Implementations handle the full workflow: sharing
// draft creation, draft patching, staging, portal sign-in, and upload.
type Publisher interface {
	// Publish executes a publish run using the provided configuration.
	// It returns an error if the run fails at any stage.
	Publish(ctx context.Context, config PublishConfig) error
}

// DirectionsRunner is the interface for computing travel directions.
// Implementations submit the stops to the route solver, surface solver
// diagnostics on failure, and export the directions artifact on success.
type DirectionsRunner interface {
	// Run executes a directions run using the provided configuration.
	Run(ctx context.Context, config DirectionsConfig) error
}
