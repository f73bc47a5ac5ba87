package webtool

import "context"

// DraftCreator turns a tool run into a service definition draft on disk.
// The packaging pipeline behind it is external; implementations call its
// documented endpoints and write the returned draft document.
type DraftCreator interface {
	// CreateDraft runs the tool described by spec and writes the sharing
	// draft to draftPath.
	CreateDraft(ctx context.Context, spec DraftSpec, draftPath string) error
}

// Stager compiles a service definition draft into a deployable package.
type Stager interface {
	// Stage turns the draft at draftPath into a service definition
	// package at packagePath.
	Stage(ctx context.Context, draftPath, packagePath string) error
}

// DraftPatcher rewrites configuration properties in a service definition
// draft in place.
type DraftPatcher interface {
	// EnableJobDirReuse ensures the draft at path carries
	// reusejobdir=true, rewriting the document in place.
	EnableJobDirReuse(path string) error
}

// Portal authenticates against the portal and publishes staged packages.
type Portal interface {
	// SignIn authenticates and caches a portal token for later calls.
	SignIn(ctx context.Context, username, password string) error

	// Upload publishes the staged package at packagePath as a hosted
	// service and returns the portal's status output.
	Upload(ctx context.Context, packagePath string, opts UploadOptions) (*UploadResult, error)
}

// Solver computes a route between stop locations.
type Solver interface {
	// Solve submits the request to the route-solving service. A failed
	// solve is not an error at this level: the result carries the
	// severity-tagged diagnostics and Succeeded=false.
	Solve(ctx context.Context, req SolveRequest) (*SolveResult, error)
}
