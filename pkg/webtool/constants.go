package webtool

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Publish/solve completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to reach the portal or server
	ExitApprovalDenied  = 12 // User denied service overwrite approval
	ExitSolveFailed     = 13 // Route solve reported errors
	ExitDraftError      = 14 // Service definition draft is malformed or unpatchable
	ExitAuthFailed      = 15 // Portal rejected the credentials
)

const (
	// JobDirReuseProperty is the configuration property that controls
	// server-side job directory reuse. Enabling it makes synchronous
	// services noticeably faster because each job skips directory setup.
	JobDirReuseProperty = "reusejobdir"

	// DraftExtension and PackageExtension are the file extensions of the
	// intermediate draft and the staged service definition package.
	DraftExtension   = ".sddraft"
	PackageExtension = ".sd"

	// DefaultMaxRecords caps the number of records a published service
	// returns per request.
	DefaultMaxRecords = 1000

	// DefaultExecutionType is the execution mode for published tools.
	DefaultExecutionType = "Synchronous"

	// DefaultMessageLevel is the geoprocessing message level recorded in
	// the sharing draft.
	DefaultMessageLevel = "Info"

	// DefaultForceApprovalCountdown is the countdown duration before force
	// approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTokenLifetime is the token lifetime requested from the portal.
	DefaultTokenLifetime = 60 * time.Minute

	// TokenRefreshMargin is how long before expiry a cached token is
	// considered stale and regenerated.
	TokenRefreshMargin = 2 * time.Minute

	// DefaultTimeout bounds a full publish or solve run. This is
	// catastrophic failure protection, not fine-grained timeout control.
	DefaultTimeout = 10 * time.Minute
)
