// Package retry provides automatic retry logic with exponential backoff
// for transient portal and server failures.
//
// The package supports pluggable error classification and backoff
// strategies. The PortalErrorClassifier recognizes throttling (429),
// gateway errors (502/503/504), expired-token responses, and
// network-level failures as transient; authentication and client errors
// are fatal.
//
// # Example Usage
//
//	classifier := retry.NewPortalErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return client.Upload(ctx, pkg, opts)
//	})
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to
// create independent configurations per goroutine.
package retry
