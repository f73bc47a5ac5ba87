package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gisops/webtool/pkg/webtool"
)

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It displays a countdown and automatically
// approves after it, used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) webtool.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, serviceName string) (bool, error) {
	fmt.Fprintf(a.output, "\nWARNING: the service '%s' already exists and will be OVERWRITTEN.\n", serviceName)
	fmt.Fprintln(a.output, "Clients of the existing service will see the new definition immediately.")
	fmt.Fprintln(a.output)

	countdownSeconds := int(webtool.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rOverwriting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with service overwrite...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ webtool.Approver = (*ForcedApprover)(nil)
