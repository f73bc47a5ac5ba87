package webtool

import "context"

// Approver handles user interaction for approval workflows, particularly
// for overwriting an existing hosted service.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the service name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before replacing an
	// existing hosted service.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - serviceName: Name of the service to be overwritten
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, serviceName string) (bool, error)
}
