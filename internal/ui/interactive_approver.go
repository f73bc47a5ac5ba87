package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gisops/webtool/pkg/webtool"
)

// InteractiveApprover implements the Approver interface for console-based
// confirmation. It prompts the user to type the service name to confirm
// overwriting an existing service.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) webtool.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the service name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, serviceName string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to OVERWRITE the existing service '%s'\n", serviceName)
	fmt.Fprintln(a.output, "The current service definition will be replaced for all its clients!")
	fmt.Fprintf(a.output, "\nTo confirm, type the service name '%s' and press Enter: ", serviceName)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == serviceName {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with service overwrite...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match service name '%s'. Operation cancelled.\n", input, serviceName)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ webtool.Approver = (*InteractiveApprover)(nil)
