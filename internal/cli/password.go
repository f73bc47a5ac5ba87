package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/gisops/webtool/internal/tui"
	"github.com/gisops/webtool/pkg/webtool"
)

// passwordEnvVar is the environment variable holding the portal password.
// A .env file in the working directory is loaded before this is read, so
// WEBTOOL_PASSWORD=... in .env works too.
const passwordEnvVar = "WEBTOOL_PASSWORD"

// resolvePassword resolves the portal password without ever accepting it
// as a CLI flag (flags leak into shell history and process lists).
//
// Resolution order:
//  1. $WEBTOOL_PASSWORD (including values loaded from .env)
//  2. Interactive prompt with hidden input
func resolvePassword(username string) (string, error) {
	if password := os.Getenv(passwordEnvVar); password != "" {
		return password, nil
	}

	if !tui.IsInteractive() {
		return "", fmt.Errorf("no password available: set $%s or add it to a .env file: %w",
			passwordEnvVar, webtool.ErrAuthFailed)
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("empty password: %w", webtool.ErrAuthFailed)
	}
	return password, nil
}
