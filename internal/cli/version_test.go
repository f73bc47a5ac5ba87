package cli

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintVersionInfo(t *testing.T) {
	var out, errOut bytes.Buffer
	printVersionInfo(&out, &errOut)

	expected := fmt.Sprintf("webtool dev (unknown, unknown) %s/%s\n", runtime.GOOS, runtime.GOARCH)
	assert.Equal(t, expected, out.String(), "stdout carries exactly the machine-parseable line")

	assert.Contains(t, errOut.String(), "Web tool publishing CLI")
	assert.True(t, strings.HasPrefix(errOut.String(), asciiLogo),
		"logo goes to stderr without an extra leading newline")
}

func TestASCIILogoEndsWithSingleNewline(t *testing.T) {
	require.True(t, strings.HasSuffix(asciiLogo, "\n"))
	assert.False(t, strings.HasSuffix(asciiLogo, "\n\n"))
}
