package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gisops/webtool/pkg/webtool"
)

func TestResolvePasswordFromEnv(t *testing.T) {
	t.Setenv(passwordEnvVar, "s3cret")

	password, err := resolvePassword("gisadmin")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)
}

func TestResolvePasswordMissingNonInteractive(t *testing.T) {
	t.Setenv(passwordEnvVar, "")
	t.Setenv("WEBTOOL_NON_INTERACTIVE", "1")

	_, err := resolvePassword("gisadmin")
	assert.ErrorIs(t, err, webtool.ErrAuthFailed)
	assert.Contains(t, err.Error(), passwordEnvVar)
}
