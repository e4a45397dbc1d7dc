package cli

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContextFlagsEmpty(t *testing.T) {
	got, err := parseContextFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseContextFlagsRoundTrip(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})
	got, err := parseContextFlags([]string{"build_info=" + encoded})
	require.NoError(t, err)
	require.Contains(t, got, "build_info")
	assert.Equal(t, []byte{1, 2, 3, 4}, got["build_info"])
}

func TestParseContextFlagsMultiple(t *testing.T) {
	a := base64.StdEncoding.EncodeToString([]byte("a"))
	b := base64.StdEncoding.EncodeToString([]byte("b"))
	got, err := parseContextFlags([]string{"first=" + a, "second=" + b})
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got["first"])
	assert.Equal(t, []byte("b"), got["second"])
}

func TestParseContextFlagsMalformed(t *testing.T) {
	_, err := parseContextFlags([]string{"no-equals-sign"})
	require.Error(t, err)
}

func TestParseContextFlagsBadBase64(t *testing.T) {
	_, err := parseContextFlags([]string{"name=not-valid-base64!!"})
	require.Error(t, err)
}

func TestResolveClientExeExplicit(t *testing.T) {
	got, err := resolveClientExe([]string{"/path/to/exe"})
	require.NoError(t, err)
	assert.Equal(t, "/path/to/exe", got)
}

func TestResolveClientExeDefaultsToSelf(t *testing.T) {
	got, err := resolveClientExe(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
