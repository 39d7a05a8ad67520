package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestNormalizeIDs(t *testing.T) {
	got := normalizeIDs([]string{"628111@c.us", "628222,628111", " 628333 "})
	assert.Equal(t, []string{"628111", "628222", "628333"}, got)
	assert.Empty(t, normalizeIDs([]string{"@c.us"}))
}

func TestAllowlistSetAndShow(t *testing.T) {
	keyring.MockInit()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"allowlist", "show"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "No allow-list stored")

	out.Reset()
	rootCmd.SetArgs([]string{"allowlist", "set", "628111", "628222@c.us"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Stored 2 number(s)")

	out.Reset()
	rootCmd.SetArgs([]string{"allowlist", "show"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "628111\n628222\n", out.String())
}
