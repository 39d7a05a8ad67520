package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jdelaire/gymbot/core"
	"github.com/jdelaire/gymbot/core/policy"
)

func TestReloadAllowlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.txt")
	require.NoError(t, os.WriteFile(path, []byte("628222\n"), 0o600))

	logger := zaptest.NewLogger(t)
	pol := policy.New([]string{"628111"}, logger)
	r := core.NewReloader(pol, []string{"628111"}, logger)

	r.ReloadAllowlist(path)
	assert.True(t, pol.IsAllowed("628111@s.whatsapp.net"))
	assert.True(t, pol.IsAllowed("628222@s.whatsapp.net"))

	// Removing an id from the file revokes it; configured ids stay.
	require.NoError(t, os.WriteFile(path, []byte("# nobody else\n"), 0o600))
	r.ReloadAllowlist(path)
	assert.True(t, pol.IsAllowed("628111@s.whatsapp.net"))
	assert.False(t, pol.IsAllowed("628222@s.whatsapp.net"))
	assert.Equal(t, 1, pol.Len())
}

func TestReloadAllowlistKeepsListOnError(t *testing.T) {
	logger := zaptest.NewLogger(t)
	pol := policy.New([]string{"628111", "628222"}, logger)
	r := core.NewReloader(pol, []string{"628111"}, logger)

	r.ReloadAllowlist(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 2, pol.Len())
}
