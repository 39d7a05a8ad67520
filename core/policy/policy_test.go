package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jdelaire/gymbot/core/policy"
)

func TestIsAllowedStripsSuffix(t *testing.T) {
	p := policy.New([]string{"6281234567890"}, zaptest.NewLogger(t))

	assert.True(t, p.IsAllowed("6281234567890@c.us"))
	assert.True(t, p.IsAllowed("6281234567890@s.whatsapp.net"))
	assert.True(t, p.IsAllowed("6281234567890"))
	assert.False(t, p.IsAllowed("6289999999999@c.us"))
}

func TestIsAllowedEmptyListDeniesEverything(t *testing.T) {
	p := policy.New(nil, zaptest.NewLogger(t))

	for _, id := range []string{"", "6281234567890", "6281234567890@c.us", "@"} {
		assert.False(t, p.IsAllowed(id), "id %q", id)
	}
}

func TestNewCanonicalizesConfiguredIDs(t *testing.T) {
	p := policy.New([]string{" 628111@c.us ", "", "628222"}, zaptest.NewLogger(t))

	assert.Equal(t, 2, p.Len())
	assert.True(t, p.IsAllowed("628111@s.whatsapp.net"))
	assert.True(t, p.IsAllowed("628222@c.us"))
}

func TestReplace(t *testing.T) {
	p := policy.New([]string{"628111"}, zaptest.NewLogger(t))
	p.Replace([]string{"628222"})

	assert.False(t, p.IsAllowed("628111@c.us"))
	assert.True(t, p.IsAllowed("628222@c.us"))

	p.Replace(nil)
	assert.False(t, p.IsAllowed("628222@c.us"))
}

func TestCanonicalID(t *testing.T) {
	tests := map[string]string{
		"6281234567890@c.us":      "6281234567890",
		"6281234567890@lid@extra": "6281234567890",
		"6281234567890":           "6281234567890",
		"":                        "",
		"@c.us":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, policy.CanonicalID(in), "CanonicalID(%q)", in)
	}
}

func TestParseList(t *testing.T) {
	got := policy.ParseList("628111, 628222\n# comment\n\n628333\r\n,")
	assert.Equal(t, []string{"628111", "628222", "628333"}, got)
	assert.Empty(t, policy.ParseList(""))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.txt")
	require.NoError(t, os.WriteFile(path, []byte("# team\n628111\n628222@c.us\n"), 0o600))

	ids, err := policy.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"628111", "628222@c.us"}, ids)

	_, err = policy.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
