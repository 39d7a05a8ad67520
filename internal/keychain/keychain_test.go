package keychain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSetGetLookup(t *testing.T) {
	keyring.MockInit()

	v, err := Lookup(AllowlistAccount)
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = Get(AllowlistAccount)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Set(AllowlistAccount, "628111,628222"))

	v, err = Lookup(AllowlistAccount)
	require.NoError(t, err)
	assert.Equal(t, "628111,628222", v)
}
