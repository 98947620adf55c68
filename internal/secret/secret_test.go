package secret_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benevole/benevole/internal/secret"
)

func TestGenerate(t *testing.T) {
	s, err := secret.Generate(200, []byte("ab"))
	require.NoError(t, err)
	assert.Len(t, s, 200)
	assert.Empty(t, strings.Trim(s, "ab"))

	s, err = secret.Generate(0, secret.Chars)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGenerateRejectsCharset(t *testing.T) {
	_, err := secret.Generate(8, []byte("a"))
	require.ErrorIs(t, err, secret.ErrCharset)

	_, err = secret.Generate(8, make([]byte, 257))
	require.ErrorIs(t, err, secret.ErrCharset)
}

func TestPasswordAndKey(t *testing.T) {
	a, err := secret.Password()
	require.NoError(t, err)
	assert.Len(t, a, secret.PasswordLen)

	b, err := secret.Password()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	k, err := secret.Key()
	require.NoError(t, err)
	assert.Len(t, k, secret.KeyLen)
}
