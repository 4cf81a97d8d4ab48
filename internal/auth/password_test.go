package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", digest)

	assert.True(t, VerifyPassword(digest, "hunter2"))
	assert.False(t, VerifyPassword(digest, "Hunter2"), "comparison is case-sensitive")
	assert.False(t, VerifyPassword(digest, "hunter2 "))
	assert.False(t, VerifyPassword(digest, ""))
}

func TestHashPassword_DigestsAreSalted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("hunter2")
	require.NoError(t, err)
	b, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "hunter2"))
	assert.True(t, VerifyPassword(b, "hunter2"))
}
