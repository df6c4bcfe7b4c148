package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticAuthenticator(t *testing.T) {
	a, err := NewStaticAuthenticator("s3cret:alice, t0ken:bob,")
	require.NoError(t, err)

	owner, err := a.Authenticate("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	owner, err = a.Authenticate("t0ken")
	require.NoError(t, err)
	assert.Equal(t, "bob", owner)

	_, err = a.Authenticate("wrong")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewStaticAuthenticator_InvalidPairs(t *testing.T) {
	_, err := NewStaticAuthenticator("tokenwithoutowner")
	require.Error(t, err)

	_, err = NewStaticAuthenticator(":noToken")
	require.Error(t, err)

	_, err = NewStaticAuthenticator("noOwner:")
	require.Error(t, err)
}

func TestNewStaticAuthenticator_Empty(t *testing.T) {
	a, err := NewStaticAuthenticator("")
	require.NoError(t, err)

	_, err = a.Authenticate("anything")
	require.ErrorIs(t, err, ErrInvalidToken)
}
