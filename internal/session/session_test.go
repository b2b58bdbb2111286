package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-app-secret")

func TestIssueAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := Issue(secret, 42, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Issue(secret, 7, time.Now())
	require.NoError(t, err)

	_, err = Parse([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_ExpiredToken(t *testing.T) {
	t.Parallel()

	issued := time.Now().Add(-TTL - time.Hour)
	token, err := Issue(secret, 7, issued)
	require.NoError(t, err)

	_, err = Parse(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	t.Parallel()

	_, err := Parse(secret, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateCookie_IsHTTPOnlyYearLong(t *testing.T) {
	t.Parallel()

	ck := CreateCookie("value", time.Now().Add(TTL))
	assert.Equal(t, CookieName, ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, int(TTL/time.Second), ck.MaxAge)
	assert.Equal(t, "/", ck.Path)
}

func TestDeleteCookie_Expires(t *testing.T) {
	t.Parallel()

	ck := DeleteCookie()
	assert.Equal(t, -1, ck.MaxAge)
	assert.Empty(t, ck.Value)
}
