package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "a@b.c", RoleMember, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.MemberID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, RoleMember, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "a@b.c", RoleMember, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := GenerateAccessToken(7, "a@b.c", RoleMember, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, err = ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestRefreshAccessToken(t *testing.T) {
	_, refresh, err := GenerateTokens(7, "a@b.c", RoleAdmin, testSecret)
	require.NoError(t, err)

	access, claims, err := RefreshAccessToken(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.MemberID)

	validated, err := ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", validated.TokenType)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	access, err := GenerateAccessToken(7, "a@b.c", RoleMember, testSecret)
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(access, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
