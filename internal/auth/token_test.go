package auth

import (
	"testing"
	"time"

	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", "zooback-test", time.Hour)

	token, expiresAt, err := m.Issue("acc-1", "keeper01", "keeper01@zoo.local", domain.RoleZookeeper)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims.AccountID)
	require.Equal(t, "keeper01", claims.Username)
	require.Equal(t, "keeper01@zoo.local", claims.Email)
	require.Equal(t, domain.RoleZookeeper, claims.Role)
	require.Equal(t, "acc-1", claims.Subject)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", "zooback-test", -time.Minute)

	token, _, err := m.Issue("acc-1", "keeper01", "keeper01@zoo.local", domain.RoleZookeeper)
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.KindAuthentication))
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "zooback-test", time.Hour)
	verifier := NewTokenManager("secret-b", "zooback-test", time.Hour)

	token, _, err := issuer.Issue("acc-1", "keeper01", "keeper01@zoo.local", domain.RoleVisitor)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenManager("test-secret", "other-service", time.Hour)
	verifier := NewTokenManager("test-secret", "zooback-test", time.Hour)

	token, _, err := issuer.Issue("acc-1", "keeper01", "keeper01@zoo.local", domain.RoleVisitor)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.True(t, CheckPassword(hash, "s3cret-pass"))
	require.False(t, CheckPassword(hash, "wrong-pass"))
}
