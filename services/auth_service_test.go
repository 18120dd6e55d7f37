package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-tokens"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, testJWTSecret), repo
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthFixture()

	_, _, err := auth.Register(context.Background(), RegisterInput{
		Email:    "short@example.com",
		Password: "1234567",
		Role:     "applicant",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, _, err = auth.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Password: "longenough",
		Role:     "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture()

	user, token, err := auth.Register(context.Background(), RegisterInput{
		FirstName: "Dana",
		LastName:  "Lopez",
		Email:     "dana@example.com",
		Password:  "correct horse",
		Role:      "industry",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleIndustry, user.Role)
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	_, _, err = auth.Register(context.Background(), RegisterInput{
		Email:    "dana@example.com",
		Password: "correct horse",
		Role:     "industry",
	})
	assert.ErrorIs(t, err, ErrAuthEmailTaken)

	_, loginToken, err := auth.Login(context.Background(), LoginInput{
		Email:    "dana@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, _, err = auth.Login(context.Background(), LoginInput{Email: "dana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, _, err = auth.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestResolveIdentityFromJWT(t *testing.T) {
	auth, _ := newAuthFixture()

	user, token, err := auth.Register(context.Background(), RegisterInput{
		FirstName: "Dana",
		Email:     "dana@example.com",
		Password:  "correct horse",
		Role:      "applicant",
	})
	require.NoError(t, err)

	identity, err := auth.ResolveIdentity(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "dana@example.com", identity.Email)
	assert.Equal(t, models.RoleApplicant, identity.Role)
}

func TestResolveIdentityFromLegacyToken(t *testing.T) {
	auth, _ := newAuthFixture()

	_, _, err := auth.Register(context.Background(), RegisterInput{
		FirstName: "Dana",
		Email:     "dana@example.com",
		Password:  "correct horse",
		Role:      "applicant",
	})
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("user:17|email:dana@example.com|role:applicant"))
	legacy := payload + ".signature.extra"

	identity, err := auth.ResolveIdentity(context.Background(), "Bearer "+legacy)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", identity.Email)
}

func TestResolveIdentityFailures(t *testing.T) {
	auth, _ := newAuthFixture()

	_, token, err := auth.Register(context.Background(), RegisterInput{
		Email:    "dana@example.com",
		Password: "correct horse",
		Role:     "applicant",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"missing bearer prefix", token},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not-a-token"},
		{"wrong segment count", "Bearer one.two"},
		{"undecodable payload", "Bearer %%%.sig.extra"},
		{"token signed with another secret", "Bearer " + mustTokenWithSecret(t, "other-secret", "dana@example.com")},
		{"legacy token without email", "Bearer " + base64.StdEncoding.EncodeToString([]byte("user:17|role:applicant")) + ".s.e"},
		{"unknown email", "Bearer " + base64.StdEncoding.EncodeToString([]byte("email:ghost@example.com")) + ".s.e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.ResolveIdentity(context.Background(), tt.header)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func mustTokenWithSecret(t *testing.T, secret, email string) string {
	t.Helper()
	other := NewAuthService(newFakeUserRepo(), secret).(*authService)
	token, err := other.issueToken(&models.User{ID: 1, Email: email})
	require.NoError(t, err)
	return token
}
