package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"orgsite/m/domain"
	"orgsite/m/internal/repository"
)

type fakeUsers map[string]domain.AdminUser

func (f fakeUsers) GetByUsername(_ context.Context, username string) (domain.AdminUser, error) {
	u, ok := f[username]
	if !ok {
		return domain.AdminUser{}, repository.ErrNotFound
	}
	return u, nil
}

func TestCredentialsVerify(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if strings.Contains(hash, "admin123") {
		t.Fatal("hash must not contain the plaintext")
	}
	creds := NewCredentials(fakeUsers{"admin": {ID: 1, Username: "admin", PasswordHash: hash}})

	user, err := creds.Verify(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("username = %q", user.Username)
	}

	_, wrongPassword := creds.Verify(context.Background(), "admin", "nope")
	_, unknownUser := creds.Verify(context.Background(), "ghost", "admin123")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("failures must be indistinguishable: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestTokensIssueVerify(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	signed, expiresAt, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Errorf("expiry %v should be in the future", expiresAt)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("subject = %q, want admin", claims.Subject)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Unix() != expiresAt.Unix() {
		t.Errorf("exp claim = %v, want %v", claims.ExpiresAt, expiresAt)
	}
}

func TestTokensRejectInvalid(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, _, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	anonymous, err := noSubject.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": mustIssue(t, NewTokens("other", time.Hour)),
		"expired":      old,
		"alg none":     unsigned,
		"missing sub":  anonymous,
		"tampered":     signed[:len(signed)-2] + "xx",
		"empty":        "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Verify(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func mustIssue(t *testing.T, tokens *Tokens) string {
	t.Helper()
	signed, _, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return signed
}
