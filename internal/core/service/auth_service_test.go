package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
)

func newTestAuthService() (*AuthService, *stubAccountRepo, *stubTokens) {
	repo := newStubAccountRepo()
	tokens := &stubTokens{}
	svc := NewAuthService(repo, &stubHasher{}, tokens, time.Hour, zerolog.Nop())
	return svc, repo, tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, tokens := newTestAuthService()
	repo.seed(storedAccount("u1", "john@example.com", domain.RoleUser))

	res, err := svc.Login(context.Background(), "john@example.com", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token != "token-for-u1" {
		t.Fatalf("unexpected token: %q", res.Token)
	}
	if res.Account.PasswordHash != "" {
		t.Fatalf("expected sanitized account, got hash %q", res.Account.PasswordHash)
	}
	if len(tokens.issued) != 1 {
		t.Fatalf("expected one token issued, got %d", len(tokens.issued))
	}
	issued := tokens.issued[0]
	if issued.ID != "u1" || issued.Email != "john@example.com" || issued.Role != domain.RoleUser {
		t.Fatalf("unexpected identity in token: %+v", issued)
	}
	if tokens.ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", tokens.ttl)
	}
}

func TestAuthService_Login_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, repo, tokens := newTestAuthService()
	repo.seed(storedAccount("u1", "john@example.com", domain.RoleUser))

	_, errWrongPassword := svc.Login(context.Background(), "john@example.com", "wrong-password")
	_, errUnknownEmail := svc.Login(context.Background(), "nobody@example.com", "password123")

	if !errors.Is(errWrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Fatalf("errors differ: %q vs %q", errWrongPassword, errUnknownEmail)
	}
	if len(tokens.issued) != 0 {
		t.Fatalf("no token should be issued on failure")
	}
}

func TestAuthService_Login_EmailIsCaseSensitive(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	repo.seed(storedAccount("u1", "john@example.com", domain.RoleUser))

	if _, err := svc.Login(context.Background(), "John@Example.com", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_HasherFailureIsNotBadCredentials(t *testing.T) {
	repo := newStubAccountRepo()
	repo.seed(storedAccount("u1", "john@example.com", domain.RoleUser))
	tokens := &stubTokens{}
	hasherDown := errors.New("hash pool stopped")
	svc := NewAuthService(repo, &stubHasher{verifyErr: hasherDown}, tokens, time.Hour, zerolog.Nop())

	_, err := svc.Login(context.Background(), "john@example.com", "password123")
	if !errors.Is(err, hasherDown) {
		t.Fatalf("expected hasher error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("hasher failure must not look like bad credentials")
	}
	if domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal kind, got %v", domain.KindOf(err))
	}
	if len(tokens.issued) != 0 {
		t.Fatalf("no token should be issued when verification could not run")
	}
}

func TestAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(newStubAccountRepo(), &stubHasher{}, &stubTokens{}, 0, zerolog.Nop())
	if svc.tokenTTL != defaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", defaultTokenTTL, svc.tokenTTL)
	}
}
