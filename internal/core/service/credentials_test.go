package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestPasswordChecker_Authenticate(t *testing.T) {
	checker := NewPasswordChecker(mustHash(t, "owner-pw"), mustHash(t, "admin-pw"))

	role, err := checker.Authenticate("owner-pw")
	if err != nil || role != domain.RoleOwner {
		t.Fatalf("expected owner, got %q %v", role, err)
	}
	role, err = checker.Authenticate("admin-pw")
	if err != nil || role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q %v", role, err)
	}
	for _, pw := range []string{"", "nope", "owner-pw "} {
		if _, err := checker.Authenticate(pw); err != domain.ErrInvalidCredentials {
			t.Fatalf("Authenticate(%q): expected ErrInvalidCredentials, got %v", pw, err)
		}
	}
}

func TestPasswordChecker_DisabledRoles(t *testing.T) {
	checker := NewPasswordChecker("", "")
	if _, err := checker.Authenticate("anything"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")) != nil {
		t.Fatalf("hash does not verify")
	}
	if _, err := HashPassword(""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}
