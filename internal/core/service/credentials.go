package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// PasswordChecker maps an admin password to a role using bcrypt hashes.
type PasswordChecker struct {
	hashes []roleHash
}

type roleHash struct {
	role domain.Role
	hash []byte
}

// NewPasswordChecker accepts the bcrypt hashes for the owner and admin roles.
// An empty hash disables that role's login.
func NewPasswordChecker(ownerHash, adminHash string) *PasswordChecker {
	c := &PasswordChecker{}
	if ownerHash != "" {
		c.hashes = append(c.hashes, roleHash{role: domain.RoleOwner, hash: []byte(ownerHash)})
	}
	if adminHash != "" {
		c.hashes = append(c.hashes, roleHash{role: domain.RoleAdmin, hash: []byte(adminHash)})
	}
	return c
}

func (c *PasswordChecker) Authenticate(password string) (domain.Role, error) {
	if password == "" {
		return "", domain.ErrInvalidCredentials
	}
	for _, rh := range c.hashes {
		if bcrypt.CompareHashAndPassword(rh.hash, []byte(password)) == nil {
			return rh.role, nil
		}
	}
	return "", domain.ErrInvalidCredentials
}

// HashPassword returns a bcrypt hash suitable for OWNER_PASSWORD_HASH or
// ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidCredentials
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
