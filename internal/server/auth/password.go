package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notevault/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for account passwords.
const DefaultBcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes account passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of plain. Inputs longer than MaxPasswordBytes
// are rejected with common.ErrorValidation rather than silently truncated.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", common.ErrorValidation, MaxPasswordBytes)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrorValidation
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. The comparison is constant time.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
