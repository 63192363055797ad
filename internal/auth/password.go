package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the shared password when neither QUIZ_PASS_HASH nor
// QUIZ_PASSWORD is configured.
const DefaultPassword = "studywithpao"

const bcryptCost = 12

// SharedPassword checks logins against one bcrypt hash shared by every role.
type SharedPassword struct{ hash []byte }

// NewSharedPassword prefers a precomputed hash and otherwise hashes plain.
func NewSharedPassword(plain, hash string) (*SharedPassword, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, errors.Wrap(err, "QUIZ_PASS_HASH")
		}
		return &SharedPassword{hash: []byte(hash)}, nil
	}
	if plain == "" {
		plain = DefaultPassword
	}
	h, err := HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &SharedPassword{hash: []byte(h)}, nil
}

func (p *SharedPassword) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
}

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(h), nil
}
