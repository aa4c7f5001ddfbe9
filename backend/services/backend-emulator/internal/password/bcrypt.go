package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength is the shortest password accepted at sign-up.
const MinLength = 6

// ErrTooShort rejects passwords below MinLength.
var ErrTooShort = errors.New("password: too short")

// ErrMismatch is returned by Compare for a wrong password.
var ErrMismatch = errors.New("password: mismatch")

// BcryptHasher stores passwords as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher; cost 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
