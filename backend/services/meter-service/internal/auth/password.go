// Package auth issues and verifies the operator credentials guarding the
// write API.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the password does not match.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Hasher defines password hashing contract.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed password hasher.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts plain password into hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks if provided password matches stored hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Authenticator exchanges the operator password for a token.
type Authenticator struct {
	hasher       Hasher
	passwordHash string
	tokens       *TokenService
}

// NewAuthenticator builds authenticator. An empty hash disables logins.
func NewAuthenticator(hasher Hasher, passwordHash string, tokens *TokenService) *Authenticator {
	return &Authenticator{hasher: hasher, passwordHash: passwordHash, tokens: tokens}
}

// Enabled reports whether logins are possible.
func (a *Authenticator) Enabled() bool {
	return a != nil && a.passwordHash != "" && a.tokens.Enabled()
}

// Login verifies password and issues an operator token.
func (a *Authenticator) Login(password string) (string, int64, error) {
	if !a.Enabled() {
		return "", 0, ErrMissingSecret
	}
	if password == "" || a.hasher.Compare(a.passwordHash, password) != nil {
		return "", 0, ErrInvalidCredentials
	}
	token, expires, err := a.tokens.GenerateToken(OperatorSubject)
	if err != nil {
		return "", 0, err
	}
	return token, expires.Unix(), nil
}
