package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorSubject is the subject of tokens issued to the meter operator.
const OperatorSubject = "operator"

// Token errors.
var (
	ErrMissingSecret = errors.New("token: secret is not configured")
	ErrInvalidToken  = errors.New("token: invalid token")
)

// Claims represents the JWT payload accepted by the write API.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

// Enabled reports whether tokens can be issued and checked.
func (t *TokenService) Enabled() bool {
	return t != nil && len(t.secret) > 0
}

// GenerateToken issues a JWT for subject. It returns the expiry alongside.
func (t *TokenService) GenerateToken(subject string) (string, time.Time, error) {
	if !t.Enabled() {
		return "", time.Time{}, ErrMissingSecret
	}
	if subject == "" {
		return "", time.Time{}, errors.New("token: subject is required")
	}

	now := t.now().UTC()
	expires := now.Add(t.expiresIn)
	claims := Claims{
		Scope: "readings:write",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ValidateToken verifies and decodes JWT.
func (t *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if !t.Enabled() {
		return nil, ErrMissingSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
