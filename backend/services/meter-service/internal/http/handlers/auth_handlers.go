package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/auth"
)

// LoginProvider exchanges a password for a token.
type LoginProvider interface {
	Login(password string) (string, int64, error)
}

// AuthHandlers serves token issuance.
type AuthHandlers struct {
	auth   LoginProvider
	logger *zap.Logger
}

// NewAuthHandlers builds auth handlers.
func NewAuthHandlers(provider LoginProvider, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{auth: provider, logger: logger}
}

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Token handles POST /api/auth/token.
func (h *AuthHandlers) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, expiresAt, err := h.auth.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, auth.ErrMissingSecret):
		writeError(w, http.StatusServiceUnavailable, "token issuance is not configured")
		return
	case err != nil:
		h.logger.Error("failed to issue token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}
