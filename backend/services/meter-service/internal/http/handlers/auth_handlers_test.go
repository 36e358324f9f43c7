package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/auth"
)

func TestTokenHandler(t *testing.T) {
	h := NewAuthHandlers(fakeLogin{password: "hunter2"}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"password":"hunter2"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"signed-token","token_type":"Bearer","expires_at":1700000000}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`nope`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandlerNotConfigured(t *testing.T) {
	h := NewAuthHandlers(fakeLogin{err: auth.ErrMissingSecret}, zap.NewNop())
	rec := httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"password":"x"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errBackend})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
