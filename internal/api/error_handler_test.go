package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", domain.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 8 characters long"},
		{"unauthorized", domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"forbidden", domain.ErrInsufficientPermissions, http.StatusForbidden, "Insufficient permissions"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"conflict", domain.ErrEmailInUse, http.StatusConflict, "Email already in use"},
		{"wrapped domain error", fmt.Errorf("update: %w", domain.ErrEmailInUse), http.StatusConflict, "Email already in use"},
		{"echo error", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
		{"internal kind", domain.NewError(domain.KindInternal, "BOOM", "boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["message"] != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body["message"])
			}
		})
	}
}
