package handler

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/userhub/accounts-api/internal/core/domain"
)

func TestValidator_ListsMissingJSONFields(t *testing.T) {
	err := NewValidator().Validate(&createUserRequest{Name: "John", Age: json.RawMessage("25")})

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if de.Kind != domain.KindBadRequest || de.Code != "MISSING_FIELDS" {
		t.Fatalf("unexpected error: %+v", de)
	}
	if de.Message != "missing fields: email, password" {
		t.Fatalf("unexpected message %q", de.Message)
	}
}

func TestValidator_CompleteRequest(t *testing.T) {
	req := &loginRequest{Email: "john@example.com", Password: "password123"}
	if err := NewValidator().Validate(req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
