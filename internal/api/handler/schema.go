package handler

import (
	"encoding/json"
	"time"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// timestampLayout is RFC 3339 with millisecond precision, always in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Message string `json:"message" example:"User not found"`
}

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required" example:"admin@example.com"`
	Password string `json:"password" validate:"required" example:"admin123!"`
}

// createUserRequest keeps age, email and password raw. An absent age
// (required-field error) differs from an explicit null or a non-numeric
// value, and a non-string email or password gets its own field error
// instead of failing the whole bind.
type createUserRequest struct {
	Name     string          `json:"name"     validate:"required" example:"John Doe"`
	Email    json.RawMessage `json:"email"    validate:"required" swaggertype:"string" example:"john@example.com"`
	Age      json.RawMessage `json:"age"      validate:"required" swaggertype:"integer" example:"25"`
	Password json.RawMessage `json:"password" validate:"required" swaggertype:"string" example:"password123"`
	Role     string          `json:"role,omitempty" example:"USER"`
}

// updateUserRequest is a partial update; absent fields are left untouched.
type updateUserRequest struct {
	Name     *string         `json:"name,omitempty"`
	Email    json.RawMessage `json:"email,omitempty" swaggertype:"string"`
	Age      json.RawMessage `json:"age,omitempty" swaggertype:"integer"`
	Password json.RawMessage `json:"password,omitempty" swaggertype:"string"`
	Role     *string         `json:"role,omitempty"`
}

// --- Response types ---

type userResponse struct {
	ID        string `json:"id"         example:"3f1c2d4e-5b6a-4c7d-8e9f-0a1b2c3d4e5f"`
	Name      string `json:"name"       example:"John Doe"`
	Email     string `json:"email"      example:"john@example.com"`
	Age       int    `json:"age"        example:"25"`
	Role      string `json:"role"       example:"USER"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00.000Z"`
	UpdatedAt string `json:"updated_at" example:"2024-01-01T00:00:00.000Z"`
}

type loginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

func toUserResponse(a *domain.Account) userResponse {
	return userResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Age:       a.Age,
		Role:      string(a.Role),
		CreatedAt: formatTimestamp(a.CreatedAt),
		UpdatedAt: formatTimestamp(a.UpdatedAt),
	}
}

func toUserResponses(accounts []*domain.Account) []userResponse {
	out := make([]userResponse, len(accounts))
	for i, a := range accounts {
		out[i] = toUserResponse(a)
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// textField is a decoded raw JSON value that should hold a string.
type textField struct {
	value    string
	set      bool // present and not null
	isString bool
	falsy    bool // absent, null, "", 0 or false
}

func decodeText(raw json.RawMessage) (textField, error) {
	if len(raw) == 0 {
		return textField{falsy: true}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return textField{}, domain.ErrInvalidBody
	}

	switch t := v.(type) {
	case nil:
		return textField{falsy: true}, nil
	case string:
		return textField{value: t, set: true, isString: true, falsy: t == ""}, nil
	case bool:
		return textField{set: true, falsy: !t}, nil
	case float64:
		return textField{set: true, falsy: t == 0}, nil
	default:
		return textField{set: true}, nil
	}
}

// decodeAge turns a raw JSON age into the value handed to domain.ValidateAge.
// "null" decodes to nil.
func decodeAge(raw json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, domain.ErrInvalidBody
	}
	return v, nil
}
