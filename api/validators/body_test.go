package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"alice","password":"password123"}`))

	var payload loginPayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Username != "alice" || payload.Password != "password123" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"username":`))

	var payload loginPayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error for malformed json")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyUnknownField(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"alice","password":"password123","admin":true}`))

	var payload loginPayload
	if err := DecodeJSONBody(req, &payload); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"al","password":""}`))

	var payload loginPayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	// details are keyed by json tag, with per-rule messages
	if details["username"] != "must be at least 3" {
		t.Fatalf("unexpected username detail %q", details["username"])
	}
	if details["password"] != "is required" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}
