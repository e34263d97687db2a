package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
)

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	if body.Data["hello"] != "world" {
		t.Fatalf("unexpected payload %+v", body)
	}
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]bool{"created": true})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorPassesClientMessages(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{
			err:     pkgerrors.New(pkgerrors.CodeNotFound, "product not found"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "product not found",
		},
		{
			err:     pkgerrors.New(pkgerrors.CodeConflict, "product name already exists"),
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "product name already exists",
		},
		{
			err:     pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"),
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "invalid credentials",
		},
		{
			err:     pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"),
			status:  http.StatusTooManyRequests,
			code:    "RATE_LIMIT_EXCEEDED",
			message: "rate limit exceeded",
		},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, tt.err)

		if rec.Code != tt.status {
			t.Fatalf("%s: expected status %d, got %d", tt.code, tt.status, rec.Code)
		}
		body := decodeErrorBody(t, rec)
		if body.Error.Code != tt.code || body.Error.Message != tt.message {
			t.Fatalf("%s: unexpected body %+v", tt.code, body)
		}
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: connection refused"), "query products")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error.Message)
	}
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"name": "is required"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Details["name"] != "is required" {
		t.Fatalf("expected details, got %+v", body)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}
