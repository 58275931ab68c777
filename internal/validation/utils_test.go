package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/labstack/echo/v4"
)

type samplePayload struct {
	ID      string  `param:"id" json:"-" validate:"required,uuid"`
	Content *string `json:"content" validate:"required"`
	Count   int     `json:"count" validate:"min=1"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

func newContext(method, body string, params map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return c
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T (%v)", err, err)
	}
	return httpErr
}

func TestBindAndValidate_OK(t *testing.T) {
	c := newContext(http.MethodPut, `{"content":"","count":2}`, map[string]string{"id": "0b6a6a3e-2f6b-4b55-9d8e-0c6f2e3c6a10"})

	var p samplePayload
	if err := BindAndValidate(c, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "0b6a6a3e-2f6b-4b55-9d8e-0c6f2e3c6a10" || p.Content == nil || *p.Content != "" || p.Count != 2 {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	c := newContext(http.MethodPut, `{"count":0}`, map[string]string{"id": "not-a-uuid"})

	err := BindAndValidate(c, &samplePayload{})
	httpErr := asHTTPError(t, err)

	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Status)
	}

	got := map[string]string{}
	for _, fe := range httpErr.Errors {
		got[fe.Field] = fe.Error
	}
	want := map[string]string{
		"id":      "must be a valid UUID",
		"content": "is required",
		"count":   "must be at least 1",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Fatalf("field %q: expected %q, got %q (all: %v)", field, msg, got[field], got)
		}
	}
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	c := newContext(http.MethodPost, `{"content":`, nil)

	err := BindAndValidate(c, &samplePayload{})
	httpErr := asHTTPError(t, err)

	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Status)
	}
	if httpErr.Message != InvalidBodyMessage {
		t.Fatalf("expected %q, got %q", InvalidBodyMessage, httpErr.Message)
	}
}

func TestBindAndValidate_WrongType(t *testing.T) {
	c := newContext(http.MethodPost, `{"content":42,"count":1}`, nil)

	err := BindAndValidate(c, &samplePayload{})
	httpErr := asHTTPError(t, err)

	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Status)
	}
	if strings.Contains(httpErr.Message, "samplePayload") || httpErr.Message != InvalidBodyMessage {
		t.Fatalf("bind detail leaked to client: %q", httpErr.Message)
	}
}

func TestBindAndValidate_UppercaseUUID(t *testing.T) {
	id := "0B6A6A3E-2F6B-4B55-9D8E-0C6F2E3C6A10"
	c := newContext(http.MethodPut, `{"content":"x","count":1}`, map[string]string{"id": id})

	var p samplePayload
	if err := BindAndValidate(c, &p); err != nil {
		t.Fatalf("uppercase uuid rejected: %v", err)
	}
}

type customPayload struct{}

func (customPayload) Validate() error {
	return CustomValidationErrors{{Field: "cover", Message: "is unreachable"}}
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newContext(http.MethodPost, `{}`, nil)

	err := BindAndValidate(c, &customPayload{})
	httpErr := asHTTPError(t, err)

	if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "cover" {
		t.Fatalf("unexpected field errors %+v", httpErr.Errors)
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("0b6a6a3e-2f6b-4b55-9d8e-0c6f2e3c6a10") {
		t.Fatal("expected valid uuid")
	}
	if !IsValidUUID("0B6A6A3E-2F6B-4B55-9D8E-0C6F2E3C6A10") {
		t.Fatal("expected uppercase uuid to be valid")
	}
	for _, s := range []string{"not-a-uuid", "", "0b6a6a3e2f6b4b559d8e0c6f2e3c6a10", "0b6a6a3e-2f6b-4b55-9d8e-0c6f2e3c6a1g"} {
		if IsValidUUID(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
