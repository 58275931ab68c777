package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T (%v)", err, err)
	}
	return httpErr
}

func TestHandleError_NotFoundWithTable(t *testing.T) {
	err := HandleError(WithTable("memory", gorm.ErrRecordNotFound))

	httpErr := asHTTPError(t, err)
	if httpErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", httpErr.Status)
	}
	if httpErr.Message != "Memory not found" {
		t.Fatalf("unexpected message %q", httpErr.Message)
	}
	if httpErr.Code != "MEMORY_NOT_FOUND" {
		t.Fatalf("unexpected code %q", httpErr.Code)
	}
}

func TestHandleError_NotFoundPlural(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(WithTable("memories", pgx.ErrNoRows)))
	if httpErr.Message != "Memory not found" {
		t.Fatalf("unexpected message %q", httpErr.Message)
	}
}

func TestHandleError_NotFoundGeneric(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("lookup: %w", pgx.ErrNoRows)))
	if httpErr.Status != http.StatusNotFound || httpErr.Message != "Resource not found" {
		t.Fatalf("unexpected error %+v", httpErr)
	}
}

func TestHandleError_PassesThroughHTTPError(t *testing.T) {
	original := errs.NewOwnershipError()
	if got := HandleError(original); got != original {
		t.Fatalf("expected HTTPError to pass through unchanged")
	}
}

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not null",
			pgErr:      &pgconn.PgError{Code: "23502", TableName: "memories", ColumnName: "cover_url"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MEMORY_REQUIRED",
			wantMsg:    "The Cover Url is required",
		},
		{
			name:       "unique",
			pgErr:      &pgconn.PgError{Code: "23505", TableName: "memories", ConstraintName: "memories_cover_key"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MEMORY_ALREADY_EXISTS",
			wantMsg:    "A Memory with this Cover already exists",
		},
		{
			name:       "invalid uuid text",
			pgErr:      &pgconn.PgError{Code: "22P02"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "RECORD_INVALID",
			wantMsg:    "One or more values have an invalid format",
		},
		{
			name:       "unknown",
			pgErr:      &pgconn.PgError{Code: "XX000"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(fmt.Errorf("query: %w", tt.pgErr)))
			if httpErr.Status != tt.wantStatus {
				t.Fatalf("status: want %d, got %d", tt.wantStatus, httpErr.Status)
			}
			if httpErr.Code != tt.wantCode {
				t.Fatalf("code: want %q, got %q", tt.wantCode, httpErr.Code)
			}
			if httpErr.Message != tt.wantMsg {
				t.Fatalf("message: want %q, got %q", tt.wantMsg, httpErr.Message)
			}
		})
	}
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	if httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", httpErr.Status)
	}
}
