package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/go-memories/internal/config"
	"github.com/deppfellow/go-memories/internal/errs"
	"github.com/deppfellow/go-memories/internal/handler"
	"github.com/deppfellow/go-memories/internal/middleware"
	"github.com/deppfellow/go-memories/internal/model"
	"github.com/deppfellow/go-memories/internal/router"
	"github.com/deppfellow/go-memories/internal/server"
	"github.com/deppfellow/go-memories/internal/service"
	"github.com/deppfellow/go-memories/internal/sqlerr"
	"github.com/deppfellow/go-memories/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

// countingRepo is an in-memory MemoryRepository that counts every call.
type countingRepo struct {
	rows  map[string]model.Memory
	order []string
	calls int
	clock time.Time
}

func newCountingRepo() *countingRepo {
	return &countingRepo{rows: map[string]model.Memory{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *countingRepo) List(ctx context.Context) ([]model.Memory, error) {
	r.calls++
	out := make([]model.Memory, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rows[id])
	}
	return out, nil
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	r.calls++
	m, ok := r.rows[id]
	if !ok {
		return nil, sqlerr.WithTable("memory", gorm.ErrRecordNotFound)
	}
	return &m, nil
}

func (r *countingRepo) Create(ctx context.Context, m *model.Memory) error {
	r.calls++
	m.ID = uuid.NewString()
	r.clock = r.clock.Add(time.Second)
	m.CreatedAt = r.clock
	r.rows[m.ID] = *m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *countingRepo) Update(ctx context.Context, id string, in model.MemoryInput) (*model.Memory, error) {
	r.calls++
	m, ok := r.rows[id]
	if !ok {
		return nil, sqlerr.WithTable("memory", gorm.ErrRecordNotFound)
	}
	m.Content, m.CoverURL, m.IsPublic = in.Content, in.CoverURL, in.IsPublic
	r.rows[id] = m
	return &m, nil
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	r.calls++
	if _, ok := r.rows[id]; !ok {
		return sqlerr.WithTable("memory", gorm.ErrRecordNotFound)
	}
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// fakeAuth stands in for RequireAuth: the caller is whatever testUserHeader says.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID := c.Request().Header.Get(testUserHeader); userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		return next(c)
	}
}

func newTestRouter(t *testing.T) (*echo.Echo, *countingRepo) {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Observability: config.DefaultObservabilityConfig()},
		Logger: &logger,
	}

	repo := newCountingRepo()
	h := handler.NewMemoryHandler(s, service.NewMemoryService(repo, nil, &logger))

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	router.RegisterMemoryRoutes(e.Group("/memories", fakeAuth), h)
	return e, repo
}

func do(e *echo.Echo, method, path, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func create(t *testing.T, e *echo.Echo, user, body string) model.Memory {
	t.Helper()
	rec := do(e, http.MethodPost, "/memories", user, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	return decode[model.Memory](t, rec)
}

func TestCreateThenList(t *testing.T) {
	e, _ := newTestRouter(t)

	m := create(t, e, "user_a", `{"content":"hello","coverUrl":"http://x/y.png"}`)
	if m.IsPublic {
		t.Fatal("isPublic should default to false")
	}
	if m.UserID != "user_a" {
		t.Fatalf("expected owner user_a, got %q", m.UserID)
	}

	rec := do(e, http.MethodGet, "/memories", "user_b", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	list := decode[[]model.MemorySummary](t, rec)
	if len(list) != 1 || list[0].Excerpt != "hello..." || list[0].CoverURL != "http://x/y.png" || list[0].ID != m.ID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestListResponseShape(t *testing.T) {
	e, _ := newTestRouter(t)
	create(t, e, "user_a", `{"content":"hello","coverUrl":"c"}`)

	rec := do(e, http.MethodGet, "/memories", "user_a", "")
	items := decode[[]map[string]any](t, rec)
	if len(items) != 1 || len(items[0]) != 3 {
		t.Fatalf("expected exactly id, coverUrl, excerpt; got %v", items)
	}
	for _, key := range []string{"id", "coverUrl", "excerpt"} {
		if _, ok := items[0][key]; !ok {
			t.Fatalf("missing %q in %v", key, items[0])
		}
	}
}

func TestListOrdering(t *testing.T) {
	e, _ := newTestRouter(t)
	a := create(t, e, "user_a", `{"content":"a","coverUrl":"c"}`)
	b := create(t, e, "user_b", `{"content":"b","coverUrl":"c"}`)

	list := decode[[]model.MemorySummary](t, do(e, http.MethodGet, "/memories", "user_a", ""))
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("expected creation order, got %+v", list)
	}
}

func TestGetAfterCreate(t *testing.T) {
	e, _ := newTestRouter(t)
	m := create(t, e, "user_a", `{"content":"hi","coverUrl":"http://x/y.png","isPublic":true}`)

	rec := do(e, http.MethodGet, "/memories/"+m.ID, "user_b", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	got := decode[model.Memory](t, rec)
	if got.Content != "hi" || got.CoverURL != "http://x/y.png" || !got.IsPublic {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestGetInvalidUUID_NoPersistenceCall(t *testing.T) {
	e, repo := newTestRouter(t)

	rec := do(e, http.MethodGet, "/memories/not-a-uuid", "user_a", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}

	body := decode[errs.HTTPError](t, rec)
	if len(body.Errors) != 1 || body.Errors[0].Field != "id" {
		t.Fatalf("unexpected field errors %+v", body.Errors)
	}
}

func TestGetMissing(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/memories/"+uuid.NewString(), "user_a", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decode[errs.HTTPError](t, rec); body.Message != "Memory not found" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing content", body: `{"coverUrl":"c"}`, field: "content"},
		{name: "missing coverUrl", body: `{"content":"x"}`, field: "coverUrl"},
		{name: "null content", body: `{"content":null,"coverUrl":"c"}`, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo := newTestRouter(t)

			rec := do(e, http.MethodPost, "/memories", "user_a", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			body := decode[errs.HTTPError](t, rec)
			if len(body.Errors) != 1 || body.Errors[0].Field != tt.field {
				t.Fatalf("unexpected field errors %+v", body.Errors)
			}
			if repo.calls != 0 {
				t.Fatal("invalid body must not reach the repository")
			}
		})
	}
}

func TestCreateMalformedBody(t *testing.T) {
	e, repo := newTestRouter(t)

	for _, body := range []string{`{"content":`, `{"content":5,"coverUrl":"c"}`, `[]`} {
		rec := do(e, http.MethodPost, "/memories", "user_a", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		if msg := decode[errs.HTTPError](t, rec).Message; msg != validation.InvalidBodyMessage {
			t.Fatalf("%s: expected stable message, got %q", body, msg)
		}
	}
	if repo.calls != 0 {
		t.Fatal("malformed body must not reach the repository")
	}
}

func TestCreateEmptyContentAllowed(t *testing.T) {
	e, _ := newTestRouter(t)

	m := create(t, e, "user_a", `{"content":"","coverUrl":""}`)
	if m.Content != "" {
		t.Fatalf("unexpected content %q", m.Content)
	}
}

func TestCreateIsPublicCoercion(t *testing.T) {
	e, _ := newTestRouter(t)

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: `"yes"`, want: true},
		{raw: `1`, want: true},
		{raw: `0`, want: false},
		{raw: `""`, want: false},
		{raw: `null`, want: false},
	}
	for _, tt := range tests {
		m := create(t, e, "user_a", `{"content":"x","coverUrl":"c","isPublic":`+tt.raw+`}`)
		if m.IsPublic != tt.want {
			t.Fatalf("isPublic %s: got %v, want %v", tt.raw, m.IsPublic, tt.want)
		}
	}
}

func TestCreateRequiresCaller(t *testing.T) {
	e, repo := newTestRouter(t)

	rec := do(e, http.MethodPost, "/memories", "", `{"content":"x","coverUrl":"c"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if repo.calls != 0 {
		t.Fatal("anonymous create must not reach the repository")
	}
}

func TestUpdate(t *testing.T) {
	e, _ := newTestRouter(t)
	m := create(t, e, "user_a", `{"content":"before","coverUrl":"c"}`)

	body := `{"content":"after","coverUrl":"d","isPublic":true}`
	first := do(e, http.MethodPut, "/memories/"+m.ID, "user_a", body)
	second := do(e, http.MethodPut, "/memories/"+m.ID, "user_a", body)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}

	a, b := decode[model.Memory](t, first), decode[model.Memory](t, second)
	if a.Content != "after" || a.CoverURL != "d" || !a.IsPublic {
		t.Fatalf("unexpected update %+v", a)
	}
	if a.Content != b.Content || a.CoverURL != b.CoverURL || a.IsPublic != b.IsPublic || a.UserID != b.UserID {
		t.Fatalf("repeated update diverged: %+v vs %+v", a, b)
	}
	if a.UserID != "user_a" || a.ID != m.ID || !a.CreatedAt.Equal(m.CreatedAt) {
		t.Fatalf("immutable fields changed: %+v", a)
	}
}

func TestUpdateNonOwner(t *testing.T) {
	e, _ := newTestRouter(t)
	m := create(t, e, "user_a", `{"content":"mine","coverUrl":"c"}`)

	rec := do(e, http.MethodPut, "/memories/"+m.ID, "user_b", `{"content":"stolen","coverUrl":"c"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}

	got := decode[model.Memory](t, do(e, http.MethodGet, "/memories/"+m.ID, "user_a", ""))
	if got.Content != "mine" {
		t.Fatalf("record changed: %+v", got)
	}
}

func TestUpdateMissing(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPut, "/memories/"+uuid.NewString(), "user_a", `{"content":"x","coverUrl":"c"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	e, _ := newTestRouter(t)
	m := create(t, e, "user_a", `{"content":"bye","coverUrl":"c"}`)

	rec := do(e, http.MethodDelete, "/memories/"+m.ID, "user_b", "")
	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("non-owner: expected empty 401, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodDelete, "/memories/"+m.ID, "user_a", "")
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("owner: expected empty 200, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/memories/"+m.ID, "user_a", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDeleteInvalidUUID(t *testing.T) {
	e, repo := newTestRouter(t)

	rec := do(e, http.MethodDelete, "/memories/123", "user_a", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if repo.calls != 0 {
		t.Fatal("invalid id must not reach the repository")
	}
}

func TestUppercaseIDResolvesSameMemory(t *testing.T) {
	e, _ := newTestRouter(t)
	m := create(t, e, "user_a", `{"content":"case","coverUrl":"c"}`)
	upper := "/memories/" + strings.ToUpper(m.ID)

	rec := do(e, http.MethodGet, upper, "user_a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.Memory](t, rec); got.ID != m.ID {
		t.Fatalf("expected id %s, got %s", m.ID, got.ID)
	}

	rec = do(e, http.MethodPut, upper, "user_a", `{"content":"CASE","coverUrl":"c"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, upper, "user_a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
}

func TestGetUppercaseMissing(t *testing.T) {
	e, repo := newTestRouter(t)

	rec := do(e, http.MethodGet, "/memories/"+strings.ToUpper(uuid.NewString()), "user_a", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}
}
