package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"proyectos/internal/models"
	"proyectos/internal/storage"
	"proyectos/internal/storage/sqlite"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"), quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, quietLogger(), "", NewMetrics())
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
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

func TestProjectLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/proyectos", map[string]string{
		"nombre":      "Website Redesign",
		"descripcion": "Q3 revamp",
		"imagen":      "/assets/predeterminadas/image2.jpg",
		"fecha":       "2026-10-19T09:00:00.000Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	created := decode[models.Project](t, rec)
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	raw := decode[map[string]any](t, rec)
	if raw["id"] != created.ID {
		t.Errorf("id alias = %v, want %q", raw["id"], created.ID)
	}

	rec = do(t, srv, http.MethodGet, "/api/proyectos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[[]models.Project](t, rec)
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if list[0] != created {
		t.Errorf("list[0] = %+v, want %+v", list[0], created)
	}

	rec = do(t, srv, http.MethodDelete, "/api/proyectos/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	msg := decode[map[string]string](t, rec)
	if msg["message"] != "Proyecto eliminado" {
		t.Errorf("delete message = %q", msg["message"])
	}

	rec = do(t, srv, http.MethodGet, "/api/proyectos", nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("list after delete = %s, want []", body)
	}

	rec = do(t, srv, http.MethodGet, "/api/proyectos/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateProject_MissingField(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/proyectos", map[string]string{"nombre": "No description"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg == "" {
		t.Error("expected a message")
	}

	list := decode[[]models.Project](t, do(t, srv, http.MethodGet, "/api/proyectos", nil))
	if len(list) != 0 {
		t.Errorf("len(list) = %d, want 0", len(list))
	}
}

func TestCreateProject_MalformedBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/proyectos", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateProject(t *testing.T) {
	srv := newTestServer(t)
	created := decode[models.Project](t, do(t, srv, http.MethodPost, "/api/proyectos", map[string]string{
		"nombre": "Old", "descripcion": "Keep",
	}))

	rec := do(t, srv, http.MethodPut, "/api/proyectos/"+created.ID, map[string]string{"nombre": "New"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decode[models.Project](t, rec)
	if updated.ID != created.ID || updated.Name != "New" || updated.Description != "Keep" {
		t.Errorf("updated = %+v", updated)
	}

	rec = do(t, srv, http.MethodPut, "/api/proyectos/"+created.ID, map[string]string{"nombre": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
}

func TestUpdateProject_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/proyectos/missing", map[string]string{"nombre": "x", "descripcion": "y"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Proyecto no encontrado" {
		t.Errorf("message = %q", msg)
	}
	list := decode[[]models.Project](t, do(t, srv, http.MethodGet, "/api/proyectos", nil))
	if len(list) != 0 {
		t.Errorf("update created a record: %+v", list)
	}
}

func TestDeleteProject_NotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodDelete, "/api/proyectos/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

type brokenStore struct{}

var errBroken = errors.New("store offline")

func (brokenStore) ListProjects(context.Context) ([]models.Project, error) { return nil, errBroken }
func (brokenStore) CreateProject(context.Context, models.Project) (models.Project, error) {
	return models.Project{}, errBroken
}
func (brokenStore) GetProject(context.Context, string) (models.Project, error) {
	return models.Project{}, errBroken
}
func (brokenStore) UpdateProject(context.Context, string, models.ProjectPatch) (models.Project, error) {
	return models.Project{}, errBroken
}
func (brokenStore) DeleteProject(context.Context, string) error { return errBroken }
func (brokenStore) Ping(context.Context) error                  { return errBroken }
func (brokenStore) Close() error                                { return nil }

var _ storage.ProjectStore = brokenStore{}

func TestStoreFailures(t *testing.T) {
	srv := New(brokenStore{}, quietLogger(), "", nil)

	tests := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/proyectos", nil, http.StatusInternalServerError},
		{http.MethodGet, "/api/proyectos/abc", nil, http.StatusInternalServerError},
		{http.MethodDelete, "/api/proyectos/abc", nil, http.StatusInternalServerError},
		{http.MethodPost, "/api/proyectos", map[string]string{"nombre": "a", "descripcion": "b"}, http.StatusBadRequest},
		{http.MethodPut, "/api/proyectos/abc", map[string]string{"nombre": "a"}, http.StatusBadRequest},
		{http.MethodGet, "/api/healthz", nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		rec := do(t, srv, tt.method, tt.path, tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
		if msg := decode[map[string]string](t, rec)["message"]; msg != errBroken.Error() {
			t.Errorf("%s %s message = %q", tt.method, tt.path, msg)
		}
	}
}

func TestHealthAndBanner(t *testing.T) {
	srv := newTestServer(t)

	if rec := do(t, srv, http.MethodGet, "/api/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	rec := do(t, srv, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "API funcionando" {
		t.Errorf("banner = %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodOptions, "/api/proyectos", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/proyectos", map[string]string{"nombre": "m", "descripcion": "d"})

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"proyectos_projects_created_total 1", "proyectos_http_requests_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	images := filepath.Join(dir, "assets", "predeterminadas")
	if err := os.MkdirAll(images, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(images, "image1.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	srv := New(store, quietLogger(), dir, nil)

	rec := do(t, srv, http.MethodGet, "/progreso", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "spa") {
		t.Errorf("spa fallback = %d %q", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown api status = %d, want 404", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Ruta no encontrada" {
		t.Errorf("unknown api message = %q", msg)
	}
	rec = do(t, srv, http.MethodGet, "/assets/predeterminadas/image1.jpg", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "jpg" {
		t.Errorf("default image = %d %q", rec.Code, rec.Body.String())
	}
}

func TestStaticMissingBuildServesBanner(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, dir := range []string{filepath.Join(t.TempDir(), "missing"), t.TempDir()} {
		srv := New(store, quietLogger(), dir, nil)
		rec := do(t, srv, http.MethodGet, "/", nil)
		if rec.Code != http.StatusOK || rec.Body.String() != "API funcionando" {
			t.Errorf("dir %s: root = %d %q", dir, rec.Code, rec.Body.String())
		}
	}
}
