package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"proyectos/internal/models"
	"proyectos/internal/server"
	"proyectos/internal/storage/sqlite"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAPI(t *testing.T) *Client {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "client.db"), quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(server.New(store, quietLogger(), "", nil).Engine())
	t.Cleanup(ts.Close)
	return New(ts.URL+"/api", WithHTTPClient(ts.Client()), WithLogger(quietLogger()))
}

func TestClient_CRUD(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	created := c.CreateProject(ctx, models.Project{Name: "Website Redesign", Description: "Q3 revamp"})
	if !created.OK() {
		t.Fatalf("CreateProject: %s %s", created.Reason, created.Message)
	}
	if created.Value.ID == "" {
		t.Fatal("expected id")
	}

	got := c.GetProject(ctx, created.Value.ID)
	if !got.OK() || got.Value != created.Value {
		t.Errorf("GetProject = %+v", got)
	}

	name := "Renamed"
	updated := c.UpdateProject(ctx, created.Value.ID, models.ProjectPatch{Name: &name})
	if !updated.OK() || updated.Value.Name != "Renamed" {
		t.Errorf("UpdateProject = %+v", updated)
	}

	if !c.DeleteOK(ctx, created.Value.ID) {
		t.Fatal("DeleteOK = false")
	}
	if res := c.GetProject(ctx, created.Value.ID); res.Reason != ReasonNotFound {
		t.Errorf("Reason after delete = %s, want not_found", res.Reason)
	}
}

func TestClient_ReasonsAreDistinguishable(t *testing.T) {
	c := newAPI(t)
	ctx := context.Background()

	if res := c.CreateProject(ctx, models.Project{Name: "only name"}); res.Reason != ReasonValidation {
		t.Errorf("create invalid reason = %s, want validation", res.Reason)
	}
	if res := c.DeleteProject(ctx, "missing"); res.Reason != ReasonNotFound {
		t.Errorf("delete missing reason = %s, want not_found", res.Reason)
	}
	name := "x"
	if res := c.UpdateProject(ctx, "missing", models.ProjectPatch{Name: &name}); res.Reason != ReasonNotFound {
		t.Errorf("update missing reason = %s, want not_found", res.Reason)
	}
	if res := c.DeleteProject(ctx, "missing"); res.Message != "Proyecto no encontrado" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(url+"/api", WithLogger(quietLogger()))
	ctx := context.Background()

	if res := c.ListProjects(ctx); res.Reason != ReasonTransport {
		t.Errorf("reason = %s, want transport", res.Reason)
	}
	if list := c.ListOrEmpty(ctx); list == nil || len(list) != 0 {
		t.Errorf("ListOrEmpty = %#v, want empty non-nil slice", list)
	}
	if p := c.CreateOrNil(ctx, models.Project{Name: "a", Description: "b"}); p != nil {
		t.Errorf("CreateOrNil = %+v, want nil", p)
	}
	if c.DeleteOK(ctx, "x") {
		t.Error("DeleteOK = true, want false")
	}
}

func TestClient_ServerFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"message":"database down"}`)
	}))
	defer ts.Close()

	res := New(ts.URL, WithLogger(quietLogger())).ListProjects(context.Background())
	if res.Reason != ReasonServer {
		t.Errorf("reason = %s, want server", res.Reason)
	}
	if res.Message != "database down" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestClient_BadPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer ts.Close()

	res := New(ts.URL, WithLogger(quietLogger())).ListProjects(context.Background())
	if res.Reason != ReasonServer {
		t.Errorf("reason = %s, want server", res.Reason)
	}
}

func TestReasonString(t *testing.T) {
	if got := Reason(42).String(); got != "reason(42)" {
		t.Errorf("String() = %q", got)
	}
}
