package sonar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSonar is a minimal in-memory SonarQube project API
type fakeSonar struct {
	projects map[string]string // key -> name
	creates  int
	renames  int
	updates  int
}

func newFakeSonar() *fakeSonar {
	return &fakeSonar{projects: make(map[string]string)}
}

func (f *fakeSonar) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/search", func(w http.ResponseWriter, r *http.Request) {
		total := 0
		if _, ok := f.projects[r.URL.Query().Get("projects")]; ok {
			total = 1
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"paging":{"total":%d}}`, total)
	})
	mux.HandleFunc("POST /api/projects/create", func(w http.ResponseWriter, r *http.Request) {
		key := r.FormValue("project")
		if _, ok := f.projects[key]; ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"msg":"key already exists"}]}`))
			return
		}
		f.projects[key] = r.FormValue("name")
		f.creates++
	})
	mux.HandleFunc("POST /api/project_branches/rename", func(w http.ResponseWriter, r *http.Request) {
		f.renames++
	})
	mux.HandleFunc("POST /api/projects/update", func(w http.ResponseWriter, r *http.Request) {
		f.projects[r.FormValue("project")] = r.FormValue("name")
		f.updates++
	})
	return mux
}

func TestEnsureProjectCreatesOnce(t *testing.T) {
	fake := newFakeSonar()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	reg := NewRegistrar(NewClient(srv.URL, "token", zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	created, err := reg.EnsureProject(ctx, "acme_widgets", "acme-widgets")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = reg.EnsureProject(ctx, "acme_widgets", "acme-widgets")
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, "acme-widgets", fake.projects["acme_widgets"])
}

func TestEnsureProjectCreateFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/projects/search" {
			w.Write([]byte(`{"paging":{"total":0}}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	reg := NewRegistrar(NewClient(srv.URL, "token", zap.NewNop()), zap.NewNop())
	_, err := reg.EnsureProject(context.Background(), "k", "n")
	assert.Error(t, err)
}

func TestSyncDefaultBranchSwallowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := NewRegistrar(NewClient(srv.URL, "token", zap.NewNop()), zap.NewNop())
	// must not panic or propagate anything
	reg.SyncDefaultBranch(context.Background(), "acme_widgets", "main")
	reg.MarkConfigOnly(context.Background(), "acme_widgets", "acme-widgets")
}

func TestMarkConfigOnlySuffixesDisplayName(t *testing.T) {
	fake := newFakeSonar()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	reg := NewRegistrar(NewClient(srv.URL, "token", zap.NewNop()), zap.NewNop())
	reg.MarkConfigOnly(context.Background(), "acme_loadtest", "acme-loadtest")

	assert.Equal(t, 1, fake.updates)
	assert.Equal(t, "acme-loadtest (config-only)", fake.projects["acme_loadtest"])
}

func TestProjectExistsRetriesTransientFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"paging":{"total":1}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", zap.NewNop())
	exists, err := c.ProjectExists(context.Background(), "acme_widgets")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 2, attempts)
}
