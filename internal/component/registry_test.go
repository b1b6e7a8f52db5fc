package component

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name, path string
	inited     bool
}

func (s *stub) Name() string { return s.name }
func (s *stub) Init(Deps) error { s.inited = true; return nil }
func (s *stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(s.path, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(s.name)) })
	return r
}

func TestMountSharesPrefixes(t *testing.T) {
	a := &stub{name: "a", path: "/api/{kind}/password"}
	b := &stub{name: "b", path: "/api/{kind}/lead"}

	root := chi.NewRouter()
	require.NoError(t, Mount(root, Deps{}, a, b))
	assert.True(t, a.inited)
	assert.True(t, b.inited)

	for path, want := range map[string]string{"/api/property/password": "a", "/api/property/lead": "b"} {
		rec := httptest.NewRecorder()
		root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestAllSorted(t *testing.T) {
	Register(&stub{name: "zz"})
	Register(&stub{name: "aa"})
	names := []string{}
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.IsIncreasing(t, names)
}
