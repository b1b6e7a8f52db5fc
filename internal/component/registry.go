// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each HTTP surface lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it serves, builds one Deps value, and calls Mount, which
// runs every Init and copies each component's routes onto the root
// router.
//
// Components only see Deps, never cmd/web, so adding one is an import
// line plus a package.

package component

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/gate"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/publish"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

// Deps is what components receive at Init.
type Deps struct {
	Pipeline *publish.Pipeline
	Gates    *gate.Service
	Grants   *grant.Issuer
	Forms    *form.Set
	Views    *view.Renderer
	Logger   *zap.Logger
}

// Initializer is called once, before Routes.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes() returns full paths; Mount copies them onto the root router, so
// two components may share a prefix such as /api:
//
//	r := chi.NewRouter()
//	r.Get("/portfolio/{slug}", c.page)
//	r.Post("/api/{kind}/password", c.password)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Initializer
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises comps with d and registers their routes on r.
func Mount(r chi.Router, d Deps, comps ...Component) error {
	for _, c := range comps {
		if err := c.Init(d); err != nil {
			return fmt.Errorf("component %s: init: %w", c.Name(), err)
		}
		err := chi.Walk(c.Routes(), func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
			r.With(mws...).Method(method, route, h)
			return nil
		})
		if err != nil {
			return fmt.Errorf("component %s: routes: %w", c.Name(), err)
		}
		if d.Logger != nil {
			d.Logger.Info("component mounted", zap.String("name", c.Name()))
		}
	}
	return nil
}

// Respond writes a pipeline outcome through views.  If the layout fails to
// render a bare 500 goes out instead.
func Respond(views *view.Renderer, w http.ResponseWriter, r *http.Request, out publish.Outcome) {
	if err := views.Render(w, out.Status, out.Layout, out.Data); err != nil {
		zap.L().Error("render layout",
			zap.String("layout", out.Layout),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
