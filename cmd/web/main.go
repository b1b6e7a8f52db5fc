// cmd/web/main.go
//
// Public website service – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (.env → conf/global.yaml → PHOTOPROOS_ env, vault: refs
//     resolved).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the database pool and the GeoLite2 reader.
//
//  4. Build the read path: site.Store → sitecache.Store → resolve.Resolver,
//     then the pipeline, gate service, form set, grant issuer, and layouts.
//
//  5. Mount components, /metrics, and /healthz on one chi router.
//
//  6. Serve until SIGINT/SIGTERM, then drain.
//
// Request life-cycle
// ------------------
//
//     • request id + access log     – chi RequestID, middleware.RequestLog
//     • panic recovery              – chi Recoverer
//     • security headers            – middleware.Security
//     • custom-domain rewrite       – routing.DomainRewrite
//     • component route             – components/website, components/gates
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/component"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/compose"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/config"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/database"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/gate"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/logger"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/message"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/middleware"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/publish"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/render"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/requestinfo"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/resolve"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/routing"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/server"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/sitecache"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"

	_ "github.com/EstateFlowDigital/photoproos-sub004/components/gates"
	_ "github.com/EstateFlowDigital/photoproos-sub004/components/website"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	slog, err := logger.New(logger.Options{
		Root: cfg.Paths.Root, Dir: cfg.Log.Dir, Level: cfg.Log.Level, Tee: runningInTTY(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = slog.Sync() }()
	zl := slog.Desugar()

	//
	// ── 1.  Database and GeoIP ─────────────────────────────────────────
	//
	opts := database.DefaultOptions
	opts.MaxOpenConns, opts.MaxIdleConns = cfg.Database.MaxOpen, cfg.Database.MaxIdle
	db, err := database.OpenWithOptions(ctx, cfg.Database.Driver, cfg.DSN(), opts)
	if err != nil {
		slog.Fatalw("connect database", "driver", cfg.Database.Driver, "err", err)
	}
	defer db.Close()
	slog.Infow("database online", "driver", cfg.Database.Driver)

	if err := requestinfo.InitGeo(cfg.Publish.GeoIPDB); err != nil {
		slog.Warnw("geoip disabled", "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 2.  Read path and services ─────────────────────────────────────
	//
	store := site.NewStore(db)
	cached := sitecache.NewStore(store, cfg.Publish.CacheTTL, cfg.Publish.CacheMaxEntries)
	defer cached.Close()
	sites := resolve.New(cached, zl)

	forms, err := form.LoadDefaults(form.NewGuard(cfg.Publish.CSRFKey))
	if err != nil {
		slog.Fatalw("load form definitions", "err", err)
	}
	dispatcher, err := render.New(zl)
	if err != nil {
		slog.Fatalw("parse section templates", "err", err)
	}
	views, err := view.New()
	if err != nil {
		slog.Fatalw("parse layouts", "err", err)
	}

	issuer := grant.NewIssuer(cfg.Publish.GrantSecret)
	slog.Infow("gate grants", "signed", issuer.Signed())

	deps := component.Deps{
		Pipeline: publish.New(publish.Deps{
			Sites:      sites,
			Content:    cached,
			Composer:   compose.New(zl),
			Dispatcher: dispatcher,
			Forms:      forms,
			Logger:     zl,
			BaseURL:    cfg.Publish.BaseURL,
		}),
		Gates: gate.NewService(gate.Deps{
			Sites:    sites,
			Leads:    store,
			Business: cached,
			Sections: cached,
			Notifier: message.Log{L: zl},
			Logger:   zl,
		}),
		Grants: issuer,
		Forms:  forms,
		Views:  views,
		Logger: zl,
	}

	//
	// ── 3.  Router ─────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		middleware.RequestLog(zl),
		chimw.Recoverer,
		middleware.Security,
		routing.DomainRewrite(cfg.HTTP.PlatformHosts),
	)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			zl.Warn("healthz: database unreachable", zap.Error(err))
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	if err := component.Mount(r, deps, component.All()...); err != nil {
		slog.Fatalw("mount components", "err", err)
	}

	var root http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		root = middleware.ForceHTTPS(root)
	}

	//
	// ── 4.  Serve ──────────────────────────────────────────────────────
	//
	if err := server.Run(ctx, server.New(cfg.HTTP, root)); err != nil {
		slog.Fatalw("http server", "err", err)
	}
	slog.Infow("shutdown complete")
}
