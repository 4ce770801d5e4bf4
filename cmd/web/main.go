package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"eraleague.org/roster-web/internal/config"
	"eraleague.org/roster-web/internal/i18n"
	mw "eraleague.org/roster-web/internal/middleware"
	"eraleague.org/roster-web/internal/observability"
	"eraleague.org/roster-web/internal/roster"
	"eraleague.org/roster-web/internal/source"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	// devMode reparses templates on every request
	devMode    bool
	tmplCache  *template.Template
	i18nBundle *i18n.Bundle
)

func main() {
	var (
		envFile  string
		tmplPath string
		pubPath  string
	)
	flag.StringVar(&envFile, "env-file", ".env", "dotenv file with configuration overrides")
	flag.StringVar(&tmplPath, "templates", "", "templates directory (overrides ROSTER_TEMPLATES_DIR)")
	flag.StringVar(&pubPath, "public", "", "public assets directory (overrides ROSTER_PUBLIC_DIR)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, config.WithEnvFile(envFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger, tmplPath, pubPath); err != nil {
		logger.Error("web server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, tmplPath, pubPath string) error {
	templatesDir = firstNonEmpty(tmplPath, cfg.Paths.Templates)
	publicDir = firstNonEmpty(pubPath, cfg.Paths.Public)
	devMode = cfg.Server.Dev

	if ephemeral := mw.ConfigureSession(cfg.Server.SessionSigningKey, cfg.Server.Production); ephemeral {
		logger.Warn("session: using ephemeral signing key; set ROSTER_WEB_SESSION_SIGNING_KEY for stable sessions")
	}

	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	i18nBundle = bundle

	if !devMode {
		tc, err := parseTemplates()
		if err != nil {
			return fmt.Errorf("parse templates: %w", err)
		}
		tmplCache = tc
	}

	app := &rosterApp{
		source: source.NewClient(cfg.Roster.DataSource,
			source.WithTimeout(cfg.Roster.FetchTimeout),
			source.WithLogger(logger),
		),
		pages:      roster.NewStore(cfg.Roster.PageTTL, cfg.Roster.MaxPages),
		iconSprite: cfg.Roster.IconSprite,
		location:   cfg.Roster.Location,
		baseURL:    cfg.Server.BaseURL,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(app, logger, cfg.Server.RequestTimeout),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", srv.Addr),
			zap.Bool("dev", devMode),
			zap.String("data_source", cfg.Roster.DataSource),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter assembles the middleware stack and routes.
func newRouter(app *rosterApp, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// RealIP trusts X-Forwarded-For; only run behind a proxy that sets it.
	r.Use(middleware.RealIP)
	r.Use(mw.InjectLogger(logger))
	r.Use(mw.HTMX)
	r.Use(mw.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), "/assets", devMode))

	r.Group(func(r chi.Router) {
		r.Use(mw.Session)
		r.Use(mw.Locale(i18nBundle))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)
		r.Use(mw.NoStore)

		r.Get("/", app.PageHandler)
		r.With(mw.RequireHTMX).Post("/ui/events", app.EventsHandler)
	})
	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		// JSON-LD payloads are produced by seo.JSON, never from user input
		"jsonld": func(s string) template.JS { return template.JS(s) },
	}
	// ParseGlob doesn't support **
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

// renderTemplate executes the named template. In dev mode templates are
// reparsed on each call.
func renderTemplate(w io.Writer, name string, data any) error {
	t := tmplCache
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			return fmt.Errorf("template parse: %w", err)
		}
		t = tc
	}
	if t == nil {
		return errors.New("template not initialized")
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("template exec: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
