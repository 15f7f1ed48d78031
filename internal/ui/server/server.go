// Package server serves the portfolio page, its browser assets and the
// contact API.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Its-donkey/folio/internal/config"
	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/contact/api"
	"github.com/Its-donkey/folio/internal/contact/notify"
	"github.com/Its-donkey/folio/internal/contact/store"
	"github.com/Its-donkey/folio/internal/site/content"
	"github.com/Its-donkey/folio/internal/site/markup"
	"github.com/Its-donkey/folio/logging"
)

const shutdownTimeout = 5 * time.Second

// Options configures the page server. Zero fields are filled from Config.
type Options struct {
	Config    config.Config
	Logger    *logging.Logger
	Store     store.Store
	Notifier  notify.Notifier
	Site      *content.Site
	Templates map[string]*template.Template
	// LogPath is the server log file exposed through /api/logs.
	LogPath string
	Now     func() time.Time
}

// Server is the assembled HTTP handler plus the resources it owns.
type Server struct {
	handler   http.Handler
	assetsDir string
	templates map[string]*template.Template
	site      content.Site
	appName   string
	mode      string
	logger    *logging.Logger
	now       func() time.Time
	store     store.Store
	ownsStore bool
}

type homePageData struct {
	PageTitle       string
	StylesheetPath  string
	CurrentYear     int
	Site            content.Site
	ContactMode     string
	ContactEndpoint string
}

// New loads content and templates, opens the contact store and checks the
// rendered page against the markup the browser layer needs.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(cfg.App.Name, logging.ParseLevel(cfg.App.LogLevel))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	site := opts.Site
	if site == nil {
		loaded, err := content.Load(cfg.App.Content)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		site = &loaded
	}

	tmpl := opts.Templates
	if tmpl == nil {
		root, err := filepath.Abs(cfg.App.Templates)
		if err != nil {
			return nil, fmt.Errorf("resolve templates dir: %w", err)
		}
		tmpl, err = loadTemplates(root)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
	}

	assetsPath, err := filepath.Abs(cfg.App.Assets)
	if err != nil {
		return nil, fmt.Errorf("resolve assets dir: %w", err)
	}

	s := &Server{
		assetsDir: assetsPath,
		templates: tmpl,
		site:      *site,
		appName:   cfg.App.Name,
		mode:      cfg.Contact.Mode,
		logger:    logger,
		now:       now,
		store:     opts.Store,
	}

	if s.store == nil {
		s.store, err = store.Open(cfg.Contact.Driver, cfg.Contact.Path)
		if err != nil {
			return nil, fmt.Errorf("open contact store: %w", err)
		}
		s.ownsStore = true
	}

	if err := s.verifyMarkup(); err != nil {
		s.Close()
		return nil, err
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = mailerFromConfig(cfg)
	}
	contactAPI, err := api.New(api.Options{
		Store:      s.store,
		Notifier:   notifier,
		Logger:     logger,
		AdminToken: cfg.Contact.AdminToken,
		LogPath:    opts.LogPath,
		Salt:       cfg.Contact.Salt,
		Now:        now,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.Handle("/styles.css", s.assetHandler("styles.css", "text/css; charset=utf-8"))
	mux.Handle("/wasm_exec.js", s.assetHandler("wasm_exec.js", "application/javascript"))
	mux.Handle("/main.wasm", s.assetHandler("main.wasm", "application/wasm"))
	mux.Handle("/api/", contactAPI.Router())
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	quiet := []string{"/styles.css", "/wasm_exec.js", "/main.wasm", "/favicon.ico", "/api/health"}
	s.handler = logging.NewHTTPLogger(logger, quiet...).Middleware(mux)
	return s, nil
}

func mailerFromConfig(cfg config.Config) notify.Notifier {
	m := &notify.Mailer{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
		SiteName: cfg.App.Name,
	}
	if !m.Configured() {
		return notify.Nop{}
	}
	return m
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Close releases the contact store when the server opened it.
func (s *Server) Close() error {
	if s.ownsStore && s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Server) verifyMarkup() error {
	var buf bytes.Buffer
	if err := s.renderHome(&buf); err != nil {
		return fmt.Errorf("render home: %w", err)
	}
	if err := markup.Verify(&buf); err != nil {
		return fmt.Errorf("verify home markup: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, listen string, opts Options) error {
	srv, err := New(opts)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	srv.logger.Info("general", "serving site", map[string]any{
		"addr": "http://" + listen,
		"site": srv.site.Owner,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

func (s *Server) pageData() homePageData {
	title := s.site.Title
	if title == "" {
		title = s.appName
	}
	return homePageData{
		PageTitle:       title,
		StylesheetPath:  "/styles.css",
		CurrentYear:     s.now().Year(),
		Site:            s.site,
		ContactMode:     s.mode,
		ContactEndpoint: contact.DefaultEndpoint,
	}
}
