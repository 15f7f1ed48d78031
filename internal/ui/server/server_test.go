package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Its-donkey/folio/internal/config"
	"github.com/Its-donkey/folio/internal/contact/notify"
	"github.com/Its-donkey/folio/internal/site/markup"
	"github.com/Its-donkey/folio/logging"
	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const repoRoot = "../../.."

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.App.Templates = filepath.Join(repoRoot, "ui", "templates")
	cfg.App.Content = filepath.Join(repoRoot, "ui", "content.yaml")
	cfg.Contact.Path = filepath.Join(t.TempDir(), "messages.json")
	cfg.Contact.AdminToken = "s3cret"

	assets := t.TempDir()
	if err := os.WriteFile(filepath.Join(assets, "styles.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write styles: %v", err)
	}
	cfg.App.Assets = assets
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config) (*Server, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	srv, err := New(Options{
		Config:   cfg,
		Logger:   logging.New("server-test", logging.DEBUG, &buf),
		Notifier: notify.Nop{},
		Now:      func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv, &buf
}

func TestHomeRendersMarkupContract(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if err := markup.Verify(strings.NewReader(body)); err != nil {
		t.Fatalf("rendered page breaks markup contract: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if got := doc.Find("#currentYear").Text(); got != "2026" {
		t.Fatalf("expected server-rendered year 2026, got %q", got)
	}
	if got := doc.Find(".progress-bar").Length(); got != 4 {
		t.Fatalf("expected 4 progress bars, got %d", got)
	}
	if got, _ := doc.Find(".progress-bar").First().Attr("data-width"); got != "95" {
		t.Fatalf("expected first skill width 95, got %q", got)
	}
	if got := doc.Find(".shape").Length(); got != 4 {
		t.Fatalf("expected 4 shapes, got %d", got)
	}
	if got := doc.Find(`#contactForm button[type="submit"]`).Text(); got != "Send Message" {
		t.Fatalf("unexpected submit label %q", got)
	}
	if got, _ := doc.Find("body").Attr("data-contact-endpoint"); got != "/api/contact" {
		t.Fatalf("unexpected contact endpoint %q", got)
	}
}

func TestUnknownPathsAndMethods(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestServesAssetsAndContactAPI(t *testing.T) {
	srv, logs := newTestServer(t, testConfig(t))

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("unexpected stylesheet response %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(logging.RequestIDHeader) == "" {
		t.Fatalf("expected request id on API responses")
	}
	if !strings.Contains(logs.String(), "POST /api/contact 202") {
		t.Fatalf("expected request logged, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), "contact message stored") {
		t.Fatalf("expected contact log entry, got %s", logs.String())
	}
}

func TestNewFailsFastOnBrokenMarkup(t *testing.T) {
	cfg := testConfig(t)
	broken := template.Must(template.New("home").Parse(`{{define "base"}}<html><body><div class="navbar"></div></body></html>{{end}}`))

	_, err := New(Options{
		Config:    cfg,
		Logger:    logging.New("server-test", logging.ERROR, &bytes.Buffer{}),
		Templates: map[string]*template.Template{"home": broken},
	})
	if !errors.Is(err, markup.ErrContractBroken) {
		t.Fatalf("expected markup contract error, got %v", err)
	}
	if !strings.Contains(err.Error(), ".preloader") {
		t.Fatalf("expected missing selectors named, got %v", err)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, addr, Options{Config: cfg, Logger: logging.New("server-test", logging.ERROR, &bytes.Buffer{})})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected health 200, got %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
