package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
)

func (s *Server) assetHandler(name, contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.assetsDir, name)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, path)
	})
}

func (s *Server) renderHome(w io.Writer) error {
	tmpl := s.templates["home"]
	if tmpl == nil {
		return errors.New("template missing")
	}
	return tmpl.ExecuteTemplate(w, "base", s.pageData())
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := s.renderHome(&buf); err != nil {
		s.logger.Error("general", "failed to render home", err, nil)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
