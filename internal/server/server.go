// Package server serves a built documentation site and augments its pages
// on the fly.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/explorer-docs/docaug/internal/augment"
	"github.com/explorer-docs/docaug/internal/config"
	"github.com/explorer-docs/docaug/internal/site"
)

// Server is the documentation dev server.
type Server struct {
	cfg        *config.Config
	root       http.FileSystem
	checker    augment.Checker
	log        logrus.FieldLogger
	router     chi.Router
	httpServer *http.Server

	mu         sync.Mutex
	augmenters map[string]*augment.Augmenter
}

// New creates a server for cfg.SiteDir. A nil checker probes the explorer
// over HTTP, caching results for cfg.Explorer.ProbeCacheTTL.
func New(cfg *config.Config, checker augment.Checker, log logrus.FieldLogger) *Server {
	if checker == nil {
		checker = augment.NewCachedProber(
			augment.NewProber(cfg.Explorer.ProbePath, cfg.Explorer.ProbeTimeout),
			cfg.Explorer.ProbeCacheTTL,
		)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		cfg:        cfg,
		root:       http.Dir(cfg.SiteDir),
		checker:    checker,
		log:        log,
		augmenters: make(map[string]*augment.Augmenter),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.Serve.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/*", s.handlePage)
	r.Head("/*", s.handlePage)

	return r
}

// Router returns the HTTP handler.
func (s *Server) Router() chi.Router { return s.router }

// requestLogger logs one line per request with logrus.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start),
			}).Debug("Request")
		})
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	f, info, err := s.open(name)
	if err != nil {
		s.notFound(w, r)
		return
	}
	if info.IsDir() {
		f.Close()
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}
		name = path.Join(name, "index.html")
		if f, info, err = s.open(name); err != nil {
			s.notFound(w, r)
			return
		}
		if info.IsDir() {
			f.Close()
			s.notFound(w, r)
			return
		}
	}
	defer f.Close()

	if path.Ext(name) != ".html" {
		http.ServeContent(w, r, name, info.ModTime(), f)
		return
	}
	s.servePage(w, r, f, http.StatusOK)
}

func (s *Server) open(name string) (http.File, fs.FileInfo, error) {
	f, err := s.root.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, info, nil
}

// notFound serves the site's 404.html when it has one.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	f, info, err := s.open("/404.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, r, f, http.StatusNotFound)
}

// servePage writes an HTML page, augmented when the explorer is reachable
// and unmodified otherwise.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, f io.Reader, status int) {
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "reading page", http.StatusInternalServerError)
		return
	}

	body := data
	if out, err := s.augmentPage(r, data); err != nil {
		if !errors.Is(err, augment.ErrProbeUnreachable) {
			s.log.WithError(err).WithField("path", r.URL.Path).Warn("Serving page unmodified")
		}
	} else if out != nil {
		body = out
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// augmentPage returns the augmented page, or nil when nothing changed.
func (s *Server) augmentPage(r *http.Request, data []byte) ([]byte, error) {
	a, err := s.augmenter(s.cfg.Explorer.ResolveBaseURL(r.Host))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	report, err := a.Run(r.Context(), s.checker, doc)
	if err != nil {
		return nil, err
	}
	if !report.Changed() {
		return nil, nil
	}
	return site.Render(doc)
}

// augmenter returns the augmenter for baseURL, creating it on first use.
func (s *Server) augmenter(baseURL string) (*augment.Augmenter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.augmenters[baseURL]; ok {
		return a, nil
	}
	a, err := augment.New(augment.OptionsFromConfig(s.cfg, baseURL, s.log))
	if err != nil {
		return nil, err
	}
	s.augmenters[baseURL] = a
	return a, nil
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Serve.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.WithFields(logrus.Fields{"addr": addr, "site_dir": s.cfg.SiteDir}).Info("docaug server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
