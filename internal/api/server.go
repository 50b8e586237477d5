// Package api serves the JSON API, the marketing pages and stored images.
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/blob"
	"github.com/markremodeling/renovation/internal/contact"
	"github.com/markremodeling/renovation/internal/db"
	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/pkg/analyzer"
	"github.com/markremodeling/renovation/pkg/assistant"
	"github.com/markremodeling/renovation/pkg/catalog"
	"github.com/markremodeling/renovation/pkg/processing"
)

// BlobStore is a blob.Store that can also serve its files
type BlobStore interface {
	blob.Store
	Handler() http.Handler
}

// LeadLister reads stored contact submissions
type LeadLister interface {
	ListLeads(ctx context.Context, limit int) ([]db.Lead, error)
}

// Options wires a Server. Assistant, Contact and Blobs are required.
type Options struct {
	Assistant     *assistant.Assistant
	Contact       *contact.Service
	Leads         LeadLister
	Blobs         BlobStore
	Analyzer      *analyzer.ImageAnalyzer
	Processor     *processing.Processor
	Company       catalog.Company
	AdminToken    string
	ThumbnailSize int
	Logger        *zap.Logger
}

type Server struct {
	assistant  *assistant.Assistant
	contact    *contact.Service
	leads      LeadLister
	blobs      BlobStore
	analyzer   *analyzer.ImageAnalyzer
	processor  *processing.Processor
	company    catalog.Company
	adminToken string
	thumbSize  int
	log        *zap.Logger
	pages      map[string]*template.Template
}

func NewServer(opts Options) (*Server, error) {
	if opts.Assistant == nil || opts.Contact == nil || opts.Blobs == nil {
		return nil, errors.New("api: assistant, contact and blob store are required")
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analyzer.New()
	}
	if opts.Processor == nil {
		opts.Processor = processing.NewProcessor()
	}
	if opts.Company.Name == "" {
		opts.Company = catalog.DefaultCompany()
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = processing.ThumbnailSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		assistant:  opts.Assistant,
		contact:    opts.Contact,
		leads:      opts.Leads,
		blobs:      opts.Blobs,
		analyzer:   opts.Analyzer,
		processor:  opts.Processor,
		company:    opts.Company,
		adminToken: opts.AdminToken,
		thumbSize:  opts.ThumbnailSize,
		log:        opts.Logger,
		pages:      pages,
	}, nil
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware logs method, path, status, and duration
func LoggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)

		level := zap.InfoLevel
		if lrw.statusCode >= 500 {
			level = zap.ErrorLevel
		}
		log.Log(level, "http request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Int("status", lrw.statusCode),
			zap.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/1e6),
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.chat)
	mux.HandleFunc("GET /api/contact", s.contactHealth)
	mux.HandleFunc("POST /api/contact", s.submitContact)
	mux.HandleFunc("POST /api/photo-analyze", s.photoAnalyze)
	mux.HandleFunc("POST /api/redesign", s.redesign)
	mux.HandleFunc("POST /api/redesign-vision", s.redesignVision)
	mux.HandleFunc("POST /api/redesign-image", s.redesignImage)
	mux.HandleFunc("POST /api/renovation-assistant", s.renovationAssistant)

	mux.HandleFunc("POST /api/measure/ruler", s.measureRuler)
	mux.HandleFunc("POST /api/measure/area", s.measureArea)
	mux.HandleFunc("POST /api/estimate", s.estimate)
	mux.HandleFunc("GET /api/services", s.services)
	mux.HandleFunc("GET /api/tools", s.tools)

	mux.Handle("POST /api/upload", s.requireAdmin(http.HandlerFunc(s.upload)))
	mux.Handle("GET /api/images/list", s.requireAdmin(http.HandlerFunc(s.listImages)))
	mux.Handle("POST /api/images/delete", s.requireAdmin(http.HandlerFunc(s.deleteImage)))
	mux.Handle("GET /api/images/thumb", s.requireAdmin(http.HandlerFunc(s.thumbnail)))
	mux.Handle("GET /api/leads", s.requireAdmin(http.HandlerFunc(s.listLeads)))

	mux.Handle("GET /blobs/", s.blobs.Handler())

	mux.HandleFunc("GET /{$}", s.page("home"))
	mux.HandleFunc("GET /about", s.page("about"))
	mux.HandleFunc("GET /services", s.page("services"))
	mux.HandleFunc("GET /contact", s.page("contact"))

	return mux
}

// Handler returns the mux wrapped in request logging
func (s *Server) Handler() http.Handler {
	return LoggingMiddleware(s.log, s.ServeMux())
}

// requireAdmin checks the bearer token when one is configured
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	if s.adminToken == "" {
		return next
	}
	want := []byte("Bearer " + s.adminToken)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			httputil.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPConfig holds listener timeouts
type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, cfg HTTPConfig) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP server shutdown error", zap.Error(err))
		return server.Close()
	}
	return <-errCh
}
