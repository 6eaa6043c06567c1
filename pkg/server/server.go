// Package server exposes the poster API and the poster page over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/mdposter/pkg/ports"
)

// Route paths.
const (
	GeneratePath = "/api/generatePosterImage"
	PosterPath   = "/poster"
	ImagesPath   = "/api/images"
	UploadsPath  = "/uploads/posters"
	HealthPath   = "/healthz"
)

// Options configures a Server.
type Options struct {
	Addr         string
	MaxBodyBytes int64
	// RequestTimeout is the render budget; the write timeout leaves headroom above it.
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	// UploadsDir, when set, is served statically under UploadsPath.
	UploadsDir string
}

// Server is the HTTP transport.
type Server struct {
	srv       *http.Server
	router    chi.Router
	generator *Generator
	images    ports.ImageStore
	opts      Options
	logger    ports.Logger
}

// New creates a Server. page serves PosterPath; images may be nil when nothing is persisted.
func New(generator *Generator, page http.Handler, images ports.ImageStore, opts Options, logger ports.Logger) *Server {
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 120 * time.Second
	}

	s := &Server{
		generator: generator,
		images:    images,
		opts:      opts,
		logger:    logger.WithComponent("http"),
	}
	s.router = s.routes(page)

	var writeTimeout time.Duration
	if opts.RequestTimeout > 0 {
		writeTimeout = opts.RequestTimeout + 10*time.Second
	}
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		ReadTimeout:       opts.ReadHeaderTimeout + 20*time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

func (s *Server) routes(page http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(securityHeaders)

	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if page != nil {
		r.Method(http.MethodGet, PosterPath, page)
		r.Method(http.MethodHead, PosterPath, page)
	}
	r.HandleFunc(GeneratePath, s.generate)
	if s.images != nil {
		r.Get(ImagesPath+"/{name}", s.image)
	}
	if s.opts.UploadsDir != "" {
		r.Handle(UploadsPath+"/*", http.StripPrefix(UploadsPath+"/", http.FileServer(http.Dir(s.opts.UploadsDir))))
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.RequestTimeout+5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Shutdown did not complete: %v", err)
		}
	}()

	s.logger.Info("Listening on %s", ln.Addr())
	err := s.srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		status, body := MethodNotAllowed()
		renderJSON(w, status, body)
		return
	}

	if s.opts.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status, body := TooLarge(tooLarge.Limit)
			renderJSON(w, status, body)
			return
		}
		renderJSON(w, http.StatusBadRequest, Response{Error: msgInvalidRequest, Details: err.Error()})
		return
	}

	status, body := s.generator.Handle(r.Context(), r.Header.Get("Content-Type"), data)
	renderJSON(w, status, body)
}

func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, contentType, err := s.images.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, ports.ErrImageNotFound) {
			renderJSON(w, http.StatusNotFound, Response{Error: "Image not found"})
			return
		}
		s.logger.Warn("Failed to read image %s: %v", name, err)
		renderJSON(w, http.StatusInternalServerError, Response{Error: "Failed to read image"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(data)
}
