package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/server"
)

// PosterServer serves only the poster page on a loopback port. The render CLI
// and the Lambda handler use it when no external base URL is configured.
type PosterServer struct {
	BaseURL string

	srv *http.Server
	ln  net.Listener
}

// StartPosterServer listens on 127.0.0.1 with an ephemeral port and serves page.
func StartPosterServer(page http.Handler, log ports.Logger) (*PosterServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Method(http.MethodGet, server.PosterPath, page)

	ps := &PosterServer{
		BaseURL: "http://" + ln.Addr().String(),
		srv: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
	}
	go func() {
		if err := ps.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Poster page server stopped: %v", err)
		}
	}()
	log.Debug("Poster page listening on %s", ps.BaseURL)
	return ps, nil
}

// Close stops the server.
func (p *PosterServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.srv.Shutdown(ctx)
}
