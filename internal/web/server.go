package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"LeverageScope/internal/model"
)

// Server is the HTTP control and display surface.
type Server struct {
	Control   *Control
	Presenter *Presenter
	srv       *http.Server
	logger    zerolog.Logger
}

// NewServer wires the routes. updatesPerSec and burst size the token bucket
// in front of the update endpoint.
func NewServer(addr string, params model.Params, width, height int, updatesPerSec float64, burst int) *Server {
	s := &Server{
		Control:   NewControl(),
		Presenter: NewPresenter(width, height),
		logger:    log.With().Str("component", "web").Logger(),
	}
	limiter := rate.NewLimiter(rate.Limit(updatesPerSec), burst)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", PageHandler(params, s.Presenter))
	mux.HandleFunc("POST /api/lr0", UpdateHandler(s.Control, s.Presenter, params, limiter))
	mux.HandleFunc("GET /api/frame", FrameHandler(s.Presenter))
	mux.HandleFunc("GET /chart.svg", ChartHandler("image/svg+xml", s.Presenter.SVG))
	mux.HandleFunc("GET /chart.png", ChartHandler("image/png", s.Presenter.PNG))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
