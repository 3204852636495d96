package api

import (
	"context"
	"net/http"
	"time"
)

// shutdownGrace bounds how long in-flight requests may run after Shutdown.
const shutdownGrace = 3 * time.Second

type Server struct {
	httpServer *http.Server
	notify     chan error
}

func NewServer(address string, timeout time.Duration, idleTimeout time.Duration, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{httpServer: httpServer, notify: make(chan error, 1)}
}

// Start serves in the background. The listen error, if any, arrives on
// Notify; a clean Shutdown closes the channel without one.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.notify <- err
		}
		close(s.notify)
	}()
}

func (s *Server) Notify() <-chan error {
	return s.notify
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
