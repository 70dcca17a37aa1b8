package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sandevgo/geodrop/pkg/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP bridge. Browser pages post geolocation fixes here and
// read the AR scene back.
type Server struct {
	addr    string
	timeout time.Duration
	handler *Handler

	mu     sync.Mutex
	srv    *http.Server
	bound  chan struct{}
	listen net.Addr
}

func NewServer(addr string, timeout time.Duration, handler *Handler) *Server {
	return &Server{
		addr:    addr,
		timeout: timeout,
		handler: handler,
		bound:   make(chan struct{}),
	}
}

// Start serves until ctx is done or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler.Routes(ctx, s.timeout),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.srv = srv
	s.listen = ln.Addr()
	s.mu.Unlock()
	close(s.bound)

	log.FromCtx(ctx).Info().Str("addr", ln.Addr().String()).Msg("http bridge listening")

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(serveCtx)
	g.Go(func() error {
		defer stop()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Addr blocks until the listener is bound and returns its address.
func (s *Server) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.bound:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listen, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
