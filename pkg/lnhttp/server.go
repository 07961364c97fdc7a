// Package lnhttp wraps http.Server so the listener comes from a pluggable
// ListenerProvider. The admin server uses plain TCP; tests hand in pipes.
package lnhttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/sierrasoftworks/humane-errors-go"
)

var ErrNoProvider = humane.New("lnhttp server has no listener provider", "construct the server with NewServer and a non-nil provider")

// ListenerProvider abstracts how the server obtains its net.Listener.
// The context only bounds listener creation.
type ListenerProvider interface {
	Listen(ctx context.Context, network string, address string) (net.Listener, error)
}

// TCPProvider listens on the host network stack.
type TCPProvider struct{}

func (TCPProvider) Listen(ctx context.Context, network string, address string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, network, address)
}

// Server is an *http.Server whose listener comes from Provider.
type Server struct {
	*http.Server

	Provider ListenerProvider

	mu   sync.Mutex
	addr net.Addr
}

// NewServer wraps s, creating an empty http.Server when s is nil.
func NewServer(s *http.Server, provider ListenerProvider) *Server {
	if s == nil {
		s = &http.Server{}
	}
	return &Server{Server: s, Provider: provider}
}

// Serve obtains a listener from Provider and serves handler on it until the
// server is shut down. A graceful shutdown returns nil.
func (s *Server) Serve(ctx context.Context, handler http.Handler) error {
	if s.Provider == nil {
		return ErrNoProvider
	}

	address := s.Addr
	if address == "" {
		address = ":http"
	}

	ln, err := s.Provider.Listen(ctx, "tcp", address)
	if err != nil {
		return humane.Wrap(err, "failed to listen on "+address, "check that the port is free and the address is valid")
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.Handler = handler
	if err := s.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe serves the embedded http.Server's Handler.
func (s *Server) ListenAndServe() error {
	return s.Serve(context.Background(), s.Handler)
}

// ListenerAddr is the address actually bound, or nil before Serve listened.
func (s *Server) ListenerAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
