package admin

import (
	"time"

	"github.com/spechtlabs/floodnode/pkg/lnhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

type Option func(*Server)

func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// WithPrometheusMiddleware shares one request metrics middleware between
// servers, since its collectors can only be registered once.
func WithPrometheusMiddleware(p *ginprometheus.Prometheus) Option {
	return func(s *Server) {
		s.sharedPrometheus = p
	}
}

func WithListenerProvider(p lnhttp.ListenerProvider) Option {
	return func(s *Server) {
		if p != nil {
			s.provider = p
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
