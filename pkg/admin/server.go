// Package admin serves a read-only HTTP view of a running node: probes,
// prometheus metrics, the current node state and the API docs.
//
// @title floodnode admin API
// @version 1.0
// @description Read-only view of a flood broadcast node.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
package admin

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/internal/utils"
	_ "github.com/spechtlabs/floodnode/pkg/admin/docs" // registers the swagger spec
	"github.com/spechtlabs/floodnode/pkg/lnhttp"
	"github.com/spechtlabs/floodnode/pkg/node"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	ApiRouteV1Alpha1 = "/api/v1alpha1"
	StateApiRoute    = "/state"
	HealthRoute      = "/healthz"
	ReadyRoute       = "/ready"
)

//go:embed templates/*
var templatesFS embed.FS

// SnapshotSource yields the latest node snapshot. It must be safe for
// concurrent use; node.Publisher is the usual implementation.
type SnapshotSource interface {
	Snapshot() (node.Snapshot, bool)
}

type Server struct {
	router           *gin.Engine
	tracer           trace.Tracer
	sharedPrometheus *ginprometheus.Prometheus
	provider         lnhttp.ListenerProvider
	source           SnapshotSource
	debug            bool
	shutdownTimeout  time.Duration
}

func NewServer(source SnapshotSource, opts ...Option) *Server {
	s := &Server{
		tracer:          otel.Tracer("floodnode/admin"),
		provider:        lnhttp.TCPProvider{},
		source:          source,
		shutdownTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = utils.NewO11yGin("floodnode_admin", s.debug, s.sharedPrometheus)
	s.loadTemplates()
	s.loadRoutes()
	return s
}

func (s *Server) loadTemplates() {
	templ, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		// embedded at build time; failing here is a developer error
		panic(err) //nolint:nopanic
	}
	s.router.SetHTMLTemplate(templ)
}

func (s *Server) loadRoutes() {
	s.router.GET(HealthRoute, s.getHealth)
	s.router.GET(ReadyRoute, s.getReady)

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	v1alpha1 := s.router.Group(ApiRouteV1Alpha1)
	v1alpha1.GET(StateApiRoute, s.getState)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.router }

// Serve listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) humane.Error {
	srv := lnhttp.NewServer(&http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}, s.provider)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, s.router)
	}()

	otelzap.L().InfoContext(ctx, "Admin server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if err != nil {
			return humane.Wrap(err, "admin server stopped", "check that the admin port is free")
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return humane.Wrap(err, "failed to shut down admin server")
		}
		if err := <-errCh; err != nil {
			return humane.Wrap(err, "admin server stopped")
		}
		return nil
	}
}
