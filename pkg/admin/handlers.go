package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/floodnode/pkg/models"
	"github.com/spechtlabs/floodnode/pkg/node"
	"go.opentelemetry.io/otel/attribute"
)

// getHealth godoc
//
//	@Summary		Liveness probe
//	@Tags			probes
//	@Produce		json
//	@Success		200	{object}	models.StatusResponse
//	@Router			/healthz [get]
func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// getReady godoc
//
//	@Summary		Readiness probe, ready once the node received init
//	@Tags			probes
//	@Produce		json
//	@Success		200	{object}	models.StatusResponse
//	@Failure		503	{object}	models.StatusResponse
//	@Router			/ready [get]
func (s *Server) getReady(c *gin.Context) {
	if _, ok := s.initializedSnapshot(); !ok {
		c.JSON(http.StatusServiceUnavailable, models.StatusResponse{Status: "not ready", Reason: "waiting for init"})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ready"})
}

// getState godoc
//
//	@Summary		Current node state
//	@Description	Identity, neighbors and accepted values as of the last handled envelope.
//	@Tags			node
//	@Produce		json,html
//	@Success		200	{object}	models.NodeStateResponse
//	@Failure		503	{object}	models.ErrorResponse
//	@Router			/api/v1alpha1/state [get]
func (s *Server) getState(c *gin.Context) {
	_, span := s.tracer.Start(c.Request.Context(), "Admin.getState")
	defer span.End()

	snap, ok := s.initializedSnapshot()
	if !ok {
		resp := models.FromHumaneError(node.ErrNotInitialized).WithStatus(http.StatusServiceUnavailable)
		c.JSON(resp.StatusCode, resp)
		return
	}

	state := toStateResponse(snap)
	span.SetAttributes(
		attribute.String("node.id", state.ID),
		attribute.Int("node.messages", state.MessageCount),
	)

	if wantsHTML(c) {
		c.HTML(http.StatusOK, "state.html", state)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) initializedSnapshot() (node.Snapshot, bool) {
	if s.source == nil {
		return node.Snapshot{}, false
	}
	snap, ok := s.source.Snapshot()
	if !ok || !snap.Initialized {
		return node.Snapshot{}, false
	}
	return snap, true
}

func toStateResponse(snap node.Snapshot) models.NodeStateResponse {
	roster := snap.Roster
	if roster == nil {
		roster = []string{}
	}
	messages := snap.Messages
	if messages == nil {
		messages = []int{}
	}

	return models.NodeStateResponse{
		ID:           snap.ID,
		Roster:       roster,
		Messages:     messages,
		MessageCount: len(messages),
		Handled:      snap.Handled,
		Errors:       snap.Errors,
	}
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
