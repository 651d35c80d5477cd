package handler

import (
	"net/http"
	"time"

	"github.com/rshade/carbonscope/internal/api/models"
	"github.com/rshade/carbonscope/internal/api/response"
	"github.com/rshade/carbonscope/internal/emissions"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version string
	commit  string
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, commit string) *OpsHandler {
	return &OpsHandler{version: version, commit: commit}
}

// HealthCheck handles GET /v1/ops/health.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status:           models.HealthStatusOK,
		Time:             time.Now().UTC(),
		Version:          h.version,
		Commit:           h.commit,
		FactorSetVersion: emissions.FactorSetVersion,
	})
}
