package handler

import (
	"net/http"

	"github.com/rshade/carbonscope/internal/api/response"
	"github.com/rshade/carbonscope/internal/report"
)

// ListRegions handles GET /v1/regions.
func ListRegions(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, report.Regions())
}
