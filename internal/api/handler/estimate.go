package handler

import (
	"bytes"
	"net/http"

	"github.com/rshade/carbonscope/internal/api/middleware"
	"github.com/rshade/carbonscope/internal/api/response"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/engine"
	"github.com/rshade/carbonscope/internal/logging"
	"github.com/rshade/carbonscope/internal/report"
)

// PDFFileName is the attachment name of PDF reports.
const PDFFileName = "carbon_emission_report.pdf"

// EstimateConfig configures an EstimateHandler.
type EstimateConfig struct {
	// Precision is the number of decimals in rendered reports.
	Precision int
	// Equivalents includes equivalencies unless the request overrides it.
	Equivalents bool
	// DefaultRegion fills in requests that omit a region.
	DefaultRegion emissions.Region
	// Engine estimates batch requests.
	Engine *engine.Engine
	// Metrics records estimate outcomes; nil disables recording.
	Metrics *middleware.Metrics
}

// EstimateHandler serves the estimation endpoints.
type EstimateHandler struct {
	cfg EstimateConfig
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(cfg EstimateConfig) *EstimateHandler {
	if cfg.Engine == nil {
		cfg.Engine = engine.New(engine.Options{})
	}
	return &EstimateHandler{cfg: cfg}
}

// Estimate handles POST /v1/estimate.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	withEquivalents, err := boolQuery(r, "equivalents", h.cfg.Equivalents)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := h.estimate(w, r, in)
	if !ok {
		return
	}
	doc := report.NewDocument(in, res, h.cfg.Precision, withEquivalents)
	response.JSON(w, r, http.StatusOK, report.ToJSON(doc))
}

// EstimateBatch handles POST /v1/estimate:batch. The body has the shape of a
// JSON scenario file. Rejected scenarios are reported per entry; the
// response is 200 unless the body itself is invalid.
func (h *EstimateHandler) EstimateBatch(w http.ResponseWriter, r *http.Request) {
	withEquivalents, err := boolQuery(r, "equivalents", h.cfg.Equivalents)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	scenarios, err := engine.DecodeScenarios(bytes.NewReader(body), engine.FormatJSON)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	outcomes, _, err := h.cfg.Engine.EstimateAll(r.Context(), scenarios)
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	for _, o := range outcomes {
		region, mode := metricLabels(o.Scenario.Input)
		h.cfg.Metrics.RecordEstimate(region, mode, o.OK())
	}

	entries := engine.ReportEntries(outcomes, h.cfg.Precision, withEquivalents)
	response.JSON(w, r, http.StatusOK, report.ToBatchJSON(entries))
}

// Report handles POST /v1/report?format=text|pdf and returns the rendered
// report as an attachment.
func (h *EstimateHandler) Report(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(report.FormatText)
	}
	format, err := report.ParseFormat(name)
	if err != nil || (format != report.FormatText && format != report.FormatPDF) {
		response.BadRequest(w, r, "format must be text or pdf")
		return
	}
	withEquivalents, err := boolQuery(r, "equivalents", h.cfg.Equivalents)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	res, ok := h.estimate(w, r, in)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, format, report.NewDocument(in, res, h.cfg.Precision, withEquivalents)); err != nil {
		response.InternalError(w, r, err)
		return
	}
	if format == report.FormatPDF {
		response.Attachment(w, r, "application/pdf", PDFFileName, buf.Bytes())
		return
	}
	response.Attachment(w, r, "text/plain; charset=utf-8", report.DefaultFileName, buf.Bytes())
}

func (h *EstimateHandler) decodeInput(w http.ResponseWriter, r *http.Request) (emissions.Input, bool) {
	in, ok := decodeInput(w, r)
	if ok && in.Region == "" {
		in.Region = h.cfg.DefaultRegion
	}
	return in, ok
}

// estimate validates and estimates in, writing a 400 problem on rejection.
func (h *EstimateHandler) estimate(w http.ResponseWriter, r *http.Request, in emissions.Input) (emissions.Result, bool) {
	region, mode := metricLabels(in)
	res, err := emissions.ValidateAndEstimate(in)
	h.cfg.Metrics.RecordEstimate(region, mode, err == nil)
	if err != nil {
		logging.FromContext(r.Context()).Debug().
			Err(err).
			Str("region", string(in.Region)).
			Str("mode", string(in.Mode)).
			Msg("input rejected")
		response.ValidationError(w, r, "the input was rejected", fieldErrors(err))
		return emissions.Result{}, false
	}
	return res, true
}
