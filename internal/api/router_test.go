package api_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonscope/internal/api"
	"github.com/rshade/carbonscope/internal/api/models"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/report"
)

const scenarioB = `{
  "region": "us",
  "mode": "detail",
  "detail": {
    "annual_kwh": 500000,
    "gasoline_liters_year": 15000,
    "diesel_liters_year": 5000,
    "refrigerant_leak_kg": 5,
    "refrigerant_gwp": 1430,
    "include_scope3": true,
    "water_m3_year": 2000,
    "waste_ton_year": 50
  }
}`

func newTestRouter(t *testing.T, mutate ...func(*api.RouterConfig)) http.Handler {
	t.Helper()
	cfg := api.RouterConfig{
		Version:            "test",
		Logger:             zerolog.New(io.Discard),
		RateLimitPerMinute: 1000,
		MaxBodyBytes:       1 << 20,
		Precision:          2,
		Equivalents:        true,
		DefaultRegion:      emissions.RegionTW,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	r, err := api.NewRouter(cfg)
	require.NoError(t, err)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "192.0.2.10:4321"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestEstimate_ScenarioB(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/estimate", scenarioB)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var got report.JSONDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Result)
	assert.Equal(t, emissions.RegionUS, got.Result.Region)
	assert.InDelta(t, 193.0, got.Result.Scope2Electricity, 1e-9)
	assert.InDelta(t, 54.65, got.Result.Scope1Total, 1e-9)
	assert.InDelta(t, 247.65, got.Result.TotalS1S2, 1e-9)
	assert.InDelta(t, 23.648, got.Result.Scope3Minor, 1e-9)
	assert.InDelta(t, 271.298, got.Result.TotalWithS3, 1e-9)
	assert.InDelta(t, 77.93, got.Result.SharePercent.Electricity, 1e-9)
	assert.NotNil(t, got.Equivalencies)
	assert.Equal(t, emissions.FactorSetVersion, got.FactorSetVersion)
}

func TestEstimate_QuickDefaultsRegion(t *testing.T) {
	body := `{"mode":"quick","quick":{"monthly_bill":5000,"price_per_kwh":4.4,"car_count":5,"motorcycle_count":10}}`
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/estimate?equivalents=false", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got report.JSONDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Result)
	assert.Equal(t, emissions.RegionTW, got.Result.Region)
	assert.InDelta(t, 20.55, got.Result.TotalS1S2, 1e-9)
	assert.Nil(t, got.Equivalencies)
}

func TestEstimate_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		field  string
		code   string
		status int
	}{
		{
			name:   "NegativeInput",
			body:   `{"region":"US","mode":"detail","detail":{"annual_kwh":-1}}`,
			field:  "detail.annual_kwh",
			code:   "negative_input",
			status: http.StatusBadRequest,
		},
		{
			name:   "UnknownRegion",
			body:   `{"region":"XX","mode":"quick","quick":{"monthly_bill":1}}`,
			field:  "region",
			code:   "unknown_region",
			status: http.StatusBadRequest,
		},
		{
			name:   "UnknownMode",
			body:   `{"region":"TW","mode":"fast"}`,
			field:  "mode",
			code:   "unknown_mode",
			status: http.StatusBadRequest,
		},
		{
			name:   "InputTooLarge",
			body:   `{"region":"TW","mode":"quick","quick":{"monthly_bill":1e308,"price_per_kwh":0.001}}`,
			field:  "quick.monthly_bill",
			code:   "input_too_large",
			status: http.StatusBadRequest,
		},
		{
			name:   "ResultOutOfRange",
			body:   `{"region":"TW","mode":"quick","quick":{"monthly_bill":100000000000,"price_per_kwh":1e-300}}`,
			field:  "quick",
			code:   "result_out_of_range",
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(t), http.MethodPost, "/v1/estimate", tt.body)
			require.Equal(t, tt.status, rec.Code)

			p := decodeProblem(t, rec)
			assert.Equal(t, models.ProblemTypeValidation, p.Type)
			assert.Equal(t, "/v1/estimate", p.Instance)
			assert.NotEmpty(t, p.TraceID)
			require.Len(t, p.Errors, 1)
			assert.Equal(t, tt.field, p.Errors[0].Field)
			assert.Equal(t, tt.code, p.Errors[0].Code)
		})
	}
}

func TestEstimate_Malformed(t *testing.T) {
	h := newTestRouter(t)
	for _, body := range []string{"", "{not json", `{"region":"TW","mode":"quick","colour":"green"}`} {
		rec := do(t, h, http.MethodPost, "/v1/estimate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, models.ProblemTypeMalformed, decodeProblem(t, rec).Type, body)
	}

	rec := do(t, h, http.MethodPost, "/v1/estimate?equivalents=maybe", scenarioB)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstimate_BodyTooLarge(t *testing.T) {
	h := newTestRouter(t, func(c *api.RouterConfig) { c.MaxBodyBytes = 64 })
	rec := do(t, h, http.MethodPost, "/v1/estimate", scenarioB)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, models.ProblemTypeTooLarge, decodeProblem(t, rec).Type)
}

func TestEstimateBatch(t *testing.T) {
	body := `{"scenarios":[
		{"name":"hq","region":"US","mode":"detail","detail":{"annual_kwh":500000,"gasoline_liters_year":15000,"diesel_liters_year":5000,"refrigerant_leak_kg":5,"refrigerant_gwp":1430}},
		{"name":"shop","region":"tw","mode":"quick","quick":{"monthly_bill":5000,"price_per_kwh":4.4,"car_count":5,"motorcycle_count":10}},
		{"name":"broken","region":"TW","mode":"quick","quick":{"monthly_bill":-5}}
	]}`
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/estimate:batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got report.BatchJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Results, 3)
	assert.Equal(t, "hq", got.Results[0].Name)
	assert.Equal(t, "shop", got.Results[1].Name)
	require.NotNil(t, got.Results[1].Result)
	assert.InDelta(t, 20.55, got.Results[1].Result.TotalS1S2, 1e-9)
	assert.Nil(t, got.Results[2].Result)
	assert.Contains(t, got.Results[2].Error, "quick.monthly_bill")

	assert.Equal(t, 3, got.Totals.Scenarios)
	assert.Equal(t, 1, got.Totals.Failed)
	assert.InDelta(t, 268.2, got.Totals.TotalS1S2, 1e-9)
}

func TestEstimateBatch_Invalid(t *testing.T) {
	h := newTestRouter(t)
	for _, body := range []string{`{"scenarios":[]}`, `{"scenarios":`, `{"items":[]}`} {
		rec := do(t, h, http.MethodPost, "/v1/estimate:batch", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestReport(t *testing.T) {
	h := newTestRouter(t)

	t.Run("Text", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/report", scenarioB)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="carbon_emission_report.txt"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Carbon Emission Calculation Report")
		assert.Contains(t, rec.Body.String(), "Total Emissions (with Scope 3): 271.30 tCO2e")
	})

	t.Run("PDF", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/report?format=pdf", scenarioB)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/report?format=json", scenarioB)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejected", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/report", `{"region":"US","mode":"detail","detail":{"diesel_liters_year":-3}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, models.ProblemTypeValidation, decodeProblem(t, rec).Type)
	})
}

func TestRegions(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/v1/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got report.RegionListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, emissions.FactorSetVersion, got.FactorSetVersion)
	assert.Len(t, got.Regions, 5)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/v1/ops/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.HealthStatusOK, got.Status)
	assert.Equal(t, "test", got.Version)
	assert.Equal(t, emissions.FactorSetVersion, got.FactorSetVersion)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/v1/estimate", scenarioB)
	do(t, h, http.MethodPost, "/v1/estimate", `{"region":"US","mode":"detail","detail":{"annual_kwh":-1}}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `carbonscope_http_requests_total{method="POST",route="/v1/estimate",status="200"} 1`)
	assert.Contains(t, out, `carbonscope_estimates_total{mode="detail",outcome="ok",region="US"} 1`)
	assert.Contains(t, out, `carbonscope_estimates_total{mode="detail",outcome="rejected",region="US"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, func(c *api.RouterConfig) { c.RateLimitPerMinute = 2 })
	for range 2 {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/v1/estimate", scenarioB).Code)
	}
	rec := do(t, h, http.MethodPost, "/v1/estimate", scenarioB)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, models.ProblemTypeTooManyRequests, decodeProblem(t, rec).Type)

	// Reference endpoints are not limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/regions", "").Code)
}

func TestNotFound(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.ProblemTypeNotFound, decodeProblem(t, rec).Type)

	rec = do(t, h, http.MethodGet, "/v1/estimate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, models.ProblemTypeMethod, decodeProblem(t, rec).Type)
}
