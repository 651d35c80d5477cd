// Package handler provides HTTP handlers for the carbonscope API.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonscope/internal/api/models"
	"github.com/rshade/carbonscope/internal/api/response"
	"github.com/rshade/carbonscope/internal/emissions"
)

// readBody reads the whole request body, writing the problem response and
// returning false on failure.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.ReadError(w, r, err)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		response.BadRequest(w, r, "request body is empty")
		return nil, false
	}
	return body, true
}

// decodeInput decodes an emissions.Input body, rejecting unknown fields.
func decodeInput(w http.ResponseWriter, r *http.Request) (emissions.Input, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return emissions.Input{}, false
	}
	var in emissions.Input
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		response.BadRequest(w, r, "decoding input: "+err.Error())
		return emissions.Input{}, false
	}
	return in.Normalize(), true
}

// fieldErrors converts validation failures to problem field errors.
func fieldErrors(err error) []models.FieldError {
	fes := emissions.FieldErrors(err)
	out := make([]models.FieldError, 0, len(fes))
	for _, fe := range fes {
		out = append(out, models.FieldError{
			Field:   fe.Field,
			Message: fe.Err.Error(),
			Code:    errorCode(fe.Err),
		})
	}
	return out
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, emissions.ErrUnknownRegion):
		return "unknown_region"
	case errors.Is(err, emissions.ErrUnknownMode):
		return "unknown_mode"
	case errors.Is(err, emissions.ErrNegativeInput):
		return "negative_input"
	case errors.Is(err, emissions.ErrInputTooLarge):
		return "input_too_large"
	case errors.Is(err, emissions.ErrResultOutOfRange):
		return "result_out_of_range"
	default:
		return ""
	}
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, name string, fallback bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("query parameter %s: %q is not a boolean", name, v)
	}
	return b, nil
}

// metricLabels returns bounded region and mode labels for in.
func metricLabels(in emissions.Input) (string, string) {
	region, mode := "invalid", "invalid"
	if r, err := emissions.ParseRegion(string(in.Region)); err == nil {
		region = string(r)
	}
	if m, err := emissions.ParseMode(string(in.Mode)); err == nil {
		mode = string(m)
	}
	return region, mode
}
