package models

import "time"

// HealthStatusOK is the only status the service reports; it has no
// downstream dependencies.
const HealthStatusOK = "ok"

// Health is the body of GET /v1/ops/health.
type Health struct {
	Status           string    `json:"status"`
	Time             time.Time `json:"time"`
	Version          string    `json:"version"`
	Commit           string    `json:"commit,omitempty"`
	FactorSetVersion string    `json:"factorSetVersion"`
}
