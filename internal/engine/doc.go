// Package engine estimates many scenarios at once.
//
// Scenarios are loaded from YAML or JSON files (LoadScenarios), validated
// one by one, and estimated concurrently through batch.Processor. A failing
// scenario is recorded in its Outcome and never aborts the rest of the run.
// Outcomes keep the input order.
package engine
