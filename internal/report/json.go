package report

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/greenops"
)

// JSONDocument is the JSON shape of a Document.
type JSONDocument struct {
	Name             string            `json:"name,omitempty"`
	Input            emissions.Input   `json:"input"`
	Result           *emissions.Result `json:"result,omitempty"`
	Equivalencies    *greenops.Output  `json:"equivalencies,omitempty"`
	Error            string            `json:"error,omitempty"`
	FactorSetVersion string            `json:"factor_set_version"`
	GeneratedAt      string            `json:"generated_at,omitempty"`
}

// ToJSON converts doc to its JSON shape.
func ToJSON(doc Document) JSONDocument {
	res := doc.Result
	out := JSONDocument{
		Name:             doc.Name,
		Input:            doc.Input,
		Result:           &res,
		FactorSetVersion: emissions.FactorSetVersion,
	}
	if !doc.Equivalencies.Empty && len(doc.Equivalencies.Items) > 0 {
		eq := doc.Equivalencies
		out.Equivalencies = &eq
	}
	if !doc.GeneratedAt.IsZero() {
		out.GeneratedAt = doc.GeneratedAt.Format(time.RFC3339)
	}
	return out
}

func entryJSON(e BatchEntry) JSONDocument {
	if e.Err != nil {
		return JSONDocument{
			Name:             e.Name,
			Input:            e.Input,
			Error:            e.Err.Error(),
			FactorSetVersion: emissions.FactorSetVersion,
		}
	}
	return ToJSON(e.Document)
}

// BatchJSON is the JSON shape of batch output.
type BatchJSON struct {
	Results []JSONDocument `json:"results"`
	Totals  Totals         `json:"totals"`
}

func renderJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSON(doc))
}

func renderNDJSON(w io.Writer, doc Document) error {
	return json.NewEncoder(w).Encode(ToJSON(doc))
}

// ToBatchJSON converts entries to their JSON shape.
func ToBatchJSON(entries []BatchEntry) BatchJSON {
	out := BatchJSON{
		Results: make([]JSONDocument, 0, len(entries)),
		Totals:  SumEntries(entries),
	}
	for _, e := range entries {
		out.Results = append(out.Results, entryJSON(e))
	}
	return out
}

func renderBatchJSON(w io.Writer, entries []BatchEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToBatchJSON(entries))
}

func renderBatchNDJSON(w io.Writer, entries []BatchEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(entryJSON(e)); err != nil {
			return err
		}
	}
	return nil
}
