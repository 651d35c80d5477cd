package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rshade/carbonscope/internal/emissions"
)

// Scenario file limits.
const (
	// MaxScenarios caps the number of scenarios in one file or request.
	MaxScenarios = 10000
	// MaxScenarioFileBytes caps the size of a scenario file.
	MaxScenarioFileBytes = 10 << 20
)

// Scenario file errors.
var (
	ErrTooManyScenarios      = errors.New("too many scenarios")
	ErrScenarioFileTooLarge  = errors.New("scenario file too large")
	ErrUnsupportedFileFormat = errors.New("unsupported scenario file format")
	ErrNoScenarios           = errors.New("no scenarios defined")
)

// FileFormat is the encoding of a scenario file.
type FileFormat string

// Supported scenario file formats.
const (
	FormatYAML FileFormat = "yaml"
	FormatJSON FileFormat = "json"
)

// Scenario is one named estimation input.
type Scenario struct {
	Name            string `json:"name" yaml:"name"`
	emissions.Input `yaml:",inline"`
}

// scenarioFile is the top-level shape of a scenario file.
type scenarioFile struct {
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
}

// FormatFromPath picks the file format from the extension.
func FormatFromPath(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want .yaml, .yml or .json)", ErrUnsupportedFileFormat, filepath.Ext(path))
	}
}

// LoadScenarios reads a scenario file.
func LoadScenarios(path string) ([]Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	scenarios, err := DecodeScenarios(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return scenarios, nil
}

// DecodeScenarios parses `{scenarios: [...]}` from r. Unknown fields are
// rejected. Region and mode values are normalized when recognized; anything
// else is left for validation to report against the scenario.
func DecodeScenarios(r io.Reader, format FileFormat) ([]Scenario, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxScenarioFileBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxScenarioFileBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrScenarioFileTooLarge, MaxScenarioFileBytes)
	}

	var file scenarioFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileFormat, format)
	}

	if len(file.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	if len(file.Scenarios) > MaxScenarios {
		return nil, fmt.Errorf("%w: %d (limit %d)", ErrTooManyScenarios, len(file.Scenarios), MaxScenarios)
	}

	for i := range file.Scenarios {
		normalize(&file.Scenarios[i], i)
	}
	return file.Scenarios, nil
}

func normalize(s *Scenario, index int) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = "scenario-" + strconv.Itoa(index+1)
	}
	s.Input = s.Input.Normalize()
}
