package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML section names.
const (
	keyOutput     = "output"
	keyLogging    = "logging"
	keyCalculator = "calculator"
	keyServer     = "server"
	keyBatch      = "batch"
)

// ShallowMergeYAML loads a YAML file and replaces each top-level section of
// target that the file defines. Sections absent from the file are left
// unchanged and unknown sections are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// decodeSection decodes node into a zero value of the section type before
// assigning it, so a section is replaced rather than field-merged.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		return replaceWith(node, &target.Output)
	case keyLogging:
		return replaceWith(node, &target.Logging)
	case keyCalculator:
		return replaceWith(node, &target.Calculator)
	case keyServer:
		return replaceWith(node, &target.Server)
	case keyBatch:
		return replaceWith(node, &target.Batch)
	default:
		return nil
	}
}

func replaceWith[T any](node *yaml.Node, dst *T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
