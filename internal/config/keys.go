package config

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by Get and Set for keys outside the schema.
var ErrUnknownKey = errors.New("unknown configuration key")

type keyAccessor struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) keyAccessor {
	return keyAccessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func intKey(field func(c *Config) *int) keyAccessor {
	return keyAccessor{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolKey(field func(c *Config) *bool) keyAccessor {
	return keyAccessor{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*field(c) = b
			return nil
		},
	}
}

// keys maps dotted configuration keys to their fields.
//
//nolint:gochecknoglobals // Static schema table.
var keys = map[string]keyAccessor{
	"output.default_format":            stringKey(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"output.precision":                 intKey(func(c *Config) *int { return &c.Output.Precision }),
	"output.equivalents":               boolKey(func(c *Config) *bool { return &c.Output.Equivalents }),
	"logging.level":                    stringKey(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":                   stringKey(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":                     stringKey(func(c *Config) *string { return &c.Logging.File }),
	"calculator.default_region":        stringKey(func(c *Config) *string { return &c.Calculator.DefaultRegion }),
	"calculator.factor_set_constraint": stringKey(func(c *Config) *string { return &c.Calculator.FactorSetConstraint }),
	"server.listen":                    stringKey(func(c *Config) *string { return &c.Server.Listen }),
	"server.rate_limit_per_minute":     intKey(func(c *Config) *int { return &c.Server.RateLimitPerMinute }),
	"server.max_body_bytes": {
		get: func(c *Config) string { return strconv.FormatInt(c.Server.MaxBodyBytes, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			c.Server.MaxBodyBytes = n
			return nil
		},
	},
	"server.read_timeout":     stringKey(func(c *Config) *string { return &c.Server.ReadTimeout }),
	"server.shutdown_timeout": stringKey(func(c *Config) *string { return &c.Server.ShutdownTimeout }),
	"batch.size":              intKey(func(c *Config) *int { return &c.Batch.Size }),
	"batch.concurrency":       intKey(func(c *Config) *int { return &c.Batch.Concurrency }),
}

// Keys returns every settable key in a stable order.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}

// Get returns the string form of the value at a dotted key.
func (c *Config) Get(key string) (string, error) {
	acc, ok := keys[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return acc.get(c), nil
}

// Set parses value into the field at a dotted key. It does not validate the
// resulting configuration; call Validate before saving.
func (c *Config) Set(key, value string) error {
	acc, ok := keys[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := acc.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// List returns every key with its current value.
func (c *Config) List() map[string]string {
	out := make(map[string]string, len(keys))
	for k, acc := range keys {
		out[k] = acc.get(c)
	}
	return out
}

// sectionOrder follows the field order of Config.
var sectionOrder = map[string]int{"output": 0, "logging": 1, "calculator": 2, "server": 3, "batch": 4}

func sortKeys(s []string) {
	slices.SortFunc(s, func(a, b string) int {
		sa, _, _ := strings.Cut(a, ".")
		sb, _, _ := strings.Cut(b, ".")
		return cmp.Or(cmp.Compare(sectionOrder[sa], sectionOrder[sb]), strings.Compare(a, b))
	})
}
