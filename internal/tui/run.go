package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/carbonscope/internal/emissions"
)

// defaultPrecision matches output.precision in the default configuration.
const defaultPrecision = 2

// Options configures the interactive form.
type Options struct {
	// Region is the initially selected region; defaults to TW.
	Region emissions.Region
	// Mode is the initially shown tab; defaults to quick.
	Mode emissions.Mode
	// Precision is the number of decimals shown for tCO2e values.
	Precision int
	// ReportDir is where ctrl+s writes ReportFileName; defaults to ".".
	ReportDir string

	Input  io.Reader
	Output io.Writer
}

func (o Options) withDefaults() Options {
	if _, ok := emissions.GridEmissionFactor(o.Region); !ok {
		o.Region = emissions.RegionTW
	}
	if o.Mode != emissions.ModeDetail {
		o.Mode = emissions.ModeQuick
	}
	if o.Precision < 0 {
		o.Precision = defaultPrecision
	}
	if o.ReportDir == "" {
		o.ReportDir = "."
	}
	return o
}

// Run shows the form until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(NewFormModel(opts), popts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running interactive form: %w", err)
	}
	return nil
}
