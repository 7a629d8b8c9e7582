// Package config parses cmd/mapmap's command-line flags into a Config
// (spec §6 "CLI / config": composition size, frame rate, output
// count/layout, media base directory, and a headless mode for CI),
// using github.com/spf13/cobra rather than hand-rolled os.Args parsing
// (the teacher's own main.go does the latter, which does not generalize
// to a multi-flag session configuration — see DESIGN.md).
package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OutputSpec describes one output window to create at startup, derived
// from --outputs rather than read from a persisted project (spec
// Non-goals: no project-persistence format).
type OutputSpec struct {
	Name       string
	RegionX    float32
	RegionY    float32
	RegionW    float32
	RegionH    float32
	ResolutionW int
	ResolutionH int
}

// Config is the fully-parsed set of knobs a cmd/mapmap session is
// constructed from.
type Config struct {
	Name      string
	Width     int
	Height    int
	FrameRate float64

	Outputs []OutputSpec

	MediaDir string

	// Headless forces the in-memory window.HeadlessSurface factory
	// instead of real OS windows — the normal choice for CI regardless
	// of build tag, and the only choice available in a `headless`-tagged
	// binary (see internal/window.DefaultFactory).
	Headless bool

	MIDIPort string
	OSCAddr  string

	PresetPath string
}

// defaultOutputLayout arranges count outputs side by side across the
// unit canvas, each the full canvas height — the simplest CLI-expressible
// layout; anything more elaborate is the authoring UX spec.md's
// Non-goals place out of scope.
func defaultOutputLayout(count, width, height int) []OutputSpec {
	specs := make([]OutputSpec, count)
	regionW := float32(1) / float32(count)
	for i := 0; i < count; i++ {
		specs[i] = OutputSpec{
			Name:        fmt.Sprintf("output-%d", i+1),
			RegionX:     float32(i) * regionW,
			RegionY:     0,
			RegionW:     regionW,
			RegionH:     1,
			ResolutionW: width / count,
			ResolutionH: height,
		}
	}
	return specs
}

// Parse builds a Config from args (os.Args[1:] in normal operation).
func Parse(args []string) (*Config, error) {
	cfg := &Config{
		Name:      "show",
		Width:     1920,
		Height:    1080,
		FrameRate: 60,
		OSCAddr:   "0.0.0.0:9000",
	}
	var outputCount int

	cmd := &cobra.Command{
		Use:           "mapmap",
		Short:         "Render a composition of paints onto projector outputs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Name, "name", cfg.Name, "composition name")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "canvas width in pixels")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "canvas height in pixels")
	flags.Float64Var(&cfg.FrameRate, "fps", cfg.FrameRate, "target frame rate")
	flags.IntVar(&outputCount, "outputs", 1, "number of output windows to create, tiled left to right")
	flags.StringVar(&cfg.MediaDir, "media-dir", "", "base directory paints are loaded from")
	flags.BoolVar(&cfg.Headless, "headless", false, "use in-memory surfaces instead of real windows")
	flags.StringVar(&cfg.MIDIPort, "midi-port", "", "MIDI input port name substring to open (empty disables MIDI)")
	flags.StringVar(&cfg.OSCAddr, "osc-listen", cfg.OSCAddr, "UDP address the OSC listener binds")
	flags.StringVar(&cfg.PresetPath, "preset", "", "preset JSON file to load at startup")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("config: width/height must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("config: fps must be positive, got %v", cfg.FrameRate)
	}
	if outputCount <= 0 {
		return nil, fmt.Errorf("config: outputs must be positive, got %d", outputCount)
	}
	cfg.Outputs = defaultOutputLayout(outputCount, cfg.Width, cfg.Height)

	return cfg, nil
}
