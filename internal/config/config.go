// Package config resolves command-line flags and an optional YAML
// config file into the options the aligner CLI runs with, layering
// pflag over a parsed config file: built-in defaults, then the config
// file, then explicit flags, each overriding the last.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tkuhlman/afaligner/internal/align"
)

// fileConfig is the YAML shape of an optional config file. Pointer
// fields distinguish "not set" from the zero value so a config file
// only overrides what it actually mentions.
type fileConfig struct {
	SkipPenalty         *float64 `yaml:"skip_penalty"`
	Radius              *int     `yaml:"radius"`
	FramePeriodSeconds  *float64 `yaml:"frame_period_seconds"`
	AmbiguousTailPolicy *string  `yaml:"ambiguous_tail_policy"`
	AnchorRounding      *string  `yaml:"anchor_rounding"`
}

// CLI is the fully resolved configuration for cmd/aligner.
type CLI struct {
	Options align.Options

	TextDir           string
	AudioDir          string
	OutputTextPrefix  string
	OutputAudioPrefix string
	OutPath           string
	LogLevel          string
	ShowVersion       bool
}

// Parse resolves a CLI from command-line arguments (excluding the
// program name), applying defaults, then an optional -c/--config YAML
// file, then the flags themselves.
func Parse(args []string) (*CLI, error) {
	fs := pflag.NewFlagSet("aligner", pflag.ContinueOnError)

	defaults := align.DefaultOptions()

	configPath := fs.StringP("config", "c", "", "YAML config file overriding the built-in defaults.")
	skipPenalty := fs.Float64("skip-penalty", defaults.SkipPenalty, "Per-frame cost of unmatched boundary content.")
	radius := fs.Int("radius", defaults.Radius, "FastDTWBD search-band radius.")
	framePeriod := fs.Float64("frame-period", defaults.FramePeriod, "Frame duration in seconds.")
	tailPolicy := fs.String("ambiguous-tail-policy", "audio", `Which side to advance when both streams have a residual tail: "audio" or "text".`)
	anchorRounding := fs.String("anchor-rounding", "floor", `How to convert an anchor's start time to a frame index: "floor" or "nearest".`)
	textDir := fs.String("text-dir", "", "Directory of text fragment files, required.")
	audioDir := fs.String("audio-dir", "", "Directory of recorded audio files, required.")
	outTextPrefix := fs.String("output-text-prefix", "", "Path prefix applied to text_file entries in the output mapping.")
	outAudioPrefix := fs.String("output-audio-prefix", "", "Path prefix applied to audio_file entries in the output mapping.")
	out := fs.String("out", "", "Output JSON path; stdout if empty.")
	logLevel := fs.String("log-level", "info", "debug, info, warn, or error.")
	showVersion := fs.Bool("version", false, "Print build info and exit.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := applyFile(*configPath, &defaults); err != nil {
			return nil, err
		}
	}

	// Flags explicitly set on the command line win over the config
	// file, which itself already won over the built-in defaults.
	if fs.Changed("skip-penalty") {
		defaults.SkipPenalty = *skipPenalty
	}
	if fs.Changed("radius") {
		defaults.Radius = *radius
	}
	if fs.Changed("frame-period") {
		defaults.FramePeriod = *framePeriod
	}
	if fs.Changed("ambiguous-tail-policy") {
		p, err := parseTailPolicy(*tailPolicy)
		if err != nil {
			return nil, err
		}
		defaults.TailPolicy = p
	}
	if fs.Changed("anchor-rounding") {
		r, err := parseAnchorRounding(*anchorRounding)
		if err != nil {
			return nil, err
		}
		defaults.AnchorRounding = r
	}

	return &CLI{
		Options:           defaults,
		TextDir:           *textDir,
		AudioDir:          *audioDir,
		OutputTextPrefix:  *outTextPrefix,
		OutputAudioPrefix: *outAudioPrefix,
		OutPath:           *out,
		LogLevel:          *logLevel,
		ShowVersion:       *showVersion,
	}, nil
}

func applyFile(path string, opts *align.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if fc.SkipPenalty != nil {
		opts.SkipPenalty = *fc.SkipPenalty
	}
	if fc.Radius != nil {
		opts.Radius = *fc.Radius
	}
	if fc.FramePeriodSeconds != nil {
		opts.FramePeriod = *fc.FramePeriodSeconds
	}
	if fc.AmbiguousTailPolicy != nil {
		p, err := parseTailPolicy(*fc.AmbiguousTailPolicy)
		if err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
		opts.TailPolicy = p
	}
	if fc.AnchorRounding != nil {
		r, err := parseAnchorRounding(*fc.AnchorRounding)
		if err != nil {
			return fmt.Errorf("config: %s: %w", path, err)
		}
		opts.AnchorRounding = r
	}
	return nil
}

func parseTailPolicy(s string) (align.TailPolicy, error) {
	switch s {
	case "audio":
		return align.AdvanceAudio, nil
	case "text":
		return align.AdvanceText, nil
	default:
		return 0, fmt.Errorf("config: ambiguous-tail-policy must be \"audio\" or \"text\", got %q", s)
	}
}

func parseAnchorRounding(s string) (align.AnchorRounding, error) {
	switch s {
	case "floor":
		return align.RoundDown, nil
	case "nearest":
		return align.RoundNearest, nil
	default:
		return 0, fmt.Errorf("config: anchor-rounding must be \"floor\" or \"nearest\", got %q", s)
	}
}
