// Command aligner builds a mapping from text fragment ids to
// (audio file, begin, end) timings by running the boundary-tolerant
// streaming sequence aligner over a directory of text files and a
// directory of recorded audio files.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"github.com/tkuhlman/afaligner/internal/align"
	"github.com/tkuhlman/afaligner/internal/config"
	"github.com/tkuhlman/afaligner/internal/fixture"
	"github.com/tkuhlman/afaligner/internal/logging"
	"github.com/tkuhlman/afaligner/internal/render"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - align text fragments against recorded audio.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: aligner --text-dir DIR --audio-dir DIR [options]\n\n")
		pflag.PrintDefaults()
	}

	cli, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cli.ShowVersion {
		printVersion()
		return
	}

	if cli.TextDir == "" || cli.AudioDir == "" {
		fmt.Fprintln(os.Stderr, "aligner: --text-dir and --audio-dir are required")
		pflag.Usage()
		os.Exit(2)
	}

	start := time.Now()
	logger, err := logging.New(cli.LogLevel, start)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	textPaths, err := listDirSorted(cli.TextDir)
	if err != nil {
		logger.Error("listing text directory", "dir", cli.TextDir, "err", err)
		os.Exit(1)
	}
	audioPaths, err := listDirSorted(cli.AudioDir)
	if err != nil {
		logger.Error("listing audio directory", "dir", cli.AudioDir, "err", err)
		os.Exit(1)
	}

	controller := align.NewController(cli.Options, fixture.Synthesizer{}, fixture.FeatureExtractor{}, logger)

	mapping, err := controller.Run(context.Background(), textPaths, audioPaths, cli.OutputTextPrefix, cli.OutputAudioPrefix)
	if err != nil {
		logger.Error("alignment failed", "err", err)
		os.Exit(1)
	}

	out := os.Stdout
	if cli.OutPath != "" {
		f, err := os.Create(cli.OutPath)
		if err != nil {
			logger.Error("creating output file", "path", cli.OutPath, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := render.JSON(out, mapping); err != nil {
		logger.Error("rendering mapping", "err", err)
		os.Exit(1)
	}

	logger.Info("alignment complete", "text_files", len(mapping), "elapsed", time.Since(start))
}

// listDirSorted returns the regular files directly under dir in
// lexicographic order, the deterministic ordering the controller
// relies on to pair text and audio files up consistently across runs.
func listDirSorted(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("aligner: unknown build")
		return
	}
	rev, dirty := "unknown", ""
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	fmt.Printf("aligner %s (%s%s)\n", bi.Main.Version, rev, dirty)
}
