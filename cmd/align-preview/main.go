// Command align-preview plays back every fragment in a mapping
// produced by cmd/aligner, in order, so a person can listen to
// whether begin/end times actually bracket the right words. It
// resolves each fragment's audio_file against --pcm-dir and reads raw
// little-endian mono float32 PCM there (real container decoding is
// out of scope). Playback is
// via the default output device through portaudio.
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/tkuhlman/afaligner/internal/align"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - play back an aligned mapping's fragments in order.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: align-preview --mapping FILE --pcm-dir DIR [options]\n\n")
		pflag.PrintDefaults()
	}

	mappingPath := pflag.StringP("mapping", "m", "", "JSON mapping produced by aligner, required.")
	pcmDir := pflag.StringP("pcm-dir", "d", "", "Directory of raw mono float32 PCM files named after each mapping's audio_file, required.")
	textFile := pflag.String("text-file", "", "If set, only play fragments belonging to this mapping key.")
	sampleRate := pflag.Float64("sample-rate", 44100, "Sample rate of the PCM files in Hz.")
	pflag.Parse()

	if *mappingPath == "" || *pcmDir == "" {
		pflag.Usage()
		os.Exit(2)
	}

	spans, err := loadSpans(*mappingPath, *textFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "align-preview:", err)
		os.Exit(1)
	}

	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "align-preview: initializing portaudio:", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	for _, s := range spans {
		fmt.Printf("%s  %s -> %s  (%s)\n", s.fragmentID, s.beginStr, s.endStr, s.audioFile)

		pcmPath := filepath.Join(*pcmDir, filepath.Base(s.audioFile))
		samples, err := readSpan(pcmPath, s.begin, s.end, *sampleRate)
		if err != nil {
			fmt.Fprintln(os.Stderr, "align-preview:", err)
			continue
		}
		if err := play(samples, *sampleRate); err != nil {
			fmt.Fprintln(os.Stderr, "align-preview:", err)
			os.Exit(1)
		}
	}
}

// span is one fragment resolved to a playable time range.
type span struct {
	fragmentID string
	audioFile  string
	begin, end float64
	beginStr   string
	endStr     string
}

// loadSpans reads mapping from mappingPath and returns every fragment
// span, grouped by text file and ordered by begin time within each
// group, restricted to textFile when non-empty.
func loadSpans(mappingPath, textFile string) ([]span, error) {
	f, err := os.Open(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("opening mapping: %w", err)
	}
	defer f.Close()

	var mapping align.Mapping
	if err := json.NewDecoder(f).Decode(&mapping); err != nil {
		return nil, fmt.Errorf("parsing mapping: %w", err)
	}

	var textFiles []string
	for name := range mapping {
		if textFile != "" && name != textFile {
			continue
		}
		textFiles = append(textFiles, name)
	}
	sort.Strings(textFiles)

	var spans []span
	for _, name := range textFiles {
		var group []span
		for fragmentID, rec := range mapping[name] {
			begin, err := align.ParseTimeStr(rec.BeginTime)
			if err != nil {
				return nil, fmt.Errorf("parsing begin time for %s: %w", fragmentID, err)
			}
			end, err := align.ParseTimeStr(rec.EndTime)
			if err != nil {
				return nil, fmt.Errorf("parsing end time for %s: %w", fragmentID, err)
			}
			group = append(group, span{
				fragmentID: fragmentID,
				audioFile:  rec.AudioFile,
				begin:      begin,
				end:        end,
				beginStr:   rec.BeginTime,
				endStr:     rec.EndTime,
			})
		}
		sort.Slice(group, func(i, j int) bool { return group[i].begin < group[j].begin })
		spans = append(spans, group...)
	}
	return spans, nil
}

// readSpan reads the [begin, end) seconds span of a raw mono float32
// PCM file sampled at sampleRate.
func readSpan(pcmPath string, begin, end, sampleRate float64) ([]float32, error) {
	f, err := os.Open(pcmPath)
	if err != nil {
		return nil, fmt.Errorf("opening pcm %s: %w", pcmPath, err)
	}
	defer f.Close()

	firstSample := int64(math.Max(0, begin) * sampleRate)
	lastSample := int64(math.Max(0, end) * sampleRate)
	if lastSample <= firstSample {
		return nil, fmt.Errorf("empty span [%g, %g) in %s", begin, end, pcmPath)
	}

	if _, err := f.Seek(firstSample*4, 0); err != nil {
		return nil, fmt.Errorf("seeking pcm %s: %w", pcmPath, err)
	}

	r := bufio.NewReader(f)
	samples := make([]float32, lastSample-firstSample)
	for i := range samples {
		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return samples[:i], nil
		}
		samples[i] = math.Float32frombits(bits)
	}
	return samples, nil
}

// play writes samples to the default output device at sampleRate,
// blocking until playback finishes.
func play(samples []float32, sampleRate float64) error {
	const framesPerBuffer = 1024
	buf := make([]float32, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, framesPerBuffer, &buf)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	for offset := 0; offset < len(samples); offset += framesPerBuffer {
		n := copy(buf, samples[offset:])
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing to output stream: %w", err)
		}
	}
	return nil
}
