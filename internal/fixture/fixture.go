// Package fixture provides file-based, non-production
// implementations of the align package's three external-collaborator
// interfaces (Synthesizer, FeatureExtractor, AudioConverter). They
// read pre-synthesized anchors and pre-extracted MFCC matrices from
// disk rather than performing real text-to-speech or audio decoding,
// both of which stay out of scope for this module. They exist so
// cmd/aligner and the test suite can drive the core end-to-end without
// a real TTS/DSP pipeline attached.
package fixture

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tkuhlman/afaligner/internal/align"
)

// anchorRecord is the YAML shape of one entry in a "*.anchors.yaml"
// sidecar file.
type anchorRecord struct {
	StartSeconds float64 `yaml:"start_seconds"`
	FragmentID   string  `yaml:"fragment_id"`
}

// Synthesizer reads "<text, extension stripped>.anchors.yaml" next to
// textPath and reports "<text, extension stripped>.synth.mfcc" (see
// WriteMatrix) as the synthesized audio's feature file.
type Synthesizer struct{}

func (Synthesizer) Synthesize(_ context.Context, textPath string) ([]align.Anchor, string, error) {
	stem := strings.TrimSuffix(textPath, filepath.Ext(textPath))
	anchorsPath := stem + ".anchors.yaml"

	data, err := os.ReadFile(anchorsPath)
	if err != nil {
		return nil, "", fmt.Errorf("fixture: reading anchors %s: %w", anchorsPath, err)
	}
	var records []anchorRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, "", fmt.Errorf("fixture: parsing anchors %s: %w", anchorsPath, err)
	}

	anchors := make([]align.Anchor, len(records))
	for i, r := range records {
		anchors[i] = align.Anchor{StartSeconds: r.StartSeconds, FragmentID: r.FragmentID}
	}
	return anchors, stem + ".synth.mfcc", nil
}

// FeatureExtractor reads the raw MFCC matrix format WriteMatrix
// produces: an 8-byte row count, an 8-byte column count, then
// rows*cols little-endian float64 values, row-major.
type FeatureExtractor struct{}

func (FeatureExtractor) MFCC(_ context.Context, audioPath string) (align.Matrix, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return align.Matrix{}, fmt.Errorf("fixture: opening mfcc %s: %w", audioPath, err)
	}
	defer f.Close()
	return ReadMatrix(bufio.NewReader(f))
}

// PassthroughConverter implements AudioConverter by copying src to
// dst unchanged. Real container decoding is out of scope for this
// module; this exists only so wiring code that expects an
// align.AudioConverter has something to call.
type PassthroughConverter struct{}

func (PassthroughConverter) Convert(_ context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fixture: opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("fixture: creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("fixture: copying %s to %s: %w", src, dst, err)
	}
	return nil
}

// ReadMatrix reads the binary matrix format WriteMatrix produces.
func ReadMatrix(r io.Reader) (align.Matrix, error) {
	var rows, cols int64
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return align.Matrix{}, fmt.Errorf("fixture: reading row count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return align.Matrix{}, fmt.Errorf("fixture: reading column count: %w", err)
	}
	data := make([]float64, rows*cols)
	if err := binary.Read(r, binary.LittleEndian, &data); err != nil {
		return align.Matrix{}, fmt.Errorf("fixture: reading matrix data: %w", err)
	}
	return align.NewMatrix(data, int(rows), int(cols))
}

// WriteMatrix writes m in the binary format ReadMatrix reads back:
// an 8-byte row count, an 8-byte column count, then rows*cols
// little-endian float64 values, row-major. It is exported for tests
// and for any offline tool that precomputes fixture MFCC files.
func WriteMatrix(w io.Writer, data []float64, rows, cols int) error {
	if int64(len(data)) != int64(rows)*int64(cols) {
		return fmt.Errorf("fixture: %d values for %d rows x %d cols", len(data), rows, cols)
	}
	if err := binary.Write(w, binary.LittleEndian, int64(rows)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(cols)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}
