package fixture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadMatrix_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var data = []float64{1, 2, 3, 4, 5, 6}

	require.NoError(t, WriteMatrix(&buf, data, 2, 3))

	var m, err = ReadMatrix(&buf)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, []float64{1, 2, 3}, m.Row(0))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
}

func TestWriteMatrix_RejectsMismatchedLength(t *testing.T) {
	var buf bytes.Buffer

	var err = WriteMatrix(&buf, []float64{1, 2, 3}, 2, 2)

	require.Error(t, err)
}

func TestFeatureExtractor_MFCC(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "audio.mfcc")

	var f, err = os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteMatrix(f, []float64{1, 2, 3, 4}, 2, 2))
	require.NoError(t, f.Close())

	var extractor FeatureExtractor
	var m, mfccErr = extractor.MFCC(context.Background(), path)

	require.NoError(t, mfccErr)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 2, m.Cols())
}

func TestSynthesizer_Synthesize(t *testing.T) {
	var dir = t.TempDir()
	var textPath = filepath.Join(dir, "chapter1.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o644))

	var anchorsPath = filepath.Join(dir, "chapter1.anchors.yaml")
	require.NoError(t, os.WriteFile(anchorsPath, []byte(`
- start_seconds: 0
  fragment_id: frag1
- start_seconds: 1.5
  fragment_id: frag2
`), 0o644))

	var synth Synthesizer
	var anchors, synthAudioPath, err = synth.Synthesize(context.Background(), textPath)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chapter1.synth.mfcc"), synthAudioPath)
	require.Len(t, anchors, 2)
	assert.Equal(t, "frag1", anchors[0].FragmentID)
	assert.InDelta(t, 0, anchors[0].StartSeconds, 1e-9)
	assert.Equal(t, "frag2", anchors[1].FragmentID)
	assert.InDelta(t, 1.5, anchors[1].StartSeconds, 1e-9)
}

func TestSynthesizer_Synthesize_MissingAnchorsFile(t *testing.T) {
	var dir = t.TempDir()
	var textPath = filepath.Join(dir, "chapter1.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello"), 0o644))

	var synth Synthesizer
	var _, _, err = synth.Synthesize(context.Background(), textPath)

	require.Error(t, err)
}

func TestPassthroughConverter_Convert(t *testing.T) {
	var dir = t.TempDir()
	var src = filepath.Join(dir, "src.bin")
	var dst = filepath.Join(dir, "dst.bin")
	require.NoError(t, os.WriteFile(src, []byte("some audio bytes"), 0o644))

	var conv PassthroughConverter
	require.NoError(t, conv.Convert(context.Background(), src, dst))

	var got, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "some audio bytes", string(got))
}
