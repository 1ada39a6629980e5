package align

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSynthesizer and stubExtractor replace the out-of-scope TTS/MFCC
// pipeline with fixed, by-name lookups so the controller's streaming
// decisions can be exercised deterministically.
type stubSynthesizer struct {
	anchorsByText map[string][]Anchor
	audioByText   map[string]string
}

func (s stubSynthesizer) Synthesize(_ context.Context, textPath string) ([]Anchor, string, error) {
	return s.anchorsByText[textPath], s.audioByText[textPath], nil
}

type stubExtractor struct {
	mfccByPath map[string]Matrix
}

func (s stubExtractor) MFCC(_ context.Context, audioPath string) (Matrix, error) {
	return s.mfccByPath[audioPath], nil
}

// rawWithDummyColumn builds a matrix with a leading throwaway column,
// as prepareMFCC expects to drop.
func rawWithDummyColumn(t *testing.T, values []float64) Matrix {
	t.Helper()

	var data []float64
	for _, v := range values {
		data = append(data, 999, v)
	}
	var m, err = NewMatrix(data, len(values), 2)
	require.NoError(t, err)
	return m
}

// TestController_Run_SplitsOneTextFileAcrossTwoAudioFiles exercises
// the controller's tail-carrying logic: a single text file's
// fragments straddle a boundary between two audio files, so the
// first fragment must land on the first audio file and the second on
// the second, with the matching anchor table rebased in between.
func TestController_Run_SplitsOneTextFileAcrossTwoAudioFiles(t *testing.T) {
	var synth = stubSynthesizer{
		anchorsByText: map[string][]Anchor{
			"text1": {
				{StartSeconds: 0, FragmentID: "frag1"},
				{StartSeconds: 2, FragmentID: "frag2"},
			},
		},
		audioByText: map[string]string{"text1": "text1-synth"},
	}
	var extractor = stubExtractor{
		mfccByPath: map[string]Matrix{
			"text1-synth": rawWithDummyColumn(t, []float64{1, 2, 3, 4}),
			"audio1":      rawWithDummyColumn(t, []float64{1, 2}),
			"audio2":      rawWithDummyColumn(t, []float64{3, 4}),
		},
	}

	var opts = Options{SkipPenalty: 0.1, Radius: 200, FramePeriod: 1.0, TailPolicy: AdvanceAudio, AnchorRounding: RoundDown}
	var c = NewController(opts, synth, extractor, nil)

	var mapping, err = c.Run(context.Background(), []string{"text1"}, []string{"audio1", "audio2"}, "", "")

	require.NoError(t, err)
	require.Contains(t, mapping, "text1")
	require.Contains(t, mapping["text1"], "frag1")
	require.Contains(t, mapping["text1"], "frag2")

	assert.Equal(t, "audio1", mapping["text1"]["frag1"].AudioFile)
	assert.Equal(t, "0:00:00.000", mapping["text1"]["frag1"].BeginTime)
	assert.Equal(t, "0:00:01.000", mapping["text1"]["frag1"].EndTime)

	assert.Equal(t, "audio2", mapping["text1"]["frag2"].AudioFile)
	assert.Equal(t, "0:00:00.000", mapping["text1"]["frag2"].BeginTime)
	assert.Equal(t, "0:00:01.000", mapping["text1"]["frag2"].EndTime)
}

func TestController_Run_AudioExhaustionTerminatesCleanlyWithPartialMapping(t *testing.T) {
	var synth = stubSynthesizer{
		anchorsByText: map[string][]Anchor{
			"text1": {{StartSeconds: 0, FragmentID: "frag1"}},
			"text2": {{StartSeconds: 0, FragmentID: "frag2"}},
		},
		audioByText: map[string]string{
			"text1": "text1-synth",
			"text2": "text2-synth",
		},
	}
	var extractor = stubExtractor{
		mfccByPath: map[string]Matrix{
			"text1-synth": rawWithDummyColumn(t, []float64{1, 2}),
			"text2-synth": rawWithDummyColumn(t, []float64{1, 2}),
			"audio1":      rawWithDummyColumn(t, []float64{1, 2}),
		},
	}

	var opts = DefaultOptions()
	opts.SkipPenalty = 0.1
	opts.FramePeriod = 1.0
	var c = NewController(opts, synth, extractor, nil)

	var mapping, err = c.Run(context.Background(), []string{"text1", "text2"}, []string{"audio1"}, "", "")

	require.NoError(t, err)
	require.Contains(t, mapping, "text1")
	assert.Contains(t, mapping["text1"], "frag1")
	// text2 was pulled (its map entry exists) but never matched against
	// any audio before the audio stream ran out.
	assert.Empty(t, mapping["text2"])
}

func TestController_Run_EmptyMatchIsFatal(t *testing.T) {
	var synth = stubSynthesizer{
		anchorsByText: map[string][]Anchor{"text1": {{StartSeconds: 0, FragmentID: "frag1"}}},
		audioByText:   map[string]string{"text1": "text1-synth"},
	}
	var extractor = stubExtractor{
		mfccByPath: map[string]Matrix{
			"text1-synth": rawWithDummyColumn(t, []float64{0}),
			"audio1":      rawWithDummyColumn(t, []float64{1000}),
		},
	}

	var opts = DefaultOptions()
	opts.SkipPenalty = 0
	var c = NewController(opts, synth, extractor, nil)

	var _, err = c.Run(context.Background(), []string{"text1"}, []string{"audio1"}, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyMatch)
}
