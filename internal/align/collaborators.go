package align

import "context"

// Anchor is one (start_seconds, fragment_id) pair as produced by a
// Synthesizer. Anchors for one text file are sorted strictly ascending
// on StartSeconds.
type Anchor struct {
	StartSeconds float64
	FragmentID   string
}

// Synthesizer turns a text file into synthesized audio plus the
// anchors marking where each fragment starts inside it. Text-to-speech
// synthesis itself is out of scope for this module; only this
// interface is specified.
type Synthesizer interface {
	Synthesize(ctx context.Context, textPath string) (anchors []Anchor, synthesizedAudioPath string, err error)
}

// FeatureExtractor produces the MFCC matrix for an audio file,
// including the zeroth coefficient (the core drops it). Audio
// decoding and MFCC extraction themselves are out of scope; only this
// interface is specified.
type FeatureExtractor interface {
	MFCC(ctx context.Context, audioPath string) (Matrix, error)
}

// AudioConverter decodes a container to PCM WAV suitable for MFCC
// extraction. Out of scope beyond this interface.
type AudioConverter interface {
	Convert(ctx context.Context, src, dst string) error
}
