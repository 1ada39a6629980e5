package align

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FragmentRecord is one mapping entry: a fragment's resolved audio
// file and begin/end timestamps.
type FragmentRecord struct {
	TextFile  string `json:"text_file"`
	AudioFile string `json:"audio_file"`
	BeginTime string `json:"begin_time"`
	EndTime   string `json:"end_time"`
}

// Mapping is the nested text_file -> fragment_id -> record structure
// that is the core's output.
type Mapping map[string]map[string]FragmentRecord

// Controller walks two independent file streams, calling FastDTWBD
// and the anchor projector, and decides which side (if any) to
// advance.
type Controller struct {
	Options     Options
	Synthesizer Synthesizer
	Extractor   FeatureExtractor
	Logger      *log.Logger
}

// NewController builds a Controller, falling back to the log
// package's default logger if logger is nil.
func NewController(opts Options, synth Synthesizer, extractor FeatureExtractor, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{Options: opts, Synthesizer: synth, Extractor: extractor, Logger: logger}
}

// Run drives the controller to completion over textPaths and
// audioPaths, which must already be in a deterministic (typically
// lexicographic-by-name) order. It returns the mapping built so far: a
// clean termination (one stream exhausted) returns the accumulated
// mapping with a nil error; a fatal error discards the accumulated
// mapping and returns a nil mapping alongside the error.
func (c *Controller) Run(ctx context.Context, textPaths, audioPaths []string, outputTextPrefix, outputAudioPrefix string) (Mapping, error) {
	mapping := Mapping{}

	advanceText, advanceAudio := true, true
	ti, ai := 0, 0

	var (
		textName, audioName             string
		outputTextName, outputAudioName string
		textMFCC, audioMFCC             Matrix
		anchors                         AnchorTable
		audioStartFrameOffset           int
	)

	for {
		if advanceText {
			if ti >= len(textPaths) {
				c.Logger.Info("text stream exhausted, terminating cleanly", "fragments_mapped", len(mapping))
				return mapping, nil
			}
			textPath := textPaths[ti]
			ti++
			textName = filepath.Base(textPath)
			outputTextName = filepath.Join(outputTextPrefix, textName)
			mapping[outputTextName] = map[string]FragmentRecord{}

			rawAnchors, synthesizedAudioPath, err := c.Synthesizer.Synthesize(ctx, textPath)
			if err != nil {
				return nil, fmt.Errorf("synthesize %s: %w", textPath, err)
			}

			frames := make([]int, len(rawAnchors))
			fragmentIDs := make([]string, len(rawAnchors))
			for i, a := range rawAnchors {
				frames[i] = c.Options.AnchorFrame(a.StartSeconds)
				fragmentIDs[i] = a.FragmentID
			}
			anchors = AnchorTable{Frames: frames, FragmentIDs: fragmentIDs}
			if err := anchors.Validate(); err != nil {
				return nil, fmt.Errorf("anchors for %s: %w", textPath, err)
			}

			raw, err := c.Extractor.MFCC(ctx, synthesizedAudioPath)
			if err != nil {
				return nil, fmt.Errorf("mfcc %s: %w", synthesizedAudioPath, err)
			}
			textMFCC, err = prepareMFCC(raw, synthesizedAudioPath)
			if err != nil {
				return nil, err
			}
		}

		if advanceAudio {
			if ai >= len(audioPaths) {
				c.Logger.Info("audio stream exhausted, terminating cleanly", "fragments_mapped", len(mapping))
				return mapping, nil
			}
			audioPath := audioPaths[ai]
			ai++
			audioName = filepath.Base(audioPath)
			outputAudioName = filepath.Join(outputAudioPrefix, audioName)

			raw, err := c.Extractor.MFCC(ctx, audioPath)
			if err != nil {
				return nil, fmt.Errorf("mfcc %s: %w", audioPath, err)
			}
			audioMFCC, err = prepareMFCC(raw, audioPath)
			if err != nil {
				return nil, err
			}
			audioStartFrameOffset = 0
		}

		_, path, err := FastDTWBD(textMFCC, audioMFCC, c.Options.SkipPenalty, c.Options.Radius)
		if err != nil {
			return nil, err
		}
		if len(path) == 0 {
			c.Logger.Error("no match found, aborting alignment",
				"text", textName, "audio", audioName, "skip_penalty", c.Options.SkipPenalty)
			return nil, fmt.Errorf("%w: between %q and %q (try raising skip_penalty above %g)",
				ErrEmptyMatch, textName, audioName, c.Options.SkipPenalty)
		}

		fragments, consumedTo, err := ProjectAnchors(path, anchors, audioStartFrameOffset, c.Options.FramePeriod)
		if err != nil {
			return nil, err
		}
		for _, f := range fragments {
			mapping[outputTextName][f.FragmentID] = FragmentRecord{
				TextFile:  outputTextName,
				AudioFile: outputAudioName,
				BeginTime: TimeToStr(f.BeginSeconds),
				EndTime:   TimeToStr(f.EndSeconds),
			}
		}

		lastMatchedTextFrame := path[len(path)-1].I
		lastMatchedAudioFrame := path[len(path)-1].J
		m := audioMFCC.Rows()

		advanceText = consumedTo == anchors.Len()
		if !advanceText {
			textMFCC = textMFCC.Slice(lastMatchedTextFrame)
			anchors = anchors.Slice(consumedTo, lastMatchedTextFrame)
		}

		switch {
		case lastMatchedAudioFrame == m-1:
			advanceAudio = true
		case advanceText:
			advanceAudio = false
		case c.Options.TailPolicy == AdvanceAudio:
			// Ambiguous tail: both streams have residual content.
			// The default keeps audio moving to avoid stalling, at
			// the cost of discarding the small remaining audio tail.
			advanceAudio = true
		default:
			// AdvanceText: drop the text tail and pull the next text
			// file, keeping the audio tail for it.
			advanceText = true
			advanceAudio = false
		}
		if !advanceAudio {
			audioMFCC = audioMFCC.Slice(lastMatchedAudioFrame)
			audioStartFrameOffset += lastMatchedAudioFrame
		}
	}
}

// prepareMFCC drops the zeroth MFCC coefficient and validates the
// resulting matrix is non-empty.
func prepareMFCC(raw Matrix, identity string) (Matrix, error) {
	if raw.Rows() == 0 {
		return Matrix{}, fmt.Errorf("%w: %s has zero frames", ErrMalformedMatrix, identity)
	}
	m, err := raw.DropLeadingColumn()
	if err != nil {
		return Matrix{}, fmt.Errorf("%s: %w", identity, err)
	}
	return m, nil
}
