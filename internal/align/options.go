package align

// TailPolicy selects which side the stream controller advances when
// both the text and audio streams have residual, unconsumed content
// after an iteration (the "ambiguous tail" case).
type TailPolicy int

const (
	// AdvanceAudio keeps pulling more audio while text still has a
	// tail. This is the documented, legacy behavior and the default:
	// it avoids stalling but can be wrong when the true residual
	// content is on the text side (an unread chapter).
	AdvanceAudio TailPolicy = iota
	// AdvanceText pulls more text instead, on the theory that an
	// audio tail usually represents trailing silence or credits
	// rather than unsynthesized content.
	AdvanceText
)

// AnchorRounding selects how an anchor's start time in seconds is
// converted to a frame index.
type AnchorRounding int

const (
	// RoundDown truncates t/δ, biasing every anchor up to one frame
	// early. This is the legacy behavior, preserved for
	// compatibility with mappings produced by older runs.
	RoundDown AnchorRounding = iota
	// RoundNearest rounds t/δ to the nearest frame.
	RoundNearest
)

// Options is the resolved configuration the stream controller runs
// with. Zero value is not valid; use DefaultOptions.
type Options struct {
	// SkipPenalty is the per-frame cost charged for boundary content
	// excluded from the match ("p").
	SkipPenalty float64
	// Radius is the FastDTWBD search-band radius ("r").
	Radius int
	// FramePeriod is the duration of one frame in seconds (δ).
	FramePeriod float64
	// TailPolicy governs the ambiguous-tail case.
	TailPolicy TailPolicy
	// AnchorRounding governs anchor-to-frame conversion.
	AnchorRounding AnchorRounding
}

// DefaultOptions returns the baseline configuration a run uses absent
// any overrides.
func DefaultOptions() Options {
	return Options{
		SkipPenalty:    0.75,
		Radius:         200,
		FramePeriod:    0.040,
		TailPolicy:     AdvanceAudio,
		AnchorRounding: RoundDown,
	}
}

// AnchorFrame converts an anchor start time in seconds to a frame
// index using the configured rounding policy.
func (o Options) AnchorFrame(seconds float64) int {
	f := seconds / o.FramePeriod
	if o.AnchorRounding == RoundNearest {
		if f >= 0 {
			return int(f + 0.5)
		}
		return int(f - 0.5)
	}
	return int(f)
}
