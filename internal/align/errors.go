package align

import "errors"

// Error kinds a caller can match with errors.Is. All of them are
// fatal to the run that produced them: the aligner is a pipeline and
// a partial mapping built on top of a failed stage is not trustworthy.
var (
	// ErrEmptyMatch is returned when DTWBD finds every admissible
	// path dominated by pure boundary skipping: no real match exists
	// at the given skip penalty.
	ErrEmptyMatch = errors.New("align: no match found (consider raising skip_penalty)")

	// ErrMalformedMatrix flags a feature matrix with zero rows or a
	// column count that does not agree with its peer.
	ErrMalformedMatrix = errors.New("align: malformed feature matrix")

	// ErrAnchorNotMonotone flags an anchor table that is not sorted
	// strictly ascending by frame index, which indicates a buggy
	// synthesizer rather than anything the aligner can route around.
	ErrAnchorNotMonotone = errors.New("align: anchor table is not strictly increasing")
)
