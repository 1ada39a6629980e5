package align

import (
	"fmt"
	"sort"
)

// AnchorTable is the ordered, per-text-file anchor array: frame
// indices on the text (synthesized-audio) side, strictly ascending,
// each paired with the opaque fragment id it starts.
type AnchorTable struct {
	Frames      []int
	FragmentIDs []string
}

// Validate checks the strict-ascending invariant; a violation is
// fatal, since it indicates a buggy synthesizer rather than anything
// the aligner can route around.
func (t AnchorTable) Validate() error {
	if len(t.Frames) != len(t.FragmentIDs) {
		return fmt.Errorf("%w: %d frames vs %d fragment ids", ErrAnchorNotMonotone, len(t.Frames), len(t.FragmentIDs))
	}
	for i := 1; i < len(t.Frames); i++ {
		if t.Frames[i] <= t.Frames[i-1] {
			return fmt.Errorf("%w: frame %d (%s) does not exceed frame %d (%s)",
				ErrAnchorNotMonotone, t.Frames[i], t.FragmentIDs[i], t.Frames[i-1], t.FragmentIDs[i-1])
		}
	}
	return nil
}

// Len reports the number of anchors remaining in the table.
func (t AnchorTable) Len() int { return len(t.Frames) }

// Slice returns the tail of the table starting at anchor index from,
// with frame indices rebased by subtracting textFrameOffset — the
// rebasing the stream controller applies when it carries an unread
// tail of a text file into the next iteration.
func (t AnchorTable) Slice(from, textFrameOffset int) AnchorTable {
	frames := make([]int, len(t.Frames)-from)
	for i, f := range t.Frames[from:] {
		frames[i] = f - textFrameOffset
	}
	return AnchorTable{Frames: frames, FragmentIDs: append([]string(nil), t.FragmentIDs[from:]...)}
}

// FragmentTiming is one projected fragment: its opaque id and its
// begin/end time on the audio side, in seconds.
type FragmentTiming struct {
	FragmentID   string
	BeginSeconds float64
	EndSeconds   float64
}

// ProjectAnchors maps every anchor whose frame falls within the
// matched region of path onto an audio-side timing, extending the low
// end of that region by one anchor so a fragment straddling the start
// of the match still receives a timing.
//
// It returns the projected fragments plus consumedTo, the index of
// the first anchor NOT covered this iteration (== len(table.Frames)
// when every anchor was consumed).
func ProjectAnchors(path Path, table AnchorTable, audioStartFrameOffset int, framePeriod float64) (fragments []FragmentTiming, consumedTo int, err error) {
	if len(path) == 0 {
		return nil, 0, fmt.Errorf("%w: cannot project anchors over an empty path", ErrEmptyMatch)
	}
	if err := table.Validate(); err != nil {
		return nil, 0, err
	}

	f0, f1 := path[0].I, path[len(path)-1].I

	k0 := sort.Search(len(table.Frames), func(i int) bool { return table.Frames[i] >= f0 })
	k1 := sort.Search(len(table.Frames), func(i int) bool { return table.Frames[i] > f1 })
	if k0 > 0 {
		k0--
	}

	pathText := make([]int, len(path))
	for i, pt := range path {
		pathText[i] = pt.I
	}

	timings := make([]float64, k1-k0+1)
	for k := k0; k < k1; k++ {
		idx := sort.Search(len(pathText), func(i int) bool { return pathText[i] >= table.Frames[k] })
		if idx == len(path) {
			idx = len(path) - 1
		}
		timings[k-k0] = float64(path[idx].J+audioStartFrameOffset) * framePeriod
	}
	timings[k1-k0] = float64(path[len(path)-1].J+audioStartFrameOffset) * framePeriod

	fragments = make([]FragmentTiming, k1-k0)
	for idx := range fragments {
		fragments[idx] = FragmentTiming{
			FragmentID:   table.FragmentIDs[k0+idx],
			BeginSeconds: timings[idx],
			EndSeconds:   timings[idx+1],
		}
	}
	return fragments, k1, nil
}
