package align

import (
	"fmt"
	"math"
)

// TimeToStr formats seconds as the canonical "H:MM:SS.mmm" timestamp:
// H has no leading zero, MM/SS are zero-padded to 2 digits, mmm to 3.
// Sub-millisecond precision is truncated, not rounded. Negative inputs
// are not defined. seconds is first rounded to the nearest
// microsecond, so a value such as 1.001, whose float64 form lies just
// below 1.001, still formats as 0:00:01.001.
//
// lestrrat-go/strftime (used elsewhere in this repo for the log run
// tag) has no verb for an unpadded hour count beyond
// 24 or for truncated milliseconds, so the canonical mapping-record
// timestamp is built directly rather than through it.
func TimeToStr(seconds float64) string {
	totalMillis := int64(math.Round(seconds*1_000_000)) / 1000
	hours := totalMillis / 3_600_000
	rem := totalMillis % 3_600_000
	minutes := rem / 60_000
	rem %= 60_000
	secs := rem / 1000
	millis := rem % 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// ParseTimeStr inverts TimeToStr, recovering seconds to millisecond
// precision. Used by round-trip tests and by tooling that reads back
// a previously rendered mapping.
func ParseTimeStr(s string) (float64, error) {
	var hours, minutes, secs, millis int64
	if _, err := fmt.Sscanf(s, "%d:%d:%d.%d", &hours, &minutes, &secs, &millis); err != nil {
		return 0, fmt.Errorf("align: malformed timestamp %q: %w", s, err)
	}
	total := hours*3_600_000 + minutes*60_000 + secs*1000 + millis
	return float64(total) / 1000, nil
}
