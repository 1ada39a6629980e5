// Package render serializes an align.Mapping for downstream
// consumers. SMIL rendering is out of scope here; JSON is the one
// renderer this repository carries so the CLI produces something a
// caller can actually use.
package render

import (
	"encoding/json"
	"io"

	"github.com/tkuhlman/afaligner/internal/align"
)

// JSON writes mapping to w as indented JSON, one object keyed by text
// file and then by fragment id.
func JSON(w io.Writer, mapping align.Mapping) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mapping)
}
