package format

import (
	"fmt"
	"os"

	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// Status describes what happened to one file in format mode.
type Status int

const (
	// StatusUnchanged means the file was already canonical.
	StatusUnchanged Status = iota
	// StatusRewritten means the file was (or would be) rewritten.
	StatusRewritten
)

// Rewrite formats one parsed document back to its file. When the content is
// already canonical nothing is written. With backup enabled the original
// bytes are saved to path+suffix before the rewrite.
func Rewrite(doc *xmldom.Document, original []byte, opts Options, backup bool, backupSuffix string) (Status, error) {
	canonical := Canonical(doc, opts)
	if string(original) == canonical {
		return StatusUnchanged, nil
	}

	if backup {
		if err := os.WriteFile(doc.Path+backupSuffix, original, 0o644); err != nil {
			return StatusUnchanged, fmt.Errorf("writing backup for %s: %w", doc.Path, err)
		}
	}
	if err := os.WriteFile(doc.Path, []byte(canonical), 0o644); err != nil {
		return StatusUnchanged, fmt.Errorf("rewriting %s: %w", doc.Path, err)
	}
	return StatusRewritten, nil
}
