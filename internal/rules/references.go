package rules

import (
	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
)

// ReferenceIntegrity re-surfaces the duplicate-definition and
// dangling-reference findings collected while the index was built and
// resolved, so they flow through the same reporting path as every other
// rule.
type ReferenceIntegrity struct{}

func (ReferenceIntegrity) ID() string { return "reference-integrity" }

func (ReferenceIntegrity) CheckProject(ix *index.Index) []finding.Finding {
	if ix == nil {
		return nil
	}
	return ix.Findings()
}
