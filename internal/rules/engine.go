package rules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// Overrides adjusts rule output per project: a finding's rule id can be
// mapped to a different severity or to "off" to drop it entirely. Keys are
// finding rule ids, values are "error", "warning", "info", or "off".
type Overrides map[string]string

// Validate checks every override value up front so a typo in the rule-set
// file fails the run instead of silently keeping the default severity.
func (o Overrides) Validate() error {
	for id, v := range o {
		if v == "off" {
			continue
		}
		if _, err := finding.ParseSeverity(v); err != nil {
			return fmt.Errorf("rule %q: %w", id, err)
		}
	}
	return nil
}

// Apply remaps severities and drops findings for rules overridden to "off".
// The input slice is reused. Callers producing findings outside the engine
// (parse and read errors) route them through here so overrides cover every
// rule id uniformly.
func (o Overrides) Apply(findings []finding.Finding) []finding.Finding {
	if len(o) == 0 {
		return findings
	}
	out := findings[:0]
	for _, f := range findings {
		v, ok := o[f.Rule]
		if !ok {
			out = append(out, f)
			continue
		}
		if v == "off" {
			continue
		}
		sev, err := finding.ParseSeverity(v)
		if err != nil {
			// Validate() rejects bad values before the run starts.
			out = append(out, f)
			continue
		}
		f.Severity = sev
		out = append(out, f)
	}
	return out
}

// Engine runs a registry over a document set and its index. Per-document
// rules run concurrently up to the worker limit; the index must be fully
// resolved before Run is called, and project rules only start after every
// document rule has finished.
type Engine struct {
	registry  *Registry
	overrides Overrides
	workers   int
}

// NewEngine builds an engine. A workers value below 1 means sequential.
func NewEngine(registry *Registry, overrides Overrides, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{registry: registry, overrides: overrides, workers: workers}
}

// Run evaluates every rule and returns the deduplicated findings in
// presentation order. Parse diagnostics attached to the documents surface
// through the duplicate-attribute rule; index findings surface through the
// reference-integrity rule.
func (e *Engine) Run(ctx context.Context, docs []*xmldom.Document, ix *index.Index) ([]finding.Finding, error) {
	perDoc := make([][]finding.Finding, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var out []finding.Finding
			for _, rule := range e.registry.DocumentRules() {
				out = append(out, rule.Check(doc, ix)...)
			}
			perDoc[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Hard barrier: cross-document rules see the complete picture only.
	var all []finding.Finding
	for _, fs := range perDoc {
		all = append(all, fs...)
	}
	for _, rule := range e.registry.ProjectRules() {
		all = append(all, rule.CheckProject(ix)...)
	}

	all = e.overrides.Apply(all)
	finding.Sort(all)
	return finding.Dedup(all), nil
}
