// Package project orchestrates a full analysis run: discover definition
// files under the requested paths, parse them concurrently, build the
// resolved index, and evaluate the rule set. Run is a pure function of its
// inputs; the only fatal error besides context cancellation is a requested
// path that does not exist.
package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/rules"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// Options tunes a run. The zero value means: .xml files, one worker per CPU,
// the default rule registry, no overrides.
type Options struct {
	// Extensions filters files found under directories. Explicitly named
	// files bypass the filter.
	Extensions []string
	// Jobs caps parse and rule workers.
	Jobs int
	// Registry of rules to evaluate. Nil means rules.Default().
	Registry *rules.Registry
	// Overrides remaps or disables finding severities by rule id.
	Overrides rules.Overrides
	// DefinitionsOnly skips files whose leading bytes do not contain an
	// entities or services root. The graph command sets this so stray XML
	// under a component directory does not pollute its output.
	DefinitionsOnly bool
}

func (o Options) withDefaults() Options {
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".xml"}
	}
	if o.Jobs < 1 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Registry == nil {
		o.Registry = rules.Default()
	}
	return o
}

// Result is everything a run produced.
type Result struct {
	Files     []string
	Documents []*xmldom.Document
	Index     *index.Index
	Findings  []finding.Finding
}

// DiscoverFiles expands paths into a sorted, deduplicated file list. A path
// naming a file is taken as-is; a path naming a directory is walked
// lexicographically, keeping files with a matching extension and skipping
// hidden directories. A path that cannot be stat'd is a fatal error.
func DiscoverFiles(paths []string, extensions []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if len(extensions) == 0 {
		extensions = []string{".xml"}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if matchExtension(p, extensions) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Run discovers, parses, indexes, and checks. Files that cannot be read or
// parsed contribute an error finding and drop out of the document set; they
// never abort the run.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	files, err := DiscoverFiles(paths, opts.Extensions)
	if err != nil {
		return nil, err
	}

	docs, parseFindings, err := parseAll(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	ix := index.New()
	for _, doc := range docs {
		ix.AddDocument(doc)
	}
	ix.ResolveReferences()

	engine := rules.NewEngine(opts.Registry, opts.Overrides, opts.Jobs)
	findings, err := engine.Run(ctx, docs, ix)
	if err != nil {
		return nil, err
	}

	// Parse and read findings honor the same severity overrides as rule
	// findings.
	findings = append(findings, opts.Overrides.Apply(parseFindings)...)
	finding.Sort(findings)
	findings = finding.Dedup(findings)

	return &Result{Files: files, Documents: docs, Index: ix, Findings: findings}, nil
}

// parseAll parses files concurrently. The returned documents keep the
// lexicographic file order regardless of which worker finished first.
func parseAll(ctx context.Context, files []string, opts Options) ([]*xmldom.Document, []finding.Finding, error) {
	slots := make([]*xmldom.Document, len(files))
	problems := make([][]finding.Finding, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				problems[i] = []finding.Finding{{
					Severity: finding.SeverityError,
					Rule:     "read-error",
					Message:  fmt.Sprintf("cannot read file: %v", err),
					Location: finding.Location{Path: path},
				}}
				return nil
			}
			if opts.DefinitionsOnly && !looksLikeDefinition(data) {
				return nil
			}
			doc, err := xmldom.Parse(path, data)
			if err != nil {
				problems[i] = []finding.Finding{parseFinding(path, err)}
				return nil
			}
			slots[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var docs []*xmldom.Document
	var findings []finding.Finding
	for i := range files {
		if slots[i] != nil {
			docs = append(docs, slots[i])
		}
		findings = append(findings, problems[i]...)
	}
	return docs, findings, nil
}

func parseFinding(path string, err error) finding.Finding {
	f := finding.Finding{
		Severity: finding.SeverityError,
		Rule:     "parse-error",
		Location: finding.Location{Path: path},
	}
	var perr *xmldom.ParseError
	if errors.As(err, &perr) {
		f.Message = perr.Msg
		f.Location.Line = perr.Line
		f.Location.Column = perr.Column
	} else {
		f.Message = err.Error()
	}
	return f
}

// looksLikeDefinition sniffs the leading bytes for an entities or services
// root so directory scans can skip screens, seed data, and build files.
func looksLikeDefinition(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("<entities")) ||
		bytes.Contains(head, []byte("<services"))
}
