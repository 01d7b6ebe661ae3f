// Package rules holds the rule engine: an ordered registry of independent
// checks over parsed documents and the project index. Every rule is a pure
// function of its inputs; the set of findings produced never depends on the
// order rules run in.
package rules

import (
	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// DocumentRule inspects one document against the frozen project index.
// Implementations must not mutate either argument.
type DocumentRule interface {
	// ID is the stable rule family identifier. Findings may carry more
	// specific identifiers within the family (missing-primary-key and
	// multiple-primary-key both belong to the primary-key rule).
	ID() string
	Check(doc *xmldom.Document, ix *index.Index) []finding.Finding
}

// ProjectRule inspects the whole resolved index for cross-document issues.
type ProjectRule interface {
	ID() string
	CheckProject(ix *index.Index) []finding.Finding
}

// Registry is an ordered collection of rules. Order affects nothing but is
// kept stable so the registry itself is deterministic.
type Registry struct {
	document []DocumentRule
	project  []ProjectRule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns the registry with every built-in rule registered.
func Default() *Registry {
	r := NewRegistry()
	r.AddDocument(
		RootElement{},
		DuplicateAttribute{},
		RequiredAttribute{},
		MissingKeyMap{},
		NoFields{},
		PrimaryKey{},
		PrimaryKeyName{},
		RelationshipTypeValue{},
		ServiceNameFormat{},
		Actions{},
		FieldTypeSuffix{},
		UnknownFieldType{},
		ForeignKeyType{},
		UnauthenticatedWrite{},
		DiscouragedTransaction{},
		MissingShortAlias{},
		MissingXSDNamespace{},
		UntypedParameter{},
	)
	r.AddProject(ReferenceIntegrity{})
	return r
}

// AddDocument appends document-scope rules.
func (r *Registry) AddDocument(rules ...DocumentRule) {
	r.document = append(r.document, rules...)
}

// AddProject appends project-scope rules.
func (r *Registry) AddProject(rules ...ProjectRule) {
	r.project = append(r.project, rules...)
}

// DocumentRules returns the registered document-scope rules in order.
func (r *Registry) DocumentRules() []DocumentRule {
	return r.document
}

// ProjectRules returns the registered project-scope rules in order.
func (r *Registry) ProjectRules() []ProjectRule {
	return r.project
}
