package index

import (
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// Index is the project-wide symbol table. Build it by calling AddDocument
// for every parsed document in deterministic order (lexicographic by file
// path), then ResolveReferences exactly once before reading relationships.
// After resolution the index is read-only; rules may share it across
// goroutines.
type Index struct {
	entities map[QualifiedName]*EntityDef
	services map[QualifiedName]*ServiceDef

	// byBareName supports Moqui-style lookup of an entity by its
	// unqualified name when that name is unambiguous project-wide.
	byBareName map[string][]*EntityDef

	entityOrder  []QualifiedName
	serviceOrder []QualifiedName

	findings []finding.Finding
	resolved bool
}

// New returns an empty index.
func New() *Index {
	return &Index{
		entities:   make(map[QualifiedName]*EntityDef),
		services:   make(map[QualifiedName]*ServiceDef),
		byBareName: make(map[string][]*EntityDef),
	}
}

// AddDocument extracts every definition from the document into the index.
// A name collision keeps the first-seen definition and records a
// duplicate-definition finding pointing at both locations.
func (ix *Index) AddDocument(doc *xmldom.Document) {
	switch doc.Kind {
	case xmldom.KindEntity:
		for _, el := range doc.DefinitionElements() {
			ix.addEntity(doc, el)
		}
	case xmldom.KindService:
		for _, el := range doc.DefinitionElements() {
			ix.addService(doc, el)
		}
	}
}

func (ix *Index) addEntity(doc *xmldom.Document, el *xmldom.Element) {
	def := extractEntity(doc, el)
	if def.Name == "" {
		// Structural rules report the missing entity-name; an anonymous
		// entity cannot be indexed.
		return
	}
	if first, ok := ix.entities[def.QName]; ok {
		ix.findings = append(ix.findings, finding.Finding{
			Severity: finding.SeverityError,
			Rule:     "duplicate-definition",
			Message: fmt.Sprintf("entity %s is already defined at %s",
				def.QName, first.Doc.Loc(first.Element)),
			Location: doc.Loc(el),
		})
		return
	}
	ix.entities[def.QName] = def
	ix.entityOrder = append(ix.entityOrder, def.QName)
	ix.byBareName[def.Name] = append(ix.byBareName[def.Name], def)
}

func (ix *Index) addService(doc *xmldom.Document, el *xmldom.Element) {
	def := extractService(doc, el)
	if def.Verb == "" || def.Noun == "" {
		// Structural rules report the missing verb/noun.
		return
	}
	if first, ok := ix.services[def.QName]; ok {
		ix.findings = append(ix.findings, finding.Finding{
			Severity: finding.SeverityError,
			Rule:     "duplicate-definition",
			Message: fmt.Sprintf("service %s is already defined at %s",
				def.QName, first.Doc.Loc(first.Element)),
			Location: doc.Loc(el),
		})
		return
	}
	ix.services[def.QName] = def
	ix.serviceOrder = append(ix.serviceOrder, def.QName)
}

func extractEntity(doc *xmldom.Document, el *xmldom.Element) *EntityDef {
	def := &EntityDef{
		Name:    el.Attr("entity-name"),
		Package: el.Attr("package"),
		Doc:     doc,
		Element: el,
	}
	def.QName = EntityQName(def.Package, def.Name)

	for _, f := range el.FindChildren("field") {
		def.Fields = append(def.Fields, FieldDef{
			Name:      f.Attr("name"),
			Type:      f.Attr("type"),
			IsPK:      f.Attr("is-pk") == "true",
			NotNull:   f.Attr("not-null") == "true",
			Audit:     f.Attr("enable-audit-log") == "true",
			Localized: f.Attr("enable-localization") == "true",
			Element:   f,
		})
	}
	for _, r := range el.FindChildren("relationship") {
		rel := RelationshipDef{
			Type:       r.Attr("type"),
			Related:    r.Attr("related"),
			ShortAlias: r.Attr("short-alias"),
			Element:    r,
		}
		for _, km := range r.FindChildren("key-map") {
			rel.KeyMaps = append(rel.KeyMaps, KeyMap{
				FieldName:    km.Attr("field-name"),
				RelatedField: km.Attr("related"),
				Element:      km,
			})
		}
		def.Relationships = append(def.Relationships, rel)
	}
	return def
}

func extractService(doc *xmldom.Document, el *xmldom.Element) *ServiceDef {
	def := &ServiceDef{
		Verb:         el.Attr("verb"),
		Noun:         el.Attr("noun"),
		Authenticate: el.Attr("authenticate"),
		Transaction:  el.Attr("transaction"),
		Doc:          doc,
		Element:      el,
	}
	def.QName = ServiceQName(def.Verb, def.Noun)

	if in := el.FindChild("in-parameters"); in != nil {
		for _, p := range in.FindChildren("parameter") {
			def.Parameters = append(def.Parameters, extractParameter(p, ParamIn))
		}
	}
	if out := el.FindChild("out-parameters"); out != nil {
		for _, p := range out.FindChildren("parameter") {
			def.Parameters = append(def.Parameters, extractParameter(p, ParamOut))
		}
	}
	return def
}

func extractParameter(p *xmldom.Element, dir ParamDirection) ParameterDef {
	def := ParameterDef{
		Name:      p.Attr("name"),
		Direction: dir,
		Type:      p.Attr("type"),
		Required:  p.Attr("required") == "true",
		Default:   p.Attr("default-value"),
		Element:   p,
	}
	if def.Default == "" {
		def.Default = p.Attr("default")
	}
	return def
}

// ResolveReferences runs the second pass: every relationship is looked up in
// the entity table and its key-map fields are checked on both sides.
// Unresolved lookups become dangling-reference findings. The pass is
// idempotent and only annotates the index, never the documents.
func (ix *Index) ResolveReferences() {
	if ix.resolved {
		return
	}
	ix.resolved = true

	for _, qname := range ix.entityOrder {
		def := ix.entities[qname]
		for i := range def.Relationships {
			rel := &def.Relationships[i]
			if rel.Related == "" {
				// Structural rules report the missing attribute.
				continue
			}
			target := ix.LookupEntity(rel.Related)
			if target == nil {
				ix.findings = append(ix.findings, finding.Finding{
					Severity: finding.SeverityError,
					Rule:     "dangling-relationship",
					Message: fmt.Sprintf("entity %s relationship references undefined entity %q",
						def.QName, rel.Related),
					Location: def.Doc.Loc(rel.Element),
				})
				continue
			}
			rel.Resolved = target
			ix.checkKeyMaps(def, rel, target)
		}
	}
}

func (ix *Index) checkKeyMaps(def *EntityDef, rel *RelationshipDef, target *EntityDef) {
	for _, km := range rel.KeyMaps {
		if km.FieldName == "" {
			continue // structural rule territory
		}
		if def.Field(km.FieldName) == nil {
			ix.findings = append(ix.findings, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "dangling-field-reference",
				Message: fmt.Sprintf("key-map field %q is not defined on entity %s",
					km.FieldName, def.QName),
				Location: def.Doc.Loc(km.Element),
			})
		}
		if target.Field(km.RelatedFieldName()) == nil {
			ix.findings = append(ix.findings, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "dangling-field-reference",
				Message: fmt.Sprintf("key-map field %q is not defined on related entity %s",
					km.RelatedFieldName(), target.QName),
				Location: def.Doc.Loc(km.Element),
			})
		}
	}
}

// LookupEntity resolves an entity reference as written in a document: an
// exact qualified name, or an unqualified name when it is unique in the
// project.
func (ix *Index) LookupEntity(name string) *EntityDef {
	if def, ok := ix.entities[QualifiedName(name)]; ok {
		return def
	}
	if !strings.Contains(name, ".") {
		if defs := ix.byBareName[name]; len(defs) == 1 {
			return defs[0]
		}
	}
	return nil
}

// Entity returns the definition for an exact qualified name.
func (ix *Index) Entity(qname QualifiedName) *EntityDef {
	return ix.entities[qname]
}

// Service returns the definition for an exact verb#noun name.
func (ix *Index) Service(qname QualifiedName) *ServiceDef {
	return ix.services[qname]
}

// Entities returns all entity definitions in insertion order, which is
// deterministic when documents are added in sorted path order.
func (ix *Index) Entities() []*EntityDef {
	out := make([]*EntityDef, 0, len(ix.entityOrder))
	for _, q := range ix.entityOrder {
		out = append(out, ix.entities[q])
	}
	return out
}

// Services returns all service definitions in insertion order.
func (ix *Index) Services() []*ServiceDef {
	out := make([]*ServiceDef, 0, len(ix.serviceOrder))
	for _, q := range ix.serviceOrder {
		out = append(out, ix.services[q])
	}
	return out
}

// Findings returns the duplicate-definition and dangling-reference findings
// collected while building and resolving the index.
func (ix *Index) Findings() []finding.Finding {
	return ix.findings
}

// Resolved reports whether ResolveReferences has run.
func (ix *Index) Resolved() bool {
	return ix.resolved
}
