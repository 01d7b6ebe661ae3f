package rules

import (
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// PrimaryKeyName checks the convention that an entity's single primary key
// is named {entityName}Id with a leading lowercase letter. Entities marked
// use-custom-pk="true" opt out.
type PrimaryKeyName struct{}

func (PrimaryKeyName) ID() string { return "primary-key-name" }

func (PrimaryKeyName) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		name := entity.Attr("entity-name")
		if name == "" || entity.Attr("use-custom-pk") == "true" {
			continue
		}
		var pks []*xmldom.Element
		for _, field := range entity.FindChildren("field") {
			if field.Attr("is-pk") == "true" {
				pks = append(pks, field)
			}
		}
		// The convention only applies to single-key entities; composite
		// keys are covered by multiple-primary-key when unintended.
		if len(pks) != 1 {
			continue
		}
		want := lowerFirst(name) + "Id"
		got := pks[0].Attr("name")
		if got != "" && !strings.EqualFold(got, want) {
			out = append(out, finding.Finding{
				Severity: finding.SeverityWarning,
				Rule:     "primary-key-name",
				Message:  fmt.Sprintf("entity %q primary key %q should be named %q", name, got, want),
				Location: doc.Loc(pks[0]),
				Fix:      fmt.Sprintf(`rename the field to %q or mark the entity use-custom-pk="true"`, want),
			})
		}
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// RelationshipTypeValue checks that relationship types use the known
// vocabulary: one, many, or one-nofk.
type RelationshipTypeValue struct{}

func (RelationshipTypeValue) ID() string { return "relationship-type-value" }

func (RelationshipTypeValue) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		for _, rel := range entity.FindChildren("relationship") {
			t := rel.Attr("type")
			if t == "" || t == "one" || t == "many" || t == "one-nofk" {
				continue
			}
			out = append(out, finding.Finding{
				Severity: finding.SeverityWarning,
				Rule:     "relationship-type-value",
				Message: fmt.Sprintf("entity %q relationship type %q is not one of one, many, one-nofk",
					entity.Attr("entity-name"), t),
				Location: doc.Loc(rel),
			})
		}
	}
	return out
}

// ServiceNameFormat checks the verb#noun naming convention: lowercase verb,
// PascalCase noun.
type ServiceNameFormat struct{}

func (ServiceNameFormat) ID() string { return "service-name-format" }

func (ServiceNameFormat) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindService {
		return nil
	}
	var out []finding.Finding
	for _, service := range doc.DefinitionElements() {
		verb, noun := service.Attr("verb"), service.Attr("noun")
		if verb != "" && verb != strings.ToLower(verb) {
			out = append(out, finding.Finding{
				Severity: finding.SeverityWarning,
				Rule:     "service-verb-case",
				Message:  fmt.Sprintf("service verb %q should be lowercase", verb),
				Location: doc.Loc(service),
			})
		}
		if noun != "" && noun[0] >= 'a' && noun[0] <= 'z' {
			out = append(out, finding.Finding{
				Severity: finding.SeverityInfo,
				Rule:     "service-noun-case",
				Message:  fmt.Sprintf("service noun %q should be PascalCase", noun),
				Location: doc.Loc(service),
			})
		}
	}
	return out
}
