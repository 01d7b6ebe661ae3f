package rules

import (
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// fieldTypes is the Moqui field type vocabulary.
var fieldTypes = map[string]bool{
	"id": true, "id-long": true,
	"text-short": true, "text-medium": true, "text-long": true, "text-very-long": true,
	"number-integer": true, "number-float": true, "number-decimal": true,
	"currency-amount": true, "currency-precise": true,
	"date": true, "time": true, "date-time": true, "timestamp": true,
	"boolean": true, "text-indicator": true, "binary-very-long": true,
}

// idTypes are the types compatible with one another for key joins.
var idTypes = map[string]bool{"id": true, "id-long": true}

// UnknownFieldType flags field types outside the Moqui vocabulary.
type UnknownFieldType struct{}

func (UnknownFieldType) ID() string { return "unknown-field-type" }

func (UnknownFieldType) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		for _, field := range entity.FindChildren("field") {
			t := field.Attr("type")
			if t == "" || fieldTypes[t] {
				continue
			}
			out = append(out, finding.Finding{
				Severity: finding.SeverityInfo,
				Rule:     "unknown-field-type",
				Message: fmt.Sprintf("field %q has unknown type %q",
					field.Attr("name"), t),
				Location: doc.Loc(field),
			})
		}
	}
	return out
}

// FieldTypeSuffix flags fields whose name suggests a different type: *Id
// fields that are not type id, and *Date fields that are not a date type.
type FieldTypeSuffix struct{}

func (FieldTypeSuffix) ID() string { return "field-type-suffix" }

func (FieldTypeSuffix) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		for _, field := range entity.FindChildren("field") {
			name, t := field.Attr("name"), field.Attr("type")
			if name == "" || t == "" {
				continue
			}
			switch {
			case strings.HasSuffix(name, "Id") && !idTypes[t]:
				out = append(out, finding.Finding{
					Severity: finding.SeverityInfo,
					Rule:     "field-type-suffix",
					Message:  fmt.Sprintf("field %q ends in Id but has type %q (expected id)", name, t),
					Location: doc.Loc(field),
				})
			case strings.HasSuffix(name, "Date") && !strings.Contains(t, "date"):
				out = append(out, finding.Finding{
					Severity: finding.SeverityInfo,
					Rule:     "field-type-suffix",
					Message:  fmt.Sprintf("field %q ends in Date but has type %q (expected a date type)", name, t),
					Location: doc.Loc(field),
				})
			}
		}
	}
	return out
}

// ForeignKeyType checks that each key-map field shares a compatible declared
// type with the primary key it joins to on the related entity. Compatible
// means the identical type, or both types in the id family.
type ForeignKeyType struct{}

func (ForeignKeyType) ID() string { return "foreign-key-type" }

func (ForeignKeyType) Check(doc *xmldom.Document, ix *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity || ix == nil {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		qname := index.EntityQName(entity.Attr("package"), entity.Attr("entity-name"))
		def := ix.Entity(qname)
		if def == nil {
			continue
		}
		for _, rel := range def.Relationships {
			if rel.Resolved == nil {
				continue
			}
			for _, km := range rel.KeyMaps {
				local := def.Field(km.FieldName)
				remote := rel.Resolved.Field(km.RelatedFieldName())
				if local == nil || remote == nil {
					continue // dangling-field-reference territory
				}
				if compatibleTypes(local.Type, remote.Type) {
					continue
				}
				out = append(out, finding.Finding{
					Severity: finding.SeverityWarning,
					Rule:     "foreign-key-type",
					Message: fmt.Sprintf("field %q (type %q) joins %s.%s (type %q); the types are not compatible",
						local.Name, local.Type, rel.Resolved.QName, remote.Name, remote.Type),
					Location: def.Doc.Loc(km.Element),
				})
			}
		}
	}
	return out
}

func compatibleTypes(a, b string) bool {
	if a == "" || b == "" {
		return true // missing type is required-attribute territory
	}
	if a == b {
		return true
	}
	return idTypes[a] && idTypes[b]
}
