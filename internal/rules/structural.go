package rules

import (
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/finding"
	"github.com/moqui-tools/moquilint/internal/index"
	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// RootElement checks that a definition file is rooted at a recognized
// container element.
type RootElement struct{}

func (RootElement) ID() string { return "root-element" }

func (RootElement) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindUnknown {
		return nil
	}
	return []finding.Finding{{
		Severity: finding.SeverityError,
		Rule:     "root-element",
		Message:  fmt.Sprintf("root element <%s> is not an entity or service container (expected <entities> or <services>)", doc.Root.Name),
		Location: doc.Loc(doc.Root),
	}}
}

// DuplicateAttribute surfaces the parse-time diagnostics for attributes
// declared twice on one element.
type DuplicateAttribute struct{}

func (DuplicateAttribute) ID() string { return "duplicate-attribute" }

func (DuplicateAttribute) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	return doc.Diagnostics
}

// RequiredAttribute checks the presence of the attributes every definition
// element needs: entity-name/package on entities, name/type on fields,
// verb/noun on services, type/related on relationships, field-name on
// key-maps, and name on parameters. A field joined to a resolved related
// entity through a key-map inherits its type from the related primary key,
// so the type requirement is waived for it.
type RequiredAttribute struct{}

func (RequiredAttribute) ID() string { return "required-attribute" }

func (RequiredAttribute) Check(doc *xmldom.Document, ix *index.Index) []finding.Finding {
	var out []finding.Finding
	missing := func(el *xmldom.Element, attr, subject string) {
		out = append(out, finding.Finding{
			Severity: finding.SeverityError,
			Rule:     "required-attribute",
			Message:  fmt.Sprintf("%s is missing required attribute %q", subject, attr),
			Location: doc.Loc(el),
		})
	}

	switch doc.Kind {
	case xmldom.KindEntity:
		for _, entity := range doc.DefinitionElements() {
			name := entity.Attr("entity-name")
			subject := "entity"
			if name != "" {
				subject = fmt.Sprintf("entity %q", name)
			}
			if name == "" {
				missing(entity, "entity-name", subject)
			}
			if entity.Attr("package") == "" {
				missing(entity, "package", subject)
			}
			fkFields := resolvedKeyMapFields(entity, ix)
			for _, field := range entity.FindChildren("field") {
				if field.Attr("name") == "" {
					missing(field, "name", subject+" field")
					continue
				}
				if field.Attr("type") == "" && !fkFields[field.Attr("name")] {
					missing(field, "type", fmt.Sprintf("%s field %q", subject, field.Attr("name")))
				}
			}
			for _, rel := range entity.FindChildren("relationship") {
				if rel.Attr("type") == "" {
					missing(rel, "type", subject+" relationship")
				}
				if rel.Attr("related") == "" {
					missing(rel, "related", subject+" relationship")
				}
				for _, km := range rel.FindChildren("key-map") {
					if km.Attr("field-name") == "" {
						missing(km, "field-name", subject+" key-map")
					}
				}
			}
		}

	case xmldom.KindService:
		for _, service := range doc.DefinitionElements() {
			verb, noun := service.Attr("verb"), service.Attr("noun")
			subject := "service"
			if verb != "" && noun != "" {
				subject = fmt.Sprintf("service %s#%s", verb, noun)
			}
			if verb == "" {
				missing(service, "verb", subject)
			}
			if noun == "" {
				missing(service, "noun", subject)
			}
			for _, parent := range []string{"in-parameters", "out-parameters"} {
				block := service.FindChild(parent)
				if block == nil {
					continue
				}
				for _, p := range block.FindChildren("parameter") {
					if p.Attr("name") == "" {
						missing(p, "name", subject+" parameter")
					}
				}
			}
		}
	}
	return out
}

// resolvedKeyMapFields collects the names of fields a key-map joins to a
// related entity that exists in the index. Only resolved relationships
// count: a key-map on a dangling relationship proves nothing about the
// field's type.
func resolvedKeyMapFields(entity *xmldom.Element, ix *index.Index) map[string]bool {
	if ix == nil {
		return nil
	}
	var fields map[string]bool
	for _, rel := range entity.FindChildren("relationship") {
		related := rel.Attr("related")
		if related == "" || ix.LookupEntity(related) == nil {
			continue
		}
		for _, km := range rel.FindChildren("key-map") {
			name := km.Attr("field-name")
			if name == "" {
				continue
			}
			if fields == nil {
				fields = make(map[string]bool)
			}
			fields[name] = true
		}
	}
	return fields
}

// MissingKeyMap checks that every relationship declares at least one
// key-map joining the two entities.
type MissingKeyMap struct{}

func (MissingKeyMap) ID() string { return "missing-key-map" }

func (MissingKeyMap) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		for _, rel := range entity.FindChildren("relationship") {
			if len(rel.FindChildren("key-map")) > 0 {
				continue
			}
			subject := fmt.Sprintf("entity %q relationship", entity.Attr("entity-name"))
			if related := rel.Attr("related"); related != "" {
				subject = fmt.Sprintf("entity %q relationship to %q", entity.Attr("entity-name"), related)
			}
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "missing-key-map",
				Message:  subject + " has no <key-map> elements",
				Location: doc.Loc(rel),
			})
		}
	}
	return out
}

// NoFields checks that every entity declares at least one field.
type NoFields struct{}

func (NoFields) ID() string { return "no-fields" }

func (NoFields) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		if len(entity.FindChildren("field")) == 0 {
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "no-fields",
				Message:  fmt.Sprintf("entity %q declares no fields", entity.Attr("entity-name")),
				Location: doc.Loc(entity),
			})
		}
	}
	return out
}

// PrimaryKey checks that every entity has exactly one primary-key field.
// Zero yields missing-primary-key, two or more yields multiple-primary-key
// naming every flagged field.
type PrimaryKey struct{}

func (PrimaryKey) ID() string { return "primary-key" }

func (PrimaryKey) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindEntity {
		return nil
	}
	var out []finding.Finding
	for _, entity := range doc.DefinitionElements() {
		var pkNames []string
		for _, field := range entity.FindChildren("field") {
			if field.Attr("is-pk") == "true" && field.Attr("name") != "" {
				pkNames = append(pkNames, field.Attr("name"))
			}
		}
		switch {
		case len(pkNames) == 0:
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "missing-primary-key",
				Message:  fmt.Sprintf("entity %q has no primary-key field", entity.Attr("entity-name")),
				Location: doc.Loc(entity),
			})
		case len(pkNames) > 1:
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "multiple-primary-key",
				Message: fmt.Sprintf("entity %q has %d primary-key fields: %s",
					entity.Attr("entity-name"), len(pkNames), strings.Join(pkNames, ", ")),
				Location: doc.Loc(entity),
			})
		}
	}
	return out
}

// Actions checks that every service has a non-empty <actions> block. A
// service that only declares an interface (type="interface") is exempt.
type Actions struct{}

func (Actions) ID() string { return "actions" }

func (Actions) Check(doc *xmldom.Document, _ *index.Index) []finding.Finding {
	if doc.Kind != xmldom.KindService {
		return nil
	}
	var out []finding.Finding
	for _, service := range doc.DefinitionElements() {
		if service.Attr("type") == "interface" {
			continue
		}
		name := service.Attr("verb") + "#" + service.Attr("noun")
		actions := service.FindChild("actions")
		if actions == nil {
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "missing-actions",
				Message:  fmt.Sprintf("service %s has no <actions> block", name),
				Location: doc.Loc(service),
			})
			continue
		}
		if strings.TrimSpace(actions.TextContent()) == "" && len(actions.ChildElements()) == 0 {
			out = append(out, finding.Finding{
				Severity: finding.SeverityError,
				Rule:     "empty-actions",
				Message:  fmt.Sprintf("service %s has an empty <actions> block", name),
				Location: doc.Loc(actions),
			})
		}
	}
	return out
}
