// Package skeleton builds minimally valid document models for new service
// and entity definitions. The interactive generator collects the options and
// hands them here; it never constructs document trees itself.
package skeleton

import (
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// Pattern selects the service template to generate.
type Pattern string

const (
	PatternCreate Pattern = "create"
	PatternUpdate Pattern = "update"
	PatternDelete Pattern = "delete"
	PatternGet    Pattern = "get"
	PatternFind   Pattern = "find"
	PatternCustom Pattern = "custom"
)

// Options is the enumerated option set for a skeleton.
type Options struct {
	Verb    string  // service verb, lowercase
	Noun    string  // service noun / entity name, PascalCase
	Package string  // entity package, defaults to com.example
	Pattern Pattern // service template, defaults to the verb when recognized
	Entity  string  // backing entity qualified name, defaults to Package.Noun

	// Entity skeleton extras.
	Audit    bool // add enable-audit-log to non-key fields
	Localize bool // add enable-localization to text fields
}

const (
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	entitySchema   = "http://moqui.org/xsd/entity-definition-3.xsd"
	serviceSchema  = "http://moqui.org/xsd/service-definition-3.xsd"
	defaultPackage = "com.example"
)

// Build produces a document model for the requested kind. The result is
// canonical-formatter-ready and passes the default rule set cleanly.
func Build(kind xmldom.Kind, opts Options) (*xmldom.Document, error) {
	if opts.Noun == "" {
		return nil, fmt.Errorf("building skeleton: a noun is required")
	}
	if opts.Package == "" {
		opts.Package = defaultPackage
	}
	if opts.Entity == "" {
		opts.Entity = opts.Package + "." + opts.Noun
	}

	switch kind {
	case xmldom.KindEntity:
		return buildEntity(opts), nil
	case xmldom.KindService:
		return buildService(opts)
	default:
		return nil, fmt.Errorf("building skeleton: unsupported kind %q", kind)
	}
}

func el(name string, attrs ...string) *xmldom.Element {
	e := &xmldom.Element{Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, xmldom.Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return e
}

func rootFor(kind xmldom.Kind) *xmldom.Element {
	name, schema := "entities", entitySchema
	if kind == xmldom.KindService {
		name, schema = "services", serviceSchema
	}
	return el(name,
		"xmlns:xsi", xsiNamespace,
		"xsi:noNamespaceSchemaLocation", schema)
}

func buildEntity(opts Options) *xmldom.Document {
	noun := opts.Noun
	id := lowerFirst(noun) + "Id"

	pk := el("field", "name", id, "type", "id", "is-pk", "true")
	name := el("field", "name", lowerFirst(noun)+"Name", "type", "text-medium")
	description := el("field", "name", "description", "type", "text-long")
	status := el("field", "name", "statusId", "type", "id")

	for _, f := range []*xmldom.Element{name, description, status} {
		if opts.Audit {
			f.Attrs = append(f.Attrs, xmldom.Attr{Name: "enable-audit-log", Value: "true"})
		}
	}
	if opts.Localize {
		for _, f := range []*xmldom.Element{name, description} {
			f.Attrs = append(f.Attrs, xmldom.Attr{Name: "enable-localization", Value: "true"})
		}
	}

	entity := el("entity", "entity-name", noun, "package", opts.Package)
	entity.Children = []xmldom.Node{pk, name, description, status}

	root := rootFor(xmldom.KindEntity)
	root.Children = []xmldom.Node{entity}
	return &xmldom.Document{Root: root, Kind: xmldom.KindEntity}
}

func buildService(opts Options) (*xmldom.Document, error) {
	if opts.Verb == "" {
		return nil, fmt.Errorf("building skeleton: a verb is required for services")
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = defaultPattern(opts.Verb)
	}

	service := el("service",
		"verb", opts.Verb,
		"noun", opts.Noun,
		"authenticate", "true")

	in := el("in-parameters")
	out := el("out-parameters")
	actions := el("actions")

	noun := lowerFirst(opts.Noun)
	idParam := noun + "Id"

	switch pattern {
	case PatternCreate:
		in.Children = []xmldom.Node{
			el("parameter", "name", noun+"Name", "type", "text-medium", "required", "true"),
			el("parameter", "name", "description", "type", "text-long"),
			el("parameter", "name", "statusId", "type", "id"),
		}
		out.Children = []xmldom.Node{
			el("parameter", "name", idParam, "type", "id"),
		}
		actions.Children = []xmldom.Node{
			el("entity-create", "entity-name", opts.Entity, "include-nonpk", "true"),
		}

	case PatternUpdate:
		in.Children = []xmldom.Node{
			el("parameter", "name", idParam, "type", "id", "required", "true"),
			el("parameter", "name", noun+"Name", "type", "text-medium"),
			el("parameter", "name", "description", "type", "text-long"),
			el("parameter", "name", "statusId", "type", "id"),
		}
		actions.Children = []xmldom.Node{
			el("entity-find-one", "entity-name", opts.Entity, "value-field", noun),
			el("entity-update", "entity-name", opts.Entity, "include-nonpk", "true"),
		}

	case PatternDelete:
		in.Children = []xmldom.Node{
			el("parameter", "name", idParam, "type", "id", "required", "true"),
		}
		actions.Children = []xmldom.Node{
			el("entity-delete", "entity-name", opts.Entity),
		}

	case PatternGet:
		in.Children = []xmldom.Node{
			el("parameter", "name", idParam, "type", "id", "required", "true"),
		}
		out.Children = []xmldom.Node{
			el("parameter", "name", noun, "type", "Map"),
		}
		actions.Children = []xmldom.Node{
			el("entity-find-one", "entity-name", opts.Entity, "value-field", noun),
		}

	case PatternFind:
		in.Children = []xmldom.Node{
			el("parameter", "name", "statusId", "type", "id"),
			el("parameter", "name", "orderByField", "type", "text-short", "default-value", noun+"Name"),
			el("parameter", "name", "pageIndex", "type", "number-integer", "default-value", "0"),
			el("parameter", "name", "pageSize", "type", "number-integer", "default-value", "20"),
		}
		out.Children = []xmldom.Node{
			el("parameter", "name", noun+"List", "type", "List"),
			el("parameter", "name", noun+"ListCount", "type", "number-integer"),
		}
		find := el("entity-find", "entity-name", opts.Entity, "list", noun+"List")
		find.Children = []xmldom.Node{
			el("econdition", "field-name", "statusId", "ignore-if-empty", "true"),
			el("order-by", "field-name", "${orderByField}"),
		}
		actions.Children = []xmldom.Node{find}

	case PatternCustom:
		in.Children = []xmldom.Node{
			el("parameter", "name", idParam, "type", "id", "required", "true"),
		}
		actions.Children = []xmldom.Node{
			el("log", "level", "info", "message", fmt.Sprintf("implement %s#%s", opts.Verb, opts.Noun)),
		}

	default:
		return nil, fmt.Errorf("building skeleton: unknown pattern %q", pattern)
	}

	service.Children = append(service.Children, in)
	if len(out.Children) > 0 {
		service.Children = append(service.Children, out)
	}
	service.Children = append(service.Children, actions)

	root := rootFor(xmldom.KindService)
	root.Children = []xmldom.Node{service}
	return &xmldom.Document{Root: root, Kind: xmldom.KindService}, nil
}

// defaultPattern maps recognized verbs to their template, anything else to
// the custom template.
func defaultPattern(verb string) Pattern {
	switch verb {
	case "create", "update", "delete", "get", "find":
		return Pattern(verb)
	default:
		return PatternCustom
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
