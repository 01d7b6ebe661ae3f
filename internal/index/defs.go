// Package index aggregates parsed definition documents into project-wide
// symbol tables: entity name to entity definition, service name to service
// definition, and a derived relationship graph between entities. The index
// is built in two passes (collect, then resolve) so that references between
// files resolve regardless of file order.
package index

import (
	"fmt"

	"github.com/moqui-tools/moquilint/internal/xmldom"
)

// QualifiedName is the package-prefixed unique identifier of an entity
// ("com.example.Product") or the verb#noun name of a service.
type QualifiedName string

// EntityQName builds the qualified name for an entity. Entities without a
// package keep their bare name.
func EntityQName(pkg, name string) QualifiedName {
	if pkg == "" {
		return QualifiedName(name)
	}
	return QualifiedName(pkg + "." + name)
}

// ServiceQName builds the verb#noun qualified name for a service.
func ServiceQName(verb, noun string) QualifiedName {
	return QualifiedName(verb + "#" + noun)
}

// FieldDef is one declared entity field.
type FieldDef struct {
	Name      string
	Type      string
	IsPK      bool
	NotNull   bool
	Audit     bool // enable-audit-log="true"
	Localized bool // enable-localization="true"
	Element   *xmldom.Element
}

// KeyMap is one field pair of a relationship. RelatedField is empty when the
// mapping reuses the same field name on both sides.
type KeyMap struct {
	FieldName    string
	RelatedField string
	Element      *xmldom.Element
}

// RelatedFieldName returns the field name expected on the related entity.
func (k KeyMap) RelatedFieldName() string {
	if k.RelatedField != "" {
		return k.RelatedField
	}
	return k.FieldName
}

// RelationshipDef is one declared reference from an entity to another.
type RelationshipDef struct {
	Type       string // one, many, or one-nofk
	Related    string // related entity name as written (may be unqualified)
	ShortAlias string
	KeyMaps    []KeyMap
	Element    *xmldom.Element

	// Resolved is filled by Index.ResolveReferences; nil when dangling.
	Resolved *EntityDef
}

// EntityDef is one entity definition with its owning document.
type EntityDef struct {
	Name          string
	Package       string
	QName         QualifiedName
	Fields        []FieldDef
	Relationships []RelationshipDef
	Doc           *xmldom.Document
	Element       *xmldom.Element
}

// Field returns the named field definition, or nil.
func (e *EntityDef) Field(name string) *FieldDef {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// PrimaryKeys returns the fields flagged is-pk, in declaration order.
func (e *EntityDef) PrimaryKeys() []FieldDef {
	var pks []FieldDef
	for _, f := range e.Fields {
		if f.IsPK {
			pks = append(pks, f)
		}
	}
	return pks
}

// ParamDirection says whether a parameter is an input or an output.
type ParamDirection string

const (
	ParamIn  ParamDirection = "in"
	ParamOut ParamDirection = "out"
)

// ParameterDef is one service parameter.
type ParameterDef struct {
	Name      string
	Direction ParamDirection
	Type      string
	Required  bool
	Default   string
	Element   *xmldom.Element
}

// ServiceDef is one service definition with its owning document.
type ServiceDef struct {
	Verb         string
	Noun         string
	QName        QualifiedName
	Authenticate string // raw authenticate attribute, "" when absent
	Transaction  string // raw transaction attribute, "" when absent
	Parameters   []ParameterDef
	Doc          *xmldom.Document
	Element      *xmldom.Element
}

// InParameters returns the input parameters in declaration order.
func (s *ServiceDef) InParameters() []ParameterDef {
	var out []ParameterDef
	for _, p := range s.Parameters {
		if p.Direction == ParamIn {
			out = append(out, p)
		}
	}
	return out
}

// String renders the service name for messages.
func (s *ServiceDef) String() string {
	return fmt.Sprintf("%s#%s", s.Verb, s.Noun)
}
