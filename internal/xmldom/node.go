// Package xmldom holds the in-memory representation of one parsed Moqui
// definition file: an ordered, attributed element tree that preserves
// element order, attribute order, text content, and comments, so that a
// document can be re-rendered without changing its meaning.
package xmldom

import (
	"github.com/moqui-tools/moquilint/internal/finding"
)

// Kind classifies a document by its root element.
type Kind string

const (
	// KindEntity is a document rooted at <entities> (or a bare <entity>).
	KindEntity Kind = "entity"
	// KindService is a document rooted at <services> (or a bare <service>).
	KindService Kind = "service"
	// KindUnknown is any other root element.
	KindUnknown Kind = "unknown"
)

// Node is one item in a document tree: an *Element, a *Text, or a *Comment.
type Node interface {
	node()
}

// Attr is a single attribute. Attribute order within an element is
// significant for rendering and is preserved exactly as parsed.
type Attr struct {
	Name  string
	Value string
}

// Element is an XML element with its attributes and ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
	Line     int // 1-based line of the start tag
	Column   int // 1-based column of the start tag
}

func (*Element) node() {}

// Text is character data. Whitespace-only text between elements is dropped
// at parse time; retained text is preserved verbatim.
type Text struct {
	Data string
	Line int
}

func (*Text) node() {}

// Comment is an XML comment, retained verbatim and reattached to its
// original position on output.
type Comment struct {
	Data string
	Line int
}

func (*Comment) node() {}

// Document is one parsed definition file.
type Document struct {
	Root        *Element
	Path        string
	Kind        Kind
	Prolog      []Node // comments before the root element
	Epilog      []Node // comments after the root element
	Diagnostics []finding.Finding
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present, even if empty.
func (e *Element) HasAttr(name string) bool {
	for _, a := range e.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FindChildren returns the element children with the given tag name.
func (e *Element) FindChildren(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// FindChild returns the first element child with the given tag name, or nil.
func (e *Element) FindChild(name string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// TextContent concatenates all text descendants of the element.
func (e *Element) TextContent() string {
	var out string
	for _, c := range e.Children {
		switch n := c.(type) {
		case *Text:
			out += n.Data
		case *Element:
			out += n.TextContent()
		}
	}
	return out
}

// Loc returns the element's position within the given file.
func (e *Element) Loc(path string) finding.Location {
	return finding.Location{Path: path, Line: e.Line, Column: e.Column}
}

// Loc returns the position of an element within this document.
func (d *Document) Loc(e *Element) finding.Location {
	return e.Loc(d.Path)
}

// DefinitionElements returns the definition elements of the document: the
// <entity> or <service> children of the container root, or the root itself
// when the file holds a single bare definition. Unknown documents have none.
func (d *Document) DefinitionElements() []*Element {
	if d.Root == nil {
		return nil
	}
	switch d.Root.Name {
	case "entity", "service":
		return []*Element{d.Root}
	case "entities":
		return d.Root.FindChildren("entity")
	case "services":
		return d.Root.FindChildren("service")
	default:
		return nil
	}
}

// ClassifyRoot maps a root tag name to a document kind.
func ClassifyRoot(name string) Kind {
	switch name {
	case "entities", "entity":
		return KindEntity
	case "services", "service":
		return KindService
	default:
		return KindUnknown
	}
}
