// Package format renders a document model back to text in the canonical
// style: fixed indentation, deterministic attribute wrapping, self-closing
// childless elements, and comments kept in their original positions.
// Formatting is idempotent and never reorders attributes or children; only
// whitespace decisions belong to the formatter.
package format

import (
	"strings"

	"github.com/moqui-tools/moquilint/internal/xmldom"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// Options controls the fixed style. Zero values select the defaults.
type Options struct {
	Indent   int // spaces per nesting level, default 4
	MaxWidth int // attribute wrapping threshold, default 120
}

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = 4
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 120
	}
	return o
}

// Canonical renders the document in canonical form. The output always
// carries the XML declaration and a trailing newline.
func Canonical(doc *xmldom.Document, opts Options) string {
	opts = opts.withDefaults()
	var sb strings.Builder

	sb.WriteString(xmlDeclaration)
	sb.WriteByte('\n')
	for _, n := range doc.Prolog {
		if c, ok := n.(*xmldom.Comment); ok {
			writeComment(&sb, c, 0, opts)
		}
	}
	if doc.Root != nil {
		writeElement(&sb, doc.Root, 0, opts, isContainer(doc.Root))
	}
	for _, n := range doc.Epilog {
		if c, ok := n.(*xmldom.Comment); ok {
			writeComment(&sb, c, 0, opts)
		}
	}
	return sb.String()
}

// Changed reports whether formatting would alter the file.
func Changed(original []byte, doc *xmldom.Document, opts Options) bool {
	return string(original) != Canonical(doc, opts)
}

// isContainer marks the roots whose definition children are separated by
// blank lines, matching the conventional layout of Moqui component files.
func isContainer(el *xmldom.Element) bool {
	return el.Name == "entities" || el.Name == "services"
}

func writeComment(sb *strings.Builder, c *xmldom.Comment, depth int, opts Options) {
	sb.WriteString(strings.Repeat(" ", depth*opts.Indent))
	sb.WriteString("<!--")
	sb.WriteString(c.Data)
	sb.WriteString("-->\n")
}

// hasTextChild decides between block layout and inline layout: any retained
// text makes the content significant, so it is emitted verbatim with no
// added whitespace.
func hasTextChild(el *xmldom.Element) bool {
	for _, c := range el.Children {
		if _, ok := c.(*xmldom.Text); ok {
			return true
		}
	}
	return false
}

func writeElement(sb *strings.Builder, el *xmldom.Element, depth int, opts Options, spaced bool) {
	indent := strings.Repeat(" ", depth*opts.Indent)

	if len(el.Children) == 0 {
		writeStartTag(sb, el, indent, opts, true)
		sb.WriteByte('\n')
		return
	}

	if hasTextChild(el) {
		writeStartTag(sb, el, indent, opts, false)
		for _, c := range el.Children {
			writeInline(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(el.Name)
		sb.WriteString(">\n")
		return
	}

	writeStartTag(sb, el, indent, opts, false)
	sb.WriteByte('\n')
	prevWasElement := false
	for _, c := range el.Children {
		switch n := c.(type) {
		case *xmldom.Element:
			if spaced && prevWasElement {
				sb.WriteByte('\n')
			}
			writeElement(sb, n, depth+1, opts, false)
			prevWasElement = true
		case *xmldom.Comment:
			writeComment(sb, n, depth+1, opts)
			prevWasElement = false
		}
	}
	sb.WriteString(indent)
	sb.WriteString("</")
	sb.WriteString(el.Name)
	sb.WriteString(">\n")
}

// writeInline renders a node with no whitespace decisions at all, used
// inside elements that carry text content.
func writeInline(sb *strings.Builder, n xmldom.Node) {
	switch c := n.(type) {
	case *xmldom.Text:
		sb.WriteString(escapeText(c.Data))
	case *xmldom.Comment:
		sb.WriteString("<!--")
		sb.WriteString(c.Data)
		sb.WriteString("-->")
	case *xmldom.Element:
		if len(c.Children) == 0 {
			sb.WriteByte('<')
			sb.WriteString(c.Name)
			writeInlineAttrs(sb, c)
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('<')
		sb.WriteString(c.Name)
		writeInlineAttrs(sb, c)
		sb.WriteByte('>')
		for _, gc := range c.Children {
			writeInline(sb, gc)
		}
		sb.WriteString("</")
		sb.WriteString(c.Name)
		sb.WriteByte('>')
	}
}

func writeInlineAttrs(sb *strings.Builder, el *xmldom.Element) {
	for _, a := range el.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteByte('"')
	}
}

// writeStartTag writes the indented start tag, wrapping attributes onto
// continuation lines once the line would exceed the configured width.
// Continuation lines are indented two extra levels so wrapped attributes
// read distinctly from child elements.
func writeStartTag(sb *strings.Builder, el *xmldom.Element, indent string, opts Options, selfClose bool) {
	contIndent := indent + strings.Repeat(" ", 2*opts.Indent)
	closeLen := 1
	if selfClose {
		closeLen = 2
	}

	line := indent + "<" + el.Name
	for _, a := range el.Attrs {
		attr := " " + a.Name + `="` + escapeAttr(a.Value) + `"`
		if len(line)+len(attr)+closeLen > opts.MaxWidth && line != indent+"<"+el.Name {
			sb.WriteString(line)
			sb.WriteByte('\n')
			line = contIndent + strings.TrimPrefix(attr, " ")
			continue
		}
		line += attr
	}
	sb.WriteString(line)
	if selfClose {
		sb.WriteString("/>")
	} else {
		sb.WriteByte('>')
	}
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
