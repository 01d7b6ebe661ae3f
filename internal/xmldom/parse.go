package xmldom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moqui-tools/moquilint/internal/finding"
)

// ParseError reports a malformed document. Parsing is all-or-nothing: when a
// ParseError is returned no Document is.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Parse builds a Document from file bytes. Element order, attribute order,
// text, and comments are preserved; whitespace-only text between elements is
// dropped because the canonical formatter regenerates it. A duplicate
// attribute within an element is recorded as a document diagnostic, keeping
// the first occurrence.
func Parse(path string, data []byte) (*Document, error) {
	lx := newLexer(data)
	doc := &Document{Path: path, Kind: KindUnknown}

	var stack []*Element

	appendChild := func(n Node) {
		switch {
		case len(stack) > 0:
			top := stack[len(stack)-1]
			top.Children = append(top.Children, n)
		case doc.Root == nil:
			doc.Prolog = append(doc.Prolog, n)
		default:
			doc.Epilog = append(doc.Epilog, n)
		}
	}

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, wrapSyntax(path, err)
		}

		switch tok.kind {
		case tokEOF:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return nil, &ParseError{Path: path, Line: open.Line, Column: open.Column,
					Msg: fmt.Sprintf("unterminated element <%s>", open.Name)}
			}
			if doc.Root == nil {
				return nil, &ParseError{Path: path, Msg: "no root element"}
			}
			return doc, nil

		case tokProcInst, tokDirective:
			// XML declarations and DOCTYPEs are regenerated canonically.

		case tokComment:
			appendChild(&Comment{Data: tok.text, Line: tok.line})

		case tokText:
			if strings.TrimSpace(tok.text) == "" {
				continue
			}
			if len(stack) == 0 {
				return nil, &ParseError{Path: path, Line: tok.line, Column: tok.col,
					Msg: "character data outside the root element"}
			}
			appendChild(&Text{Data: tok.text, Line: tok.line})

		case tokStart:
			el := &Element{Name: tok.name, Attrs: tok.attrs, Line: tok.line, Column: tok.col}
			for _, dup := range tok.dupAttrs {
				doc.Diagnostics = append(doc.Diagnostics, finding.Finding{
					Severity: finding.SeverityError,
					Rule:     "duplicate-attribute",
					Message:  fmt.Sprintf("attribute %q appears more than once on <%s>", dup, tok.name),
					Location: finding.Location{Path: path, Line: tok.line, Column: tok.col},
				})
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, &ParseError{Path: path, Line: tok.line, Column: tok.col,
						Msg: fmt.Sprintf("second root element <%s>", tok.name)}
				}
				doc.Root = el
				doc.Kind = ClassifyRoot(el.Name)
			} else {
				appendChild(el)
			}
			if !tok.selfClosing {
				stack = append(stack, el)
			}

		case tokEnd:
			if len(stack) == 0 {
				return nil, &ParseError{Path: path, Line: tok.line, Column: tok.col,
					Msg: fmt.Sprintf("unexpected end tag </%s>", tok.name)}
			}
			open := stack[len(stack)-1]
			if open.Name != tok.name {
				return nil, &ParseError{Path: path, Line: tok.line, Column: tok.col,
					Msg: fmt.Sprintf("end tag </%s> does not match <%s>", tok.name, open.Name)}
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func wrapSyntax(path string, err error) error {
	var syn *SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Path: path, Line: syn.Line, Column: syn.Column, Msg: syn.Msg}
	}
	return &ParseError{Path: path, Msg: err.Error()}
}
