package xmldom

import (
	"fmt"
	"strconv"
	"strings"
)

// The lexer is deliberately small: Moqui definition files are plain XML with
// comments, CDATA, and prefixed attributes. The standard encoding/xml
// decoder resolves namespace prefixes away, which loses the exact attribute
// spelling (xsi:noNamespaceSchemaLocation and friends) that the canonical
// formatter must reproduce, so tokens are produced from the raw bytes here.

type tokenKind int

const (
	tokStart tokenKind = iota
	tokEnd
	tokText
	tokComment
	tokProcInst
	tokDirective
	tokEOF
)

type token struct {
	kind        tokenKind
	name        string // tag name for tokStart/tokEnd
	attrs       []Attr
	text        string // decoded text for tokText, raw body for tokComment
	selfClosing bool
	line        int
	col         int
	dupAttrs    []string // attribute names seen more than once in this tag
}

type lexer struct {
	data []byte
	pos  int
	line int
	col  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data, line: 1, col: 1}
}

func (l *lexer) errf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

// SyntaxError is a low-level markup error with its position.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (l *lexer) eof() bool { return l.pos >= len(l.data) }

func (l *lexer) peek() byte { return l.data[l.pos] }

func (l *lexer) advance() byte {
	c := l.data[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

// consume advances past the expected literal or fails.
func (l *lexer) consume(lit string) error {
	if !strings.HasPrefix(string(l.data[l.pos:]), lit) {
		return l.errf(l.line, l.col, "expected %q", lit)
	}
	for range lit {
		l.advance()
	}
	return nil
}

// readUntil advances past the first occurrence of the terminator and returns
// the bytes before it.
func (l *lexer) readUntil(term string) (string, error) {
	start := l.pos
	idx := strings.Index(string(l.data[l.pos:]), term)
	if idx < 0 {
		return "", l.errf(l.line, l.col, "unterminated construct, expected %q", term)
	}
	for l.pos < start+idx+len(term) {
		l.advance()
	}
	return string(l.data[start : start+idx]), nil
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c == '.' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (l *lexer) skipSpace() {
	for !l.eof() && isSpaceByte(l.peek()) {
		l.advance()
	}
}

func (l *lexer) readName() (string, error) {
	start := l.pos
	for !l.eof() && isNameByte(l.peek()) {
		l.advance()
	}
	if l.pos == start {
		return "", l.errf(l.line, l.col, "expected a name")
	}
	return string(l.data[start:l.pos]), nil
}

// next returns the next token. Character data is returned raw-decoded but
// not whitespace-filtered; the parser decides what to keep.
func (l *lexer) next() (token, error) {
	if l.eof() {
		return token{kind: tokEOF, line: l.line, col: l.col}, nil
	}
	line, col := l.line, l.col

	if l.peek() != '<' {
		return l.lexText(line, col)
	}
	l.advance() // '<'

	if l.eof() {
		return token{}, l.errf(line, col, "unexpected end of file after '<'")
	}

	switch {
	case l.peek() == '?':
		body, err := l.readUntil("?>")
		if err != nil {
			return token{}, err
		}
		return token{kind: tokProcInst, text: body, line: line, col: col}, nil

	case strings.HasPrefix(string(l.data[l.pos:]), "!--"):
		if err := l.consume("!--"); err != nil {
			return token{}, err
		}
		body, err := l.readUntil("-->")
		if err != nil {
			return token{}, l.errf(line, col, "unterminated comment")
		}
		return token{kind: tokComment, text: body, line: line, col: col}, nil

	case strings.HasPrefix(string(l.data[l.pos:]), "![CDATA["):
		if err := l.consume("![CDATA["); err != nil {
			return token{}, err
		}
		body, err := l.readUntil("]]>")
		if err != nil {
			return token{}, l.errf(line, col, "unterminated CDATA section")
		}
		return token{kind: tokText, text: body, line: line, col: col}, nil

	case l.peek() == '!':
		// DOCTYPE or other directive; skipped, not retained.
		body, err := l.readUntil(">")
		if err != nil {
			return token{}, err
		}
		return token{kind: tokDirective, text: body, line: line, col: col}, nil

	case l.peek() == '/':
		l.advance()
		name, err := l.readName()
		if err != nil {
			return token{}, err
		}
		l.skipSpace()
		if l.eof() || l.advance() != '>' {
			return token{}, l.errf(line, col, "malformed end tag </%s", name)
		}
		return token{kind: tokEnd, name: name, line: line, col: col}, nil

	default:
		return l.lexStartTag(line, col)
	}
}

func (l *lexer) lexStartTag(line, col int) (token, error) {
	name, err := l.readName()
	if err != nil {
		return token{}, l.errf(line, col, "malformed start tag")
	}
	tok := token{kind: tokStart, name: name, line: line, col: col}
	seen := map[string]bool{}

	for {
		l.skipSpace()
		if l.eof() {
			return token{}, l.errf(line, col, "unterminated element <%s", name)
		}
		switch l.peek() {
		case '>':
			l.advance()
			return tok, nil
		case '/':
			l.advance()
			if l.eof() || l.advance() != '>' {
				return token{}, l.errf(line, col, "malformed self-closing tag <%s", name)
			}
			tok.selfClosing = true
			return tok, nil
		}

		attrLine, attrCol := l.line, l.col
		attrName, err := l.readName()
		if err != nil {
			return token{}, l.errf(attrLine, attrCol, "malformed attribute in <%s>", name)
		}
		l.skipSpace()
		if l.eof() || l.peek() != '=' {
			return token{}, l.errf(attrLine, attrCol, "attribute %s in <%s> has no value", attrName, name)
		}
		l.advance()
		l.skipSpace()
		if l.eof() || (l.peek() != '"' && l.peek() != '\'') {
			return token{}, l.errf(attrLine, attrCol, "attribute %s in <%s> has an unquoted value", attrName, name)
		}
		quote := l.advance()
		raw, err := l.readUntil(string(quote))
		if err != nil {
			return token{}, l.errf(attrLine, attrCol, "unterminated value for attribute %s in <%s>", attrName, name)
		}
		if strings.ContainsRune(raw, '<') {
			return token{}, l.errf(attrLine, attrCol, "unescaped '<' in value of attribute %s", attrName)
		}
		value, err := decodeEntities(raw)
		if err != nil {
			return token{}, l.errf(attrLine, attrCol, "%s in value of attribute %s", err, attrName)
		}
		if seen[attrName] {
			tok.dupAttrs = append(tok.dupAttrs, attrName)
			continue // keep the first occurrence
		}
		seen[attrName] = true
		tok.attrs = append(tok.attrs, Attr{Name: attrName, Value: value})
	}
}

func (l *lexer) lexText(line, col int) (token, error) {
	start := l.pos
	for !l.eof() && l.peek() != '<' {
		l.advance()
	}
	raw := string(l.data[start:l.pos])
	text, err := decodeEntities(raw)
	if err != nil {
		return token{}, l.errf(line, col, "%s", err)
	}
	return token{kind: tokText, text: text, line: line, col: col}, nil
}

// decodeEntities expands the predefined XML entities and numeric character
// references. An unknown or unterminated entity is a parse failure.
func decodeEntities(s string) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			sb.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", fmt.Errorf("unterminated entity reference")
		}
		ref := s[i+1 : i+end]
		switch {
		case ref == "amp":
			sb.WriteByte('&')
		case ref == "lt":
			sb.WriteByte('<')
		case ref == "gt":
			sb.WriteByte('>')
		case ref == "quot":
			sb.WriteByte('"')
		case ref == "apos":
			sb.WriteByte('\'')
		case strings.HasPrefix(ref, "#x") || strings.HasPrefix(ref, "#X"):
			n, err := strconv.ParseInt(ref[2:], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid character reference &%s;", ref)
			}
			sb.WriteRune(rune(n))
		case strings.HasPrefix(ref, "#"):
			n, err := strconv.ParseInt(ref[1:], 10, 32)
			if err != nil {
				return "", fmt.Errorf("invalid character reference &%s;", ref)
			}
			sb.WriteRune(rune(n))
		default:
			return "", fmt.Errorf("unknown entity reference &%s;", ref)
		}
		i += end + 1
	}
	return sb.String(), nil
}
