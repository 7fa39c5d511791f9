package ev3xml

import (
	"bytes"
	"fmt"
)

// Tokenizer scans raw XML bytes into a stream of structural events.
type Tokenizer struct {
	src  []byte
	pos  int // current byte offset
	line int // current line (1-based)
	col  int // current column (1-based)
}

// NewTokenizer creates a new Tokenizer for the given source bytes.
func NewTokenizer(src []byte) *Tokenizer {
	return &Tokenizer{src: src, line: 1, col: 1}
}

// Tokenize materializes the full event sequence for src, terminated by an
// EventEOF event. Whitespace-only character data is dropped; all other text
// is emitted as EventText.
func Tokenize(src []byte) ([]Event, error) {
	t := NewTokenizer(src)
	var events []Event
	for {
		ev, err := t.scan()
		if err != nil {
			return nil, err
		}
		if ev.Kind == EventText && len(ev.Text) == 0 {
			continue
		}
		events = append(events, ev)
		if ev.Kind == EventEOF {
			return events, nil
		}
	}
}

func (t *Tokenizer) currentPos() Position {
	return Position{Line: t.line, Column: t.col, Offset: t.pos}
}

func (t *Tokenizer) atEnd() bool {
	return t.pos >= len(t.src)
}

func (t *Tokenizer) peek() byte {
	if t.atEnd() {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) advance() byte {
	ch := t.src[t.pos]
	t.pos++
	if ch == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return ch
}

func (t *Tokenizer) skipWhitespace() {
	for !t.atEnd() {
		switch t.peek() {
		case ' ', '\t', '\r', '\n':
			t.advance()
		default:
			return
		}
	}
}

func (t *Tokenizer) scan() (Event, error) {
	if t.atEnd() {
		return Event{Kind: EventEOF, Pos: t.currentPos()}, nil
	}
	if t.peek() == '<' {
		return t.scanMarkup()
	}
	return t.scanText()
}

// scanText collects character data up to the next '<'. Surrounding
// whitespace is trimmed; an all-whitespace run yields an empty Text event
// that Tokenize drops.
func (t *Tokenizer) scanText() (Event, error) {
	pos := t.currentPos()
	start := t.pos
	for !t.atEnd() && t.peek() != '<' {
		t.advance()
	}
	text := bytes.TrimSpace(t.src[start:t.pos])
	return Event{Kind: EventText, Text: text, Pos: pos}, nil
}

func (t *Tokenizer) scanMarkup() (Event, error) {
	pos := t.currentPos()
	t.advance() // consume '<'

	switch {
	case t.hasPrefix("!--"):
		return t.scanComment(pos)
	case t.hasPrefix("![CDATA["):
		return t.scanCData(pos)
	case t.peek() == '!':
		return t.scanDocType(pos)
	case t.peek() == '?':
		return t.scanDeclOrPI(pos)
	case t.peek() == '/':
		return t.scanEndTag(pos)
	default:
		return t.scanStartOrEmptyTag(pos)
	}
}

// hasPrefix reports whether the unconsumed source starts with s.
func (t *Tokenizer) hasPrefix(s string) bool {
	return bytes.HasPrefix(t.src[t.pos:], []byte(s))
}

func (t *Tokenizer) consume(n int) {
	for i := 0; i < n; i++ {
		t.advance()
	}
}

// scanUntil consumes bytes up to and including the terminator, returning
// the bytes before it. Fails if the terminator never appears.
func (t *Tokenizer) scanUntil(terminator string, pos Position, what string) ([]byte, error) {
	idx := bytes.Index(t.src[t.pos:], []byte(terminator))
	if idx < 0 {
		return nil, &SyntaxError{Message: fmt.Sprintf("unterminated %s", what), Pos: pos}
	}
	content := t.src[t.pos : t.pos+idx]
	t.consume(idx + len(terminator))
	return content, nil
}

func (t *Tokenizer) scanComment(pos Position) (Event, error) {
	t.consume(3) // consume !--
	if _, err := t.scanUntil("-->", pos, "comment"); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventComment, Pos: pos}, nil
}

func (t *Tokenizer) scanCData(pos Position) (Event, error) {
	t.consume(8) // consume ![CDATA[
	text, err := t.scanUntil("]]>", pos, "CDATA section")
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventCData, Text: text, Pos: pos}, nil
}

func (t *Tokenizer) scanDocType(pos Position) (Event, error) {
	t.advance() // consume '!'
	text, err := t.scanUntil(">", pos, "doctype")
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventDocType, Text: text, Pos: pos}, nil
}

func (t *Tokenizer) scanDeclOrPI(pos Position) (Event, error) {
	t.advance() // consume '?'
	content, err := t.scanUntil("?>", pos, "processing instruction")
	if err != nil {
		return Event{}, err
	}

	target := content
	if idx := bytes.IndexAny(content, " \t\r\n"); idx >= 0 {
		target = content[:idx]
	}
	if !bytes.Equal(target, []byte("xml")) {
		return Event{Kind: EventPI, Text: content, Pos: pos}, nil
	}

	decl, err := parseDeclaration(content, pos)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventDecl, Decl: decl, Pos: pos}, nil
}

// parseDeclaration extracts version/encoding/standalone from the body of an
// <?xml ... ?> prolog. The raw text is preserved verbatim.
func parseDeclaration(content []byte, pos Position) (Declaration, error) {
	d := Declaration{Raw: "<?" + string(content) + "?>"}

	sub := NewTokenizer(content[len("xml"):])
	attrs, err := sub.scanAttrs(pos, '\x00')
	if err != nil {
		return Declaration{}, err
	}
	for _, attr := range attrs {
		switch string(attr.Name) {
		case "version":
			d.Version = string(attr.Value)
		case "encoding":
			d.Encoding = string(attr.Value)
		case "standalone":
			d.Standalone = string(attr.Value)
		default:
			return Declaration{}, &SyntaxError{
				Message: fmt.Sprintf("unknown xml declaration field %q", attr.Name),
				Pos:     pos,
			}
		}
	}
	if d.Version == "" {
		return Declaration{}, &SyntaxError{Message: "xml declaration missing version", Pos: pos}
	}
	return d, nil
}

func (t *Tokenizer) scanEndTag(pos Position) (Event, error) {
	t.advance() // consume '/'
	content, err := t.scanUntil(">", pos, "end tag")
	if err != nil {
		return Event{}, err
	}
	name, prefix := splitQName(bytes.TrimSpace(content))
	if len(name) == 0 {
		return Event{}, &SyntaxError{Message: "end tag with empty name", Pos: pos}
	}
	return Event{Kind: EventEndTag, Name: name, Prefix: prefix, Pos: pos}, nil
}

func (t *Tokenizer) scanStartOrEmptyTag(pos Position) (Event, error) {
	qname, err := t.scanName(pos)
	if err != nil {
		return Event{}, err
	}
	name, prefix := splitQName(qname)

	attrs, err := t.scanAttrs(pos, '>')
	if err != nil {
		return Event{}, err
	}

	kind := EventStartTag
	if t.peek() == '/' {
		t.advance()
		kind = EventEmptyTag
	}
	if t.atEnd() || t.peek() != '>' {
		return Event{}, &SyntaxError{Message: fmt.Sprintf("unterminated tag <%s", qname), Pos: pos}
	}
	t.advance() // consume '>'

	return Event{Kind: kind, Name: name, Prefix: prefix, Attrs: attrs, Pos: pos}, nil
}

// scanName consumes a tag or attribute name: everything up to whitespace,
// '=', '/', '>' or end of input.
func (t *Tokenizer) scanName(pos Position) ([]byte, error) {
	start := t.pos
	for !t.atEnd() {
		switch t.peek() {
		case ' ', '\t', '\r', '\n', '=', '/', '>':
			goto done
		}
		t.advance()
	}
done:
	if t.pos == start {
		return nil, &SyntaxError{Message: "expected a name", Pos: pos}
	}
	return t.src[start:t.pos], nil
}

// scanAttrs consumes zero or more name="value" pairs, stopping before the
// stop byte or a '/' (or at end of input when stop is NUL, the declaration
// case). Values keep their raw bytes; entities are not expanded.
func (t *Tokenizer) scanAttrs(pos Position, stop byte) ([]Attr, error) {
	var attrs []Attr
	for {
		t.skipWhitespace()
		if t.atEnd() {
			if stop == '\x00' {
				return attrs, nil
			}
			return nil, &SyntaxError{Message: "unterminated tag", Pos: pos}
		}
		if t.peek() == stop || t.peek() == '/' {
			return attrs, nil
		}

		qname, err := t.scanName(pos)
		if err != nil {
			return nil, err
		}
		name, prefix := splitQName(qname)

		t.skipWhitespace()
		if t.atEnd() || t.peek() != '=' {
			return nil, &SyntaxError{
				Message: fmt.Sprintf("attribute %q missing '='", qname),
				Pos:     pos,
			}
		}
		t.advance() // consume '='
		t.skipWhitespace()

		if t.atEnd() || (t.peek() != '"' && t.peek() != '\'') {
			return nil, &SyntaxError{
				Message: fmt.Sprintf("attribute %q missing quoted value", qname),
				Pos:     pos,
			}
		}
		quote := t.advance()
		start := t.pos
		for !t.atEnd() && t.peek() != quote {
			t.advance()
		}
		if t.atEnd() {
			return nil, &SyntaxError{
				Message: fmt.Sprintf("unterminated value for attribute %q", qname),
				Pos:     pos,
			}
		}
		value := t.src[start:t.pos]
		t.advance() // consume closing quote

		attrs = append(attrs, Attr{Name: name, Prefix: prefix, Value: value})
	}
}

// splitQName decomposes a qualified name into (local name, prefix). A name
// without a colon has a nil prefix.
func splitQName(qname []byte) (name, prefix []byte) {
	if idx := bytes.IndexByte(qname, ':'); idx >= 0 {
		return qname[idx+1:], qname[:idx]
	}
	return qname, nil
}
