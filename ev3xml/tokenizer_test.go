package ev3xml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestTokenizeMinimalDocument(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<SourceFile Version="907" xmlns="http://example.com/schema">
  <FrontPanelCanvas />
</SourceFile>
`
	events, err := Tokenize([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{
		EventDecl,
		EventStartTag,
		EventEmptyTag,
		EventEndTag,
		EventEOF,
	}, kinds(events))

	decl := events[0].Decl
	assert.Equal(t, "1.0", decl.Version)
	assert.Equal(t, "utf-8", decl.Encoding)
	assert.Empty(t, decl.Standalone)
	assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?>`, decl.Raw)

	start := events[1]
	assert.Equal(t, []byte("SourceFile"), start.Name)
	assert.Nil(t, start.Prefix)
	require.Len(t, start.Attrs, 2)
	assert.Equal(t, []byte("Version"), start.Attrs[0].Name)
	assert.Equal(t, []byte("907"), start.Attrs[0].Value)
	assert.Equal(t, []byte("xmlns"), start.Attrs[1].Name)

	assert.Equal(t, []byte("FrontPanelCanvas"), events[2].Name)
	assert.Equal(t, []byte("SourceFile"), events[3].Name)
}

func TestTokenizeDistinguishesEmptyFromStartTag(t *testing.T) {
	events, err := Tokenize([]byte(`<a></a><b/>`))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventStartTag, EventEndTag, EventEmptyTag, EventEOF}, kinds(events))
}

func TestTokenizeDropsWhitespaceText(t *testing.T) {
	events, err := Tokenize([]byte("<a>\n\t  \n</a>"))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventStartTag, EventEndTag, EventEOF}, kinds(events))
}

func TestTokenizeKeepsText(t *testing.T) {
	events, err := Tokenize([]byte(`<a>  hello world </a>`))
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventStartTag, EventText, EventEndTag, EventEOF}, kinds(events))
	assert.Equal(t, []byte("hello world"), events[1].Text)
}

func TestTokenizePrefixes(t *testing.T) {
	events, err := Tokenize([]byte(`<x:Tag y:Name='v'/>`))
	require.NoError(t, err)
	ev := events[0]
	assert.Equal(t, EventEmptyTag, ev.Kind)
	assert.Equal(t, []byte("Tag"), ev.Name)
	assert.Equal(t, []byte("x"), ev.Prefix)
	require.Len(t, ev.Attrs, 1)
	assert.Equal(t, []byte("Name"), ev.Attrs[0].Name)
	assert.Equal(t, []byte("y"), ev.Attrs[0].Prefix)
	assert.Equal(t, []byte("v"), ev.Attrs[0].Value)
}

func TestTokenizeComment(t *testing.T) {
	events, err := Tokenize([]byte(`<a><!-- anything, even <tags> --></a>`))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventStartTag, EventComment, EventEndTag, EventEOF}, kinds(events))
}

func TestTokenizeCDataDocTypePI(t *testing.T) {
	events, err := Tokenize([]byte(`<!DOCTYPE html><?pi data?><![CDATA[raw]]>`))
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventDocType, EventPI, EventCData, EventEOF}, kinds(events))
	assert.Equal(t, []byte("raw"), events[2].Text)
}

func TestTokenizeTracksPositions(t *testing.T) {
	events, err := Tokenize([]byte("<a>\n  <b/>\n</a>"))
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventStartTag, EventEmptyTag, EventEndTag, EventEOF}, kinds(events))
	assert.Equal(t, 1, events[0].Pos.Line)
	assert.Equal(t, 2, events[1].Pos.Line)
	assert.Equal(t, 3, events[1].Pos.Column)
	assert.Equal(t, 3, events[2].Pos.Line)
}

func TestTokenizeUnterminatedTag(t *testing.T) {
	for _, src := range []string{`<a`, `<a b="c"`, `<!-- never closed`, `<a b=c>`, `<a b>`, `<a b="c>`} {
		_, err := Tokenize([]byte(src))
		require.Error(t, err, "input %q", src)
		var syn *SyntaxError
		assert.ErrorAs(t, err, &syn, "input %q", src)
	}
}

func TestTokenizeDeclarationRejectsUnknownField(t *testing.T) {
	_, err := Tokenize([]byte(`<?xml version="1.0" nonsense="x"?>`))
	require.Error(t, err)
}

func TestTokenizeStylesheetPIIsNotADeclaration(t *testing.T) {
	events, err := Tokenize([]byte(`<?xml-stylesheet href="a.css"?>`))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventPI, EventEOF}, kinds(events))
}
