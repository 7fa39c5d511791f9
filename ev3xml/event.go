package ev3xml

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset into source
}

// EventKind identifies the type of a structural XML event.
type EventKind int

const (
	EventEOF      EventKind = iota
	EventStartTag           // <Name ...>
	EventEndTag             // </Name>
	EventEmptyTag           // <Name ... />
	EventText               // character data between tags
	EventComment            // <!-- ... -->
	EventDecl               // <?xml ... ?>
	EventPI                 // <?name ... ?>
	EventCData              // <![CDATA[ ... ]]>
	EventDocType            // <!DOCTYPE ... >
)

var eventNames = map[EventKind]string{
	EventEOF:      "end of stream",
	EventStartTag: "start tag",
	EventEndTag:   "end tag",
	EventEmptyTag: "empty tag",
	EventText:     "text",
	EventComment:  "comment",
	EventDecl:     "xml declaration",
	EventPI:       "processing instruction",
	EventCData:    "CDATA",
	EventDocType:  "doctype",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Attr is a raw attribute as it appeared in the source. Name, Prefix and
// Value are unvalidated bytes; consumers decide what encoding to accept.
type Attr struct {
	Name   []byte
	Prefix []byte // nil when the attribute name carries no namespace prefix
	Value  []byte
}

// Declaration is the parsed <?xml ... ?> prolog. Raw preserves the exact
// source text for eventual re-emission.
type Declaration struct {
	Version    string
	Encoding   string // empty when absent
	Standalone string // empty when absent
	Raw        string
}

// Event is a single structural unit produced by the Tokenizer. Kind
// determines which fields are populated: tags carry Name/Prefix (and Attrs
// for start and empty tags), EventText carries Text, EventDecl carries Decl.
type Event struct {
	Kind   EventKind
	Name   []byte
	Prefix []byte
	Attrs  []Attr
	Text   []byte
	Decl   Declaration
	Pos    Position
}
