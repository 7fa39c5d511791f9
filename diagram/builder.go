package diagram

import (
	"strconv"
	"strings"

	"github.com/gooseboi/mindstormer/ev3xml"
)

// The one data type the tool emits for sequence wires. Anything else on a
// sequence terminal means the file is outside the modeled schema.
const sequenceWireDataType = "NationalInstruments:SourceModel:DataTypes:X3SequenceWireDataType"

// The only method call target modeled so far.
const motorMoveTarget = "MoveUnlimited.vix"

// Build tokenizes one program file and builds its document. The parse is
// strict and fail-fast: the first deviation from the modeled schema aborts
// with a ParseError and no partial document is returned.
func Build(name string, src []byte) (*Document, error) {
	events, err := ev3xml.Tokenize(src)
	if err != nil {
		return nil, in("tokenizing "+name, err)
	}
	return BuildEvents(name, events)
}

// BuildEvents builds the document from a pre-tokenized event sequence, for
// callers that already hold one.
func BuildEvents(name string, events []ev3xml.Event) (*Document, error) {
	b := &builder{
		cur: NewCursor(events),
		doc: &Document{
			Name:   name,
			Blocks: make(map[string]*Block),
			Wires:  make(map[string]*Wire),
		},
	}
	if err := b.run(); err != nil {
		return nil, in("building "+name, err)
	}
	return b.finish()
}

type builder struct {
	cur     *Cursor
	doc     *Document
	decl    *ev3xml.Declaration
	version *Version
}

// run processes events strictly in document order until end of stream.
func (b *builder) run() error {
	for {
		ev, err := b.cur.Next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case ev3xml.EventEOF:
			return nil

		case ev3xml.EventStartTag:
			name, prefix, err := decodeName(ev)
			if err != nil {
				return err
			}
			attrs, err := decodeAttrs(ev.Attrs)
			if err != nil {
				return in("<"+name+">", err)
			}
			if err := b.startTag(name, prefix, attrs); err != nil {
				return in("<"+name+">", err)
			}

		case ev3xml.EventEndTag:
			name, prefix, err := decodeName(ev)
			if err != nil {
				return err
			}
			if err := b.endTag(name, prefix); err != nil {
				return in("</"+name+">", err)
			}

		case ev3xml.EventEmptyTag:
			name, prefix, err := decodeName(ev)
			if err != nil {
				return err
			}
			attrs, err := decodeAttrs(ev.Attrs)
			if err != nil {
				return in("<"+name+"/>", err)
			}
			if err := b.emptyTag(name, prefix, attrs); err != nil {
				return in("<"+name+"/>", err)
			}

		case ev3xml.EventText:
			return errf(UnexpectedText, "unexpected character data %q", ev.Text)

		case ev3xml.EventComment:
			// Comments carry nothing the model needs.

		case ev3xml.EventDecl:
			if err := b.setDecl(ev.Decl); err != nil {
				return err
			}

		case ev3xml.EventCData:
			return errf(UnexpectedStructure, "unexpected CDATA section")

		case ev3xml.EventPI:
			return errf(UnexpectedStructure, "unexpected processing instruction")

		case ev3xml.EventDocType:
			return errf(UnexpectedStructure, "unexpected doctype")
		}
	}
}

func (b *builder) finish() (*Document, error) {
	if b.decl == nil {
		return nil, errf(MissingRequiredField, "document %q has no xml declaration", b.doc.Name)
	}
	if b.version == nil {
		return nil, errf(MissingRequiredField, "document %q has no version", b.doc.Name)
	}
	b.doc.Decl = *b.decl
	b.doc.Version = *b.version
	return b.doc, nil
}

func (b *builder) setDecl(decl ev3xml.Declaration) error {
	if b.decl != nil {
		return errf(DuplicateDeclaration, "old %q, new %q", b.decl.Raw, decl.Raw)
	}
	b.decl = &decl
	return nil
}

func (b *builder) setVersion(v Version) error {
	if b.version != nil {
		return errf(DuplicateVersion, "old %+v, new %+v", *b.version, v)
	}
	b.version = &v
	return nil
}

func noPrefix(prefix string) error {
	if prefix != "" {
		return errf(UnexpectedStructure, "unexpected namespace prefix %q", prefix)
	}
	return nil
}

func (b *builder) startTag(name, prefix string, attrs []attribute) error {
	switch name {
	case "SourceFile":
		if err := noPrefix(prefix); err != nil {
			return err
		}
		var number, namespace string
		for _, attr := range attrs {
			switch attr.Name {
			case "Version":
				number = attr.Value
			case "xmlns":
				namespace = attr.Value
			default:
				return errf(UnknownAttribute, "%q", attr.Name)
			}
		}
		if number == "" {
			return errf(MissingRequiredField, "no version number")
		}
		if namespace == "" {
			return errf(MissingRequiredField, "no namespace")
		}
		return b.setVersion(Version{Number: number, Namespace: namespace})

	case "Namespace":
		if err := noPrefix(prefix); err != nil {
			return err
		}
		for _, attr := range attrs {
			if attr.Name != "Name" {
				return errf(UnknownAttribute, "%q", attr.Name)
			}
			if attr.Value != "Project" {
				return errf(UnexpectedStructure, "unsupported namespace %q", attr.Value)
			}
		}
		return nil

	case "VirtualInstrument", "FrontPanel":
		return nil

	case "BlockDiagram":
		for _, attr := range attrs {
			if attr.Name != "Name" {
				return errf(UnknownAttribute, "%q", attr.Name)
			}
			if attr.Value != "__RootDiagram__" {
				return errf(UnexpectedStructure, "only the root diagram is modeled, got %q", attr.Value)
			}
		}
		return nil

	case "StartBlock":
		if err := noPrefix(prefix); err != nil {
			return err
		}
		return b.parseStartBlock(attrs)

	case "ConfigurableMethodCall":
		if err := noPrefix(prefix); err != nil {
			return err
		}
		return b.parseMethodCall(attrs)

	case "Icon", "IconPanel", "AnimationProperties.Animations", "EventProperties.Events":
		// Decorative and event metadata, nothing the program graph needs.
		return nil

	default:
		return errf(UnknownTag, "start tag not modeled")
	}
}

func (b *builder) endTag(name, prefix string) error {
	if err := noPrefix(prefix); err != nil {
		return err
	}
	switch name {
	case "SourceFile", "Namespace", "VirtualInstrument", "FrontPanel",
		"BlockDiagram", "Icon", "IconPanel",
		"AnimationProperties.Animations", "EventProperties.Events":
		return nil
	default:
		return errf(UnknownTag, "end tag not modeled")
	}
}

func (b *builder) emptyTag(name, prefix string, attrs []attribute) error {
	if err := noPrefix(prefix); err != nil {
		return err
	}
	switch name {
	case "Wire":
		return b.handleWire(attrs)
	case "FrontPanelCanvas", "Icon", "IconPanel",
		"AnimationProperties.Animations", "EventProperties.Events":
		return nil
	default:
		return errf(UnknownTag, "empty tag not modeled")
	}
}

// parseStartBlock consumes the fixed tool-generated shape of a StartBlock
// construct. The shape is never hand-edited, so any deviation is fatal.
func (b *builder) parseStartBlock(attrs []attribute) error {
	var id string
	var bounds *Bounds
	for _, attr := range attrs {
		switch attr.Name {
		case "Id":
			id = attr.Value
		case "Target":
			// Already known to be a start block.
		case "Bounds":
			bs, err := parseBounds(attr.Value)
			if err != nil {
				return err
			}
			bounds = &bs
		default:
			return errf(UnknownAttribute, "%q", attr.Name)
		}
	}
	if id == "" {
		return errf(MissingRequiredField, "no id")
	}
	if bounds == nil {
		return errf(MissingRequiredField, "no bounds")
	}

	cmtAttrs, err := b.nextStartTag("ConfigurableMethodTerminal")
	if err != nil {
		return err
	}
	if len(cmtAttrs) != 0 {
		return errf(UnexpectedStructure, "unexpected attributes on ConfigurableMethodTerminal")
	}

	// The terminal's inner value tag is constant in every export seen so
	// far; its content is ignored.
	ev, err := b.cur.Next()
	if err != nil {
		return err
	}
	if ev.Kind != ev3xml.EventEmptyTag {
		return errf(UnexpectedStructure, "expected an empty tag inside ConfigurableMethodTerminal, got %s", ev.Kind)
	}

	if err := b.nextEndTag("ConfigurableMethodTerminal"); err != nil {
		return err
	}

	termAttrs, err := b.nextEmptyTag("Terminal")
	if err != nil {
		return err
	}
	out, err := parseTerminal(termAttrs, "SequenceOut", "Output")
	if err != nil {
		return in("SequenceOut", err)
	}

	if err := b.nextEndTag("StartBlock"); err != nil {
		return err
	}

	// Insertion by plain assignment: a repeated block id overwrites the
	// earlier entry. Wires are checked; blocks are not.
	b.doc.Blocks[id] = &Block{
		Kind:        BlockStart,
		ID:          id,
		Bounds:      *bounds,
		SequenceOut: out,
	}
	return nil
}

// parseMethodCall dispatches a ConfigurableMethodCall construct by target.
func (b *builder) parseMethodCall(attrs []attribute) error {
	var id, target string
	var bounds *Bounds
	for _, attr := range attrs {
		switch attr.Name {
		case "Id":
			id = attr.Value
		case "Target":
			target = attr.Value
		case "Bounds":
			bs, err := parseBounds(attr.Value)
			if err != nil {
				return err
			}
			bounds = &bs
		default:
			return errf(UnknownAttribute, "%q", attr.Name)
		}
	}
	if id == "" {
		return errf(MissingRequiredField, "no id")
	}
	if target == "" {
		return errf(MissingRequiredField, "no target")
	}
	if bounds == nil {
		return errf(MissingRequiredField, "no bounds")
	}

	switch target {
	case motorMoveTarget:
		if err := b.parseMotorMove(id, *bounds); err != nil {
			return in(target, err)
		}
		return nil
	default:
		return errf(UnknownMethodTarget, "%q", target)
	}
}

// parseMotorMove collects the call's configured arguments, then its
// sequence terminal pair, and produces a motor move block.
func (b *builder) parseMotorMove(id string, bounds Bounds) error {
	var ports, steering, speed *string
	for {
		arg, ok, err := b.methodArgument()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		value := arg.Value
		switch {
		case arg.Name == "Ports":
			ports = &value
		case arg.Name == "Steering":
			steering = &value
		case arg.Name == "Speed":
			speed = &value
		case strings.HasPrefix(arg.Name, "InterruptsToListenFor"):
			// Constant in every export seen so far, ignored.
		default:
			return errf(UnknownAttribute, "method argument %q", arg.Name)
		}
	}
	if ports == nil {
		return errf(MissingRequiredField, "no ports")
	}
	if steering == nil {
		return errf(MissingRequiredField, "no steering")
	}
	if speed == nil {
		return errf(MissingRequiredField, "no speed")
	}

	portPair, err := parsePorts(*ports)
	if err != nil {
		return err
	}
	steeringVal, err := strconv.Atoi(*steering)
	if err != nil {
		return errf(UnexpectedStructure, "steering %q is not an integer", *steering)
	}
	speedVal, err := strconv.ParseUint(*speed, 10, 0)
	if err != nil {
		return errf(UnexpectedStructure, "speed %q is not an unsigned integer", *speed)
	}

	seqIn, seqOut, err := b.terminalPair()
	if err != nil {
		return err
	}
	if err := b.nextEndTag("ConfigurableMethodCall"); err != nil {
		return err
	}

	b.doc.Blocks[id] = &Block{
		Kind:        BlockMotorMove,
		ID:          id,
		Bounds:      bounds,
		SequenceIn:  seqIn,
		SequenceOut: seqOut,
		Ports:       portPair,
		Steering:    steeringVal,
		Speed:       uint(speedVal),
	}
	return nil
}

// methodArgument consumes one ConfigurableMethodTerminal argument
// construct. A peeked non-start-tag event means the argument list is
// exhausted and nothing is consumed.
func (b *builder) methodArgument() (attribute, bool, error) {
	ev, err := b.cur.Peek()
	if err != nil {
		return attribute{}, false, err
	}
	if ev.Kind != ev3xml.EventStartTag {
		return attribute{}, false, nil
	}

	cmtAttrs, err := b.nextStartTag("ConfigurableMethodTerminal")
	if err != nil {
		return attribute{}, false, err
	}
	if len(cmtAttrs) != 1 || cmtAttrs[0].Name != "ConfiguredValue" {
		return attribute{}, false, errf(UnexpectedStructure,
			"expected exactly one ConfiguredValue attribute on ConfigurableMethodTerminal")
	}
	value := cmtAttrs[0].Value

	termAttrs, err := b.nextEmptyTag("Terminal")
	if err != nil {
		return attribute{}, false, err
	}
	var name string
	for _, attr := range termAttrs {
		switch attr.Name {
		case "Id":
			name = attr.Value
		case "Direction", "DataType", "Bounds", "Hotspot":
			// Argument terminals carry layout and typing noise the model
			// does not need.
		default:
			return attribute{}, false, errf(UnknownAttribute, "%q on argument terminal", attr.Name)
		}
	}
	if name == "" {
		return attribute{}, false, errf(MissingRequiredField, "argument terminal has no id")
	}

	if err := b.nextEndTag("ConfigurableMethodTerminal"); err != nil {
		return attribute{}, false, err
	}
	return attribute{Name: name, Value: value}, true, nil
}

// terminalPair consumes the SequenceIn/SequenceOut terminals that close
// every method call construct, in that fixed order.
func (b *builder) terminalPair() (seqIn, seqOut *SequenceTerminal, err error) {
	inAttrs, err := b.nextEmptyTag("Terminal")
	if err != nil {
		return nil, nil, err
	}
	seqIn, err = parseTerminal(inAttrs, "SequenceIn", "Input")
	if err != nil {
		return nil, nil, in("SequenceIn", err)
	}

	outAttrs, err := b.nextEmptyTag("Terminal")
	if err != nil {
		return nil, nil, err
	}
	seqOut, err = parseTerminal(outAttrs, "SequenceOut", "Output")
	if err != nil {
		return nil, nil, in("SequenceOut", err)
	}
	return seqIn, seqOut, nil
}

// parseTerminal validates a sequence terminal's attributes against the
// expected id and direction. The wire attachment is optional; Hotspot is
// accepted but not retained.
func parseTerminal(attrs []attribute, wantID, wantDir string) (*SequenceTerminal, error) {
	var bounds *Bounds
	var wireID string
	for _, attr := range attrs {
		switch attr.Name {
		case "Id":
			if attr.Value != wantID {
				return nil, errf(UnexpectedStructure, "unexpected terminal id %q", attr.Value)
			}
		case "Direction":
			if attr.Value != wantDir {
				return nil, errf(UnexpectedStructure, "unexpected terminal direction %q", attr.Value)
			}
		case "Wire":
			wireID = attr.Value
		case "DataType":
			if attr.Value != sequenceWireDataType {
				return nil, errf(UnexpectedStructure, "unexpected terminal data type %q", attr.Value)
			}
		case "Hotspot":
			// Accepted but not interpreted; re-serialization would need it.
		case "Bounds":
			bs, err := parseBounds(attr.Value)
			if err != nil {
				return nil, err
			}
			bounds = &bs
		default:
			return nil, errf(UnknownAttribute, "%q", attr.Name)
		}
	}
	if bounds == nil {
		return nil, errf(MissingRequiredField, "no bounds")
	}

	dir := DirectionOut
	if wantDir == "Input" {
		dir = DirectionIn
	}
	return &SequenceTerminal{Direction: dir, Bounds: *bounds, WireID: wireID}, nil
}

// handleWire decodes a Wire empty tag and inserts the edge. A repeated
// wire id is fatal, unlike block ids.
func (b *builder) handleWire(attrs []attribute) error {
	var id, joints string
	for _, attr := range attrs {
		switch attr.Name {
		case "Id":
			id = attr.Value
		case "Joints":
			joints = attr.Value
		default:
			return errf(UnknownAttribute, "%q", attr.Name)
		}
	}
	if id == "" {
		return errf(MissingRequiredField, "no id")
	}
	if joints == "" {
		return errf(MissingRequiredField, "no joints")
	}

	input, output, err := parseJoints(joints)
	if err != nil {
		return err
	}
	if _, exists := b.doc.Wires[id]; exists {
		return errf(DuplicateWireID, "%q", id)
	}
	b.doc.Wires[id] = &Wire{ID: id, Input: input, Output: output}
	return nil
}

// nextStartTag consumes the next event, requiring an unprefixed start tag
// with the given name, and returns its decoded attributes.
func (b *builder) nextStartTag(want string) ([]attribute, error) {
	ev, err := b.cur.Next()
	if err != nil {
		return nil, err
	}
	if ev.Kind != ev3xml.EventStartTag {
		return nil, errf(UnexpectedStructure, "expected <%s>, got %s", want, ev.Kind)
	}
	return b.expectTag(ev, want)
}

// nextEmptyTag consumes the next event, requiring an unprefixed empty tag
// with the given name, and returns its decoded attributes.
func (b *builder) nextEmptyTag(want string) ([]attribute, error) {
	ev, err := b.cur.Next()
	if err != nil {
		return nil, err
	}
	if ev.Kind != ev3xml.EventEmptyTag {
		return nil, errf(UnexpectedStructure, "expected <%s/>, got %s", want, ev.Kind)
	}
	return b.expectTag(ev, want)
}

func (b *builder) expectTag(ev ev3xml.Event, want string) ([]attribute, error) {
	name, prefix, err := decodeName(ev)
	if err != nil {
		return nil, err
	}
	if err := noPrefix(prefix); err != nil {
		return nil, err
	}
	if name != want {
		return nil, errf(UnexpectedStructure, "expected <%s>, got <%s>", want, name)
	}
	return decodeAttrs(ev.Attrs)
}

// nextEndTag consumes the next event, requiring the matching unprefixed
// end tag.
func (b *builder) nextEndTag(want string) error {
	ev, err := b.cur.Next()
	if err != nil {
		return err
	}
	if ev.Kind != ev3xml.EventEndTag {
		return errf(UnexpectedStructure, "expected </%s>, got %s", want, ev.Kind)
	}
	name, prefix, err := decodeName(ev)
	if err != nil {
		return err
	}
	if err := noPrefix(prefix); err != nil {
		return err
	}
	if name != want {
		return errf(UnexpectedStructure, "expected </%s>, got </%s>", want, name)
	}
	return nil
}
