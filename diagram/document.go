package diagram

import "github.com/gooseboi/mindstormer/ev3xml"

// Version identifies the tool release and schema namespace a program file
// was exported with.
type Version struct {
	Number    string
	Namespace string
}

// Bounds is the size of a diagram element. The origin fields of the source
// geometry string carry no program meaning and are dropped during decoding.
type Bounds struct {
	Width  uint
	Height uint
}

// Direction discriminates a sequence terminal's flow end.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionIn {
		return "in"
	}
	return "out"
}

// SequenceTerminal is a block's control-flow connection point. WireID is
// empty when no wire is attached to the terminal.
type SequenceTerminal struct {
	Direction Direction
	Bounds    Bounds
	WireID    string
}

// BlockKind discriminates the Block variant.
type BlockKind int

const (
	BlockStart BlockKind = iota
	BlockMotorMove
)

func (k BlockKind) String() string {
	switch k {
	case BlockStart:
		return "start"
	case BlockMotorMove:
		return "motor move"
	}
	return "unknown"
}

// Block is one operation in the program graph. Kind determines which fields
// are populated: a start block has only SequenceOut, a motor move block has
// both terminals plus the Ports/Steering/Speed configuration.
type Block struct {
	Kind   BlockKind
	ID     string
	Bounds Bounds

	SequenceIn  *SequenceTerminal // nil for start blocks
	SequenceOut *SequenceTerminal

	Ports    [2]byte // motor move only
	Steering int     // motor move only, -100..100 in practice
	Speed    uint    // motor move only
}

// Wire is a directed control-flow edge. Input and Output are the ids packed
// into the wire's joint string, not absolute flow direction: Input names the
// joint with the SequenceIn role, Output the one with SequenceOut.
type Wire struct {
	ID     string
	Input  string
	Output string
}

// Document is the validated in-memory form of one program file. It is built
// incrementally by the document builder and read-only once Build returns.
type Document struct {
	Name    string
	Version Version
	Decl    ev3xml.Declaration
	Blocks  map[string]*Block
	Wires   map[string]*Wire
}

// BlockByID returns the block with the given id, or nil if not found.
func (d *Document) BlockByID(id string) *Block {
	return d.Blocks[id]
}

// WireByID returns the wire with the given id, or nil if not found.
func (d *Document) WireByID(id string) *Wire {
	return d.Wires[id]
}
