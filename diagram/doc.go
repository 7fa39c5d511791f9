// Package diagram reconstructs the typed program graph of one EV3 program
// file from its block-diagram XML.
//
// The builder is a strict recursive-descent interpreter over the event
// sequence produced by ev3xml, covering only the schema subset exercised by
// start and motor move programs. The schema is undocumented and
// reverse-engineered, so every tag and attribute is validated against an
// explicit whitelist and the first deviation aborts the parse; silently
// tolerating unknown structure would corrupt fidelity against a format we
// only partially understand.
//
// The builder is layered:
//
//   - Cursor: peek/consume view over the materialized event sequence.
//   - Decoders: attribute triples (UTF-8 validated), bounds geometry
//     strings, packed wire joint strings, port codes.
//   - builder: per-tag handlers and sub-parsers producing the Document.
//
// Usage:
//
//	doc, err := diagram.Build("Program.ev3p", src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Name, len(doc.Blocks), len(doc.Wires))
//
// Failures carry a Kind recoverable with KindOf.
package diagram
