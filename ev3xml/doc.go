// Package ev3xml tokenizes raw XML bytes into the ordered event sequence
// consumed by the diagram builder.
//
// The tokenizer preserves the distinction between <Tag/> and <Tag></Tag>,
// which the EV3 file format uses to mean different things; encoding/xml
// collapses the two, which is why this package exists. Names and attribute
// values are handed out as raw bytes: validating them is the consumer's job.
// Whitespace-only character data between tags is dropped.
package ev3xml
