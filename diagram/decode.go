package diagram

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gooseboi/mindstormer/ev3xml"
)

// attribute is a decoded (name, prefix, value) triple with every part
// validated as UTF-8. Decoding does no semantic filtering; callers must
// reject the names they do not recognize.
type attribute struct {
	Name   string
	Prefix string // "" when absent
	Value  string
}

func decodeAttrs(raw []ev3xml.Attr) ([]attribute, error) {
	attrs := make([]attribute, 0, len(raw))
	for _, a := range raw {
		if !utf8.Valid(a.Name) {
			return nil, errf(InvalidEncoding, "attribute name %q is not valid UTF-8", a.Name)
		}
		if !utf8.Valid(a.Prefix) {
			return nil, errf(InvalidEncoding, "prefix of attribute %q is not valid UTF-8", a.Name)
		}
		if !utf8.Valid(a.Value) {
			return nil, errf(InvalidEncoding, "value of attribute %q is not valid UTF-8", a.Name)
		}
		attrs = append(attrs, attribute{
			Name:   string(a.Name),
			Prefix: string(a.Prefix),
			Value:  string(a.Value),
		})
	}
	return attrs, nil
}

// decodeName validates a tag event's name and prefix as UTF-8.
func decodeName(ev ev3xml.Event) (name, prefix string, err error) {
	if !utf8.Valid(ev.Name) {
		return "", "", errf(InvalidEncoding, "tag name %q is not valid UTF-8", ev.Name)
	}
	if !utf8.Valid(ev.Prefix) {
		return "", "", errf(InvalidEncoding, "prefix of tag %q is not valid UTF-8", ev.Name)
	}
	return string(ev.Name), string(ev.Prefix), nil
}

// parseBounds decodes a "x y w h" geometry string, keeping only the size
// fields. The origin is not semantically meaningful.
func parseBounds(s string) (Bounds, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Bounds{}, errf(MalformedBounds, "expected 4 fields, found %d in %q", len(fields), s)
	}
	vals := make([]uint, 4)
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 0)
		if err != nil {
			return Bounds{}, errf(MalformedBounds, "field %q in %q is not an unsigned integer", f, s)
		}
		vals[i] = uint(n)
	}
	return Bounds{Width: vals[2], Height: vals[3]}, nil
}

// parseJoints decodes a packed wire-endpoint string of space-separated
// `<kind>(<id>:<role>)` tokens. Only node joints (kind N) are
// sequence-relevant; other kinds are wire-bend joints and are skipped.
// Exactly one node joint must carry each of the SequenceIn and SequenceOut
// roles.
func parseJoints(s string) (input, output string, err error) {
	for _, tok := range strings.Fields(s) {
		open := strings.IndexByte(tok, '(')
		if open < 0 || !strings.HasSuffix(tok, ")") {
			return "", "", errf(MalformedJoints, "joint %q is not of the form kind(id:role)", tok)
		}
		kind := tok[:open]
		inner := tok[open+1 : len(tok)-1]
		colon := strings.IndexByte(inner, ':')
		if colon < 0 {
			return "", "", errf(MalformedJoints, "joint %q is missing a role", tok)
		}
		id, role := inner[:colon], inner[colon+1:]

		if kind != "N" {
			continue
		}
		switch role {
		case "SequenceIn":
			if input != "" {
				return "", "", errf(MalformedJoints, "more than one SequenceIn joint in %q", s)
			}
			input = id
		case "SequenceOut":
			if output != "" {
				return "", "", errf(MalformedJoints, "more than one SequenceOut joint in %q", s)
			}
			output = id
		default:
			return "", "", errf(MalformedJoints, "unknown node joint role %q in %q", role, s)
		}
	}
	if input == "" {
		return "", "", errf(MalformedJoints, "no SequenceIn joint in %q", s)
	}
	if output == "" {
		return "", "", errf(MalformedJoints, "no SequenceOut joint in %q", s)
	}
	return input, output, nil
}

// parsePorts extracts the two single-character port codes packed at fixed
// offsets of a Ports argument value.
func parsePorts(s string) ([2]byte, error) {
	if len(s) < 6 {
		return [2]byte{}, errf(UnexpectedStructure, "ports value %q is too short", s)
	}
	return [2]byte{s[2], s[5]}, nil
}
