package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooseboi/mindstormer/ev3xml"
)

func TestParseBoundsKeepsSizeOnly(t *testing.T) {
	b, err := parseBounds("20 20 40 55")
	require.NoError(t, err)
	assert.Equal(t, Bounds{Width: 40, Height: 55}, b)

	b, err = parseBounds("0 0 0 0")
	require.NoError(t, err)
	assert.Equal(t, Bounds{}, b)
}

func TestParseBoundsWrongFieldCount(t *testing.T) {
	for _, s := range []string{"", "1", "1 2 3", "1 2 3 4 5"} {
		_, err := parseBounds(s)
		require.Error(t, err, "input %q", s)
		assert.Equal(t, MalformedBounds, KindOf(err))
	}
}

func TestParseBoundsNonInteger(t *testing.T) {
	for _, s := range []string{"a b c d", "1 2 3 x", "1 2 -3 4", "1 2 3.5 4"} {
		_, err := parseBounds(s)
		require.Error(t, err, "input %q", s)
		assert.Equal(t, MalformedBounds, KindOf(err))
	}
}

func TestParseJointsResolvesNodeJoints(t *testing.T) {
	input, output, err := parseJoints("N(a:SequenceIn) N(b:SequenceOut) H(c:Bend)")
	require.NoError(t, err)
	assert.Equal(t, "a", input)
	assert.Equal(t, "b", output)
}

func TestParseJointsSkipsWireBendJoints(t *testing.T) {
	// Non-node joints are ignored wholesale, roles included.
	input, output, err := parseJoints("H(x:Whatever) N(n1:SequenceOut) N(n2:SequenceIn) H(y:Bend)")
	require.NoError(t, err)
	assert.Equal(t, "n2", input)
	assert.Equal(t, "n1", output)
}

func TestParseJointsDuplicateRole(t *testing.T) {
	_, _, err := parseJoints("N(a:SequenceOut) N(b:SequenceOut)")
	require.Error(t, err)
	assert.Equal(t, MalformedJoints, KindOf(err))
}

func TestParseJointsMissingRole(t *testing.T) {
	for _, s := range []string{"N(a:SequenceIn)", "N(b:SequenceOut)", ""} {
		_, _, err := parseJoints(s)
		require.Error(t, err, "input %q", s)
		assert.Equal(t, MalformedJoints, KindOf(err))
	}
}

func TestParseJointsUnknownNodeRole(t *testing.T) {
	_, _, err := parseJoints("N(a:SequenceIn) N(b:Bend)")
	require.Error(t, err)
	assert.Equal(t, MalformedJoints, KindOf(err))
}

func TestParseJointsMalformedToken(t *testing.T) {
	for _, s := range []string{"N(a:SequenceIn", "Na:SequenceIn)", "N(aSequenceIn)"} {
		_, _, err := parseJoints(s)
		require.Error(t, err, "input %q", s)
		assert.Equal(t, MalformedJoints, KindOf(err))
	}
}

func TestParsePorts(t *testing.T) {
	ports, err := parsePorts("xxAxxB")
	require.NoError(t, err)
	assert.Equal(t, [2]byte{'A', 'B'}, ports)
}

func TestParsePortsTooShort(t *testing.T) {
	_, err := parsePorts("xxAxx")
	require.Error(t, err)
	assert.Equal(t, UnexpectedStructure, KindOf(err))
}

func TestDecodersArePure(t *testing.T) {
	// Identical input must yield identical output regardless of prior calls.
	first, err := parseBounds("1 2 3 4")
	require.NoError(t, err)
	_, _ = parseBounds("9 9 9 9")
	second, err := parseBounds("1 2 3 4")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	in1, out1, err := parseJoints("N(a:SequenceIn) N(b:SequenceOut)")
	require.NoError(t, err)
	in2, out2, err := parseJoints("N(a:SequenceIn) N(b:SequenceOut)")
	require.NoError(t, err)
	assert.Equal(t, in1, in2)
	assert.Equal(t, out1, out2)
}

func TestDecodeAttrsValidatesUTF8(t *testing.T) {
	attrs, err := decodeAttrs([]ev3xml.Attr{
		{Name: []byte("Id"), Value: []byte("n1")},
		{Name: []byte("Name"), Prefix: []byte("x"), Value: []byte("v")},
	})
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute{Name: "Id", Value: "n1"}, attrs[0])
	assert.Equal(t, attribute{Name: "Name", Prefix: "x", Value: "v"}, attrs[1])

	_, err = decodeAttrs([]ev3xml.Attr{{Name: []byte("Id"), Value: []byte{0xff, 0xfe}}})
	require.Error(t, err)
	assert.Equal(t, InvalidEncoding, KindOf(err))

	_, err = decodeAttrs([]ev3xml.Attr{{Name: []byte{0xff}, Value: []byte("v")}})
	require.Error(t, err)
	assert.Equal(t, InvalidEncoding, KindOf(err))
}
