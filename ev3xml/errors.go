package ev3xml

import "fmt"

// SyntaxError represents a tokenizer-level error (unterminated tag,
// malformed attribute, stray markup).
type SyntaxError struct {
	Message string
	Pos     Position
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}
