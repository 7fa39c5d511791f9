package diagram

import "github.com/gooseboi/mindstormer/ev3xml"

// Cursor is a position-tracked view over a materialized event sequence.
// It supports the unbounded lookahead needed where the number of sibling
// sub-elements is not known in advance.
type Cursor struct {
	events []ev3xml.Event
	idx    int
}

// NewCursor creates a Cursor positioned before the first event.
func NewCursor(events []ev3xml.Event) *Cursor {
	return &Cursor{events: events}
}

// Next returns the next event and advances past it.
func (c *Cursor) Next() (ev3xml.Event, error) {
	ev, err := c.Peek()
	if err != nil {
		return ev3xml.Event{}, err
	}
	c.idx++
	return ev, nil
}

// Peek returns the next event without advancing.
func (c *Cursor) Peek() (ev3xml.Event, error) {
	if c.idx >= len(c.events) {
		return ev3xml.Event{}, errf(EndOfStream, "no event at index %d of %d", c.idx, len(c.events))
	}
	return c.events[c.idx], nil
}
