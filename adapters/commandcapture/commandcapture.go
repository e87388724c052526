// Package commandcapture implements port.CommandCapture, the combined
// stdout/stderr buffer used by the non-TTY run helpers.
package commandcapture

import (
	"bytes"
	"slices"
	"sync"

	"pkt.systems/ttyrun/port"
)

// capture implements port.CommandCapture.
type capture struct {
	buf    *bytes.Buffer
	reset  func()
	enable bool
	once   sync.Once
}

// New constructs a new port.CommandCapture implementation.
func New() port.CommandCapture {
	return &capture{}
}

// Enable arms the capture with the buffer the command writes into and a
// reset callback restoring the command's original stdio.
func (c *capture) Enable(buf port.Buffer, reset func()) {
	b, ok := buf.(*bytes.Buffer)
	if !ok {
		bb := &bytes.Buffer{}
		bb.Grow(128)
		bb.Write(buf.Bytes())
		c.buf = bb
	} else {
		c.buf = b
	}
	c.reset = reset
	c.enable = true
}

// Finish restores the command's stdio and returns a copy of whatever was
// captured. It returns nil when the capture was never enabled.
func (c *capture) Finish() []byte {
	c.Restore()
	if !c.enable || c.buf == nil {
		return nil
	}
	return slices.Clone(c.buf.Bytes())
}

// Restore undoes the stdio rewiring exactly once.
func (c *capture) Restore() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		if c.reset != nil {
			c.reset()
			c.reset = nil
		}
	})
}
