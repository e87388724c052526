//go:build unix

// Package pipepair implements port.Pair with ordinary pipes. It exists for
// setups without pseudo-terminal support and for tests that do not need the
// child to detect an interactive terminal; the polling loop in ttyrun works
// against either adapter unchanged.
package pipepair

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"pkt.systems/ttyrun/port"
)

// Opener allocates pipe-backed pairs.
type Opener struct{}

var _ port.Opener = Opener{}

// Default is a shared instance of Opener.
var Default port.Opener = Opener{}

// Open allocates one pipe pair oriented according to flow: for FlowInput
// the controller is the write end and the subordinate the read end, for
// FlowOutput the reverse.
func (Opener) Open(flow port.Flow) (port.Pair, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	p := &Pair{}
	switch flow {
	case port.FlowInput:
		p.controller, p.subordinate = w, r
		p.ctlFd = int(w.Fd())
	default:
		p.controller, p.subordinate = r, w
		p.ctlFd = int(r.Fd())
		if err := unix.SetNonblock(p.ctlFd, true); err != nil {
			r.Close()
			w.Close()
			return nil, err
		}
	}
	return p, nil
}

// Pair is a pipe backed port.Pair.
type Pair struct {
	controller  *os.File
	subordinate *os.File
	// ctlFd is resolved once at open; os.File.Fd() flips the descriptor
	// back to blocking mode on each call, so it must not be consulted again.
	ctlFd     int
	mu        sync.Mutex
	subClosed bool
	closed    bool
}

var _ port.Pair = (*Pair)(nil)

// Controller returns the harness-held end.
func (p *Pair) Controller() *os.File { return p.controller }

// Subordinate returns the end handed to the child process.
func (p *Pair) Subordinate() *os.File { return p.subordinate }

// Descriptor returns the raw controller descriptor for readiness polling.
func (p *Pair) Descriptor() int { return p.ctlFd }

// ReadAvailable reads currently buffered bytes from the controller end
// without blocking. A zero-byte read on a pipe means the write side is
// closed and is reported as io.EOF.
func (p *Pair) ReadAvailable(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.EOF
	}
	n, err := unix.Read(p.ctlFd, buf)
	if n < 0 {
		n = 0
	}
	if err != nil {
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
			return 0, nil
		case errors.Is(err, unix.EIO):
			return n, io.EOF
		}
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// CloseSubordinate closes the child-side end only.
func (p *Pair) CloseSubordinate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeSubordinateLocked()
}

func (p *Pair) closeSubordinateLocked() error {
	if p.subClosed {
		return nil
	}
	p.subClosed = true
	return p.subordinate.Close()
}

// Close releases both ends. It is safe to call more than once.
func (p *Pair) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	subErr := p.closeSubordinateLocked()
	ctlErr := p.controller.Close()
	if subErr != nil {
		return subErr
	}
	return ctlErr
}
