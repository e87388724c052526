//go:build unix

// Package ptypair allocates pseudo-terminal device pairs implementing
// port.Pair. The subordinate end is configured for capture use: output
// post-processing and input echo are disabled so the harness reads exactly
// the bytes the child wrote, while the child still detects an interactive
// terminal on every standard stream.
package ptypair

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/creack/pty"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"pkt.systems/ttyrun/port"
)

// Opener allocates PTY-backed pairs. Allocation failure is fatal to the
// caller; there is no silent fallback to pipes (import adapters/pipepair
// explicitly for that).
type Opener struct{}

var _ port.Opener = Opener{}

// Default is a shared instance of Opener.
var Default port.Opener = Opener{}

// Open allocates one pseudo-terminal pair. The flow argument is accepted
// for the port.Opener contract but ignored: both ends of a pseudo-terminal
// are bidirectional.
func (Opener) Open(port.Flow) (port.Pair, error) {
	controller, subordinate, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("openpty: %w", err)
	}
	p := &Pair{controller: controller, subordinate: subordinate}
	if err := p.configure(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Pair is a pseudo-terminal backed port.Pair.
type Pair struct {
	controller  *os.File
	subordinate *os.File
	// ctlFd is resolved once during configure and used for every read and
	// poll thereafter. os.File.Fd() flips the descriptor back to blocking
	// mode on each call, so touching it again would undo SetNonblock.
	ctlFd     int
	mu        sync.Mutex
	subClosed bool
	closed    bool
}

var _ port.Pair = (*Pair)(nil)

func (p *Pair) configure() error {
	fd := p.subordinate.Fd()
	term, err := termios.Tcgetattr(fd)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}
	// No output post-processing (keeps \n as written) and no input echo
	// (keeps fed input out of the captured streams).
	term.Oflag &^= unix.OPOST
	term.Lflag &^= unix.ECHO
	if err := termios.Tcsetattr(fd, termios.TCSANOW, term); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	p.ctlFd = int(p.controller.Fd())
	if err := unix.SetNonblock(p.ctlFd, true); err != nil {
		return fmt.Errorf("set controller non-blocking: %w", err)
	}
	return nil
}

// Controller returns the harness-held end.
func (p *Pair) Controller() *os.File { return p.controller }

// Subordinate returns the end handed to the child process.
func (p *Pair) Subordinate() *os.File { return p.subordinate }

// Descriptor returns the raw controller descriptor for readiness polling.
func (p *Pair) Descriptor() int { return p.ctlFd }

// ReadAvailable reads currently buffered bytes from the controller end
// without blocking. EIO from a pseudo-terminal whose subordinate side is
// gone is reported as io.EOF.
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
