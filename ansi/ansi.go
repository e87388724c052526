// Package ansi provides the small amount of terminal escape handling the
// test harness needs: a few SGR color constants, detection of whether a
// stream can render them, and a stripper that normalizes raw TTY captures
// before they are compared against expected output.
package ansi

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// SGR sequences used when printing test results.
const (
	Reset   = "\x1b[0m"
	FgRed   = "\x1b[31m"
	FgGreen = "\x1b[32m"
)

// Enabled reports whether f is attached to a terminal that can be expected
// to render escape sequences.
func Enabled(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Writer returns a writer that renders escape sequences written to f on
// every supported platform, translating to console API calls where the
// terminal does not interpret them natively.
func Writer(f *os.File) io.Writer {
	return colorable.NewColorable(f)
}

// Strip removes ANSI escape and control sequences as well as carriage
// returns from a TTY capture, leaving the text a test expectation should be
// compared against. Incomplete sequences at the end of the input are
// dropped rather than leaking partial bytes into the result.
func Strip(s string) string {
	if !strings.ContainsAny(s, "\x1b\r") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' {
			continue
		}
		if c != 0x1b {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break // dangling ESC at end of capture
		}

		switch s[i+1] {
		case '[': // CSI, terminated by a byte in 0x40..0x7e
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
		case ']': // OSC, terminated by BEL or ST
			i += 2
			for i < len(s) {
				if s[i] == 0x07 {
					break
				}
				if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
					i++
					break
				}
				i++
			}
		case '(', ')', '*', '+': // charset designation, three bytes total
			i += 2
		default:
			// Two-byte sequence such as ESC M or ESC 7; skip both so the
			// second byte does not leak into the output.
			i++
		}
	}

	return b.String()
}
