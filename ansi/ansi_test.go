package ansi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPlainTextUntouched(t *testing.T) {
	s := "plain text\nwith lines\n"
	assert.Equal(t, s, Strip(s))
}

func TestStripColors(t *testing.T) {
	assert.Equal(t, "pass", Strip(FgGreen+"pass"+Reset))
	assert.Equal(t, "fail", Strip(FgRed+"fail"+Reset))
}

func TestStripCarriageReturns(t *testing.T) {
	assert.Equal(t, "hello\nworld\n", Strip("hello\r\nworld\r\n"))
}

func TestStripCSI(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"\x1b[2Jcleared", "cleared"},
		{"\x1b[1;31mbold red\x1b[0m", "bold red"},
		{"a\x1b[10;20Hb", "ab"},
		{"cursor\x1b[?25l hidden", "cursor hidden"},
	} {
		assert.Equal(t, tc.want, Strip(tc.in), "input=%q", tc.in)
	}
}

func TestStripOSC(t *testing.T) {
	assert.Equal(t, "after", Strip("\x1b]0;title\x07after"))
	assert.Equal(t, "after", Strip("\x1b]0;title\x1b\\after"))
}

func TestStripCharsetAndTwoByte(t *testing.T) {
	assert.Equal(t, "text", Strip("\x1b(Btext"))
	// ESC M must not leak the M.
	assert.Equal(t, "up", Strip("\x1bMup"))
}

func TestStripIncompleteSequences(t *testing.T) {
	assert.Equal(t, "tail", Strip("tail\x1b"))
	assert.Equal(t, "tail", Strip("tail\x1b[31"))
	assert.Equal(t, "tail", Strip("tail\x1b]0;unterminated"))
}

func TestEnabledOnNonTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, Enabled(f))
}

func TestWriterNonNil(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := Writer(f)
	assert.NotNil(t, w)
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
}
