//go:build unix

package pipepair

import (
	"errors"
	"io"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"pkt.systems/ttyrun/port"
)

func TestOutputFlowRoundTrip(t *testing.T) {
	p, err := Default.Open(port.FlowOutput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	if _, err := p.Subordinate().Write([]byte("through the pipe")); err != nil {
		t.Fatalf("subordinate write: %v", err)
	}
	var out []byte
	buf := make([]byte, 8)
	deadline := time.Now().Add(2 * time.Second)
	for len(out) < len("through the pipe") {
		n, rerr := p.ReadAvailable(buf)
		out = append(out, buf[:n]...)
		if rerr != nil {
			t.Fatalf("ReadAvailable: %v (got %q)", rerr, out)
		}
		if n == 0 {
			if time.Now().After(deadline) {
				t.Fatalf("timed out, got %q", out)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	if string(out) != "through the pipe" {
		t.Fatalf("unexpected bytes: %q", out)
	}
}

func TestInputFlowOrientation(t *testing.T) {
	p, err := Default.Open(port.FlowInput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	if _, err := p.Controller().Write([]byte("stdin bytes\n")); err != nil {
		t.Fatalf("controller write: %v", err)
	}
	buf := make([]byte, 64)
	n, rerr := p.Subordinate().Read(buf)
	if rerr != nil {
		t.Fatalf("subordinate read: %v", rerr)
	}
	if string(buf[:n]) != "stdin bytes\n" {
		t.Fatalf("unexpected bytes: %q", buf[:n])
	}
}

func TestReadAvailableEmptyReturnsZero(t *testing.T) {
	p, err := Default.Open(port.FlowOutput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	// Run the idle read off the test goroutine so a blocking regression
	// fails fast instead of stalling the whole suite.
	type result struct {
		n   int
		err error
	}
	res := make(chan result, 1)
	go func() {
		n, rerr := p.ReadAvailable(make([]byte, 16))
		res <- result{n, rerr}
	}()
	select {
	case r := <-res:
		if r.n != 0 || r.err != nil {
			t.Fatalf("expected (0, nil) on empty pipe, got (%d, %v)", r.n, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ReadAvailable blocked on an empty pipe")
	}
}

func TestControllerStaysNonBlocking(t *testing.T) {
	p, err := Default.Open(port.FlowOutput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	for i := 0; i < 3; i++ {
		if n, rerr := p.ReadAvailable(make([]byte, 8)); n != 0 || rerr != nil {
			t.Fatalf("idle read %d returned (%d, %v)", i, n, rerr)
		}
	}
	flags, err := unix.FcntlInt(uintptr(p.Descriptor()), unix.F_GETFL, 0)
	if err != nil {
		t.Fatalf("fcntl F_GETFL: %v", err)
	}
	if flags&unix.O_NONBLOCK == 0 {
		t.Fatalf("controller lost O_NONBLOCK: flags %#x", flags)
	}
}

func TestEOFAfterSubordinateClose(t *testing.T) {
	p, err := Default.Open(port.FlowOutput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()
	if err := p.CloseSubordinate(); err != nil {
		t.Fatalf("CloseSubordinate: %v", err)
	}
	if n, rerr := p.ReadAvailable(make([]byte, 16)); !errors.Is(rerr, io.EOF) || n != 0 {
		t.Fatalf("expected (0, io.EOF) after writer close, got (%d, %v)", n, rerr)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p, err := Default.Open(port.FlowOutput)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
