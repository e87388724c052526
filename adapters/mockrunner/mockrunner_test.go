package mockrunner

import (
	"errors"
	"os/exec"
	"testing"
)

func TestRunRecordsAndDispatches(t *testing.T) {
	boom := errors.New("boom")
	r := New(
		func(cmd *exec.Cmd) error { return nil },
		func(cmd *exec.Cmd) error { return boom },
	)

	cmd := exec.Command("/bin/true")
	if err := r.Run(cmd); err != nil {
		t.Fatalf("first behavior should succeed, got %v", err)
	}
	if err := r.Run(cmd); !errors.Is(err, boom) {
		t.Fatalf("second behavior should fail with boom, got %v", err)
	}

	if r.Calls != 2 {
		t.Fatalf("expected 2 calls, got %d", r.Calls)
	}
	if len(r.Paths) != 2 || r.Paths[0] != "/bin/true" {
		t.Fatalf("unexpected recorded paths: %v", r.Paths)
	}
	if r.Started[0] || r.Started[1] {
		t.Fatalf("Run must record started=false: %v", r.Started)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no queued behaviors, got %d", r.Remaining())
	}
}

func TestStartRecordsStarted(t *testing.T) {
	r := New()
	if err := r.Start(exec.Command("/bin/true")); err != nil {
		t.Fatalf("Start with empty queue should succeed, got %v", err)
	}
	if len(r.Started) != 1 || !r.Started[0] {
		t.Fatalf("Start must record started=true: %v", r.Started)
	}
}

func TestBehaviorSeesConfiguredCommand(t *testing.T) {
	var seen *exec.Cmd
	r := New(func(cmd *exec.Cmd) error {
		seen = cmd
		return nil
	})
	cmd := exec.Command("/bin/echo", "hi")
	cmd.Dir = "/tmp"
	if err := r.Run(cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != cmd {
		t.Fatalf("behavior did not receive the dispatched command")
	}
	if seen.Dir != "/tmp" {
		t.Fatalf("behavior saw wrong Dir: %q", seen.Dir)
	}
}
