//go:build unix

package ttyrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"pkt.systems/ttyrun/adapters/commandrunner"
	"pkt.systems/ttyrun/adapters/ptypair"
	"pkt.systems/ttyrun/port"
)

// stream tracks one output pair and its accumulation buffer for the
// duration of a single capture call.
type stream struct {
	pair port.Pair
	buf  *bytes.Buffer
	eof  bool
}

// Capture runs argv with stdin, stdout and stderr each bound to the
// subordinate end of its own pseudo-terminal pair, so the child detects an
// interactive terminal on every standard stream. input is written to the
// stdin controller in a single write immediately after launch; there is no
// backpressure handling beyond the pseudo-terminal's own buffering. The two
// output streams are accumulated separately until the child has exited and
// gone quiet, or the timeout elapses. No shell is involved.
//
// On timeout the child is NOT terminated: Capture returns the output
// accumulated so far with ExitCode -1 and TimedOut set, and a background
// goroutine reaps the child whenever it eventually exits. All six device
// descriptors are released on every return path. Pair allocation failure is
// fatal; use WithOpener(pipepair.Default) on hosts without pseudo-terminal
// support.
func Capture(ctx context.Context, argv []string, input []byte, opts ...Option) (Result, error) {
	cfg := resolveOptions(opts)
	if len(argv) == 0 {
		return Result{}, ERR_EMPTY_ARGV
	}
	if ctx == nil {
		ctx = context.Background()
	}
	runner := cfg.runner
	if runner == nil {
		runner = commandrunner.Default
	}
	opener := cfg.opener
	if opener == nil {
		opener = ptypair.Default
	}

	stdin, stdout, stderr, err := openPairs(opener)
	if err != nil {
		return Result{}, err
	}
	closeAll := func() {
		stdin.Close()
		stdout.Close()
		stderr.Close()
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin.Subordinate()
	cmd.Stdout = stdout.Subordinate()
	cmd.Stderr = stderr.Subordinate()
	cmd.Env = cfg.environList()
	cmd.Dir = cfg.dir

	deadline := time.Now().Add(cfg.timeout)

	if err := runner.Start(cmd); err != nil {
		closeAll()
		return Result{}, fmt.Errorf("start %s: %w", argv[0], err)
	}

	exitc := make(chan error, 1)
	go func() { exitc <- cmd.Wait() }()

	if len(input) > 0 {
		if _, werr := stdin.Controller().Write(input); werr != nil {
			closeAll()
			drainExit(exitc, deadline)
			return Result{}, fmt.Errorf("write input: %w", werr)
		}
	}

	var outBuf, errBuf bytes.Buffer
	streams := []*stream{
		{pair: stdout, buf: &outBuf},
		{pair: stderr, buf: &errBuf},
	}

	var (
		waitErr    error
		captureErr error
		exited     bool
		timedOut   bool
	)
	chunk := make([]byte, cfg.chunkSize)
	pollMs := int(cfg.pollInterval / time.Millisecond)
	if pollMs < 1 {
		pollMs = 1
	}
	pollfds := make([]unix.PollFd, 0, len(streams))
	active := make([]*stream, 0, len(streams))

	for {
		pollfds = pollfds[:0]
		active = active[:0]
		for _, s := range streams {
			if s.eof {
				continue
			}
			pollfds = append(pollfds, unix.PollFd{
				Fd:     int32(s.pair.Descriptor()),
				Events: unix.POLLIN,
			})
			active = append(active, s)
		}
		if len(pollfds) == 0 {
			// Both streams closed; nothing further can arrive.
			break
		}

		n, perr := unix.Poll(pollfds, pollMs)
		if perr != nil {
			if errors.Is(perr, unix.EINTR) {
				continue
			}
			captureErr = fmt.Errorf("poll: %w", perr)
			break
		}
		if n > 0 {
			for i := range pollfds {
				if pollfds[i].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
					continue
				}
				s := active[i]
				nr, rerr := s.pair.ReadAvailable(chunk)
				if nr > 0 {
					s.buf.Write(chunk[:nr])
				}
				if rerr != nil {
					s.eof = true
				}
			}
			continue
		}

		// Readiness wait returned idle: the loop ends once the child has
		// exited, the deadline has passed, or the caller gave up.
		select {
		case waitErr = <-exitc:
			exited = true
		default:
		}
		if exited {
			break
		}
		if err := ctx.Err(); err != nil {
			captureErr = err
			break
		}
		if time.Now().After(deadline) {
			timedOut = true
			break
		}
	}

	// Release all six descriptors before blocking on the final exit status;
	// a subordinate end held open here can keep the device from ever
	// signaling end-of-stream.
	closeAll()

	if !exited && captureErr == nil {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		timer := time.NewTimer(remaining)
		select {
		case waitErr = <-exitc:
			exited = true
			timer.Stop()
		case <-timer.C:
			timedOut = true
		}
	}

	res := Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}
	switch {
	case exited:
		res.ExitCode = exitCodeFrom(waitErr, cmd.ProcessState)
	default:
		// The child is still running and stays that way; the Wait goroutine
		// reaps it whenever it finally exits.
		res.ExitCode = -1
		res.TimedOut = timedOut
	}
	res.Error = captureErr
	return res, captureErr
}

// Start launches Capture in a goroutine and returns a Background handle
// whose Done channel delivers the Result. Cancelling the returned context
// makes the capture return early with partial output; like a timeout it
// does not terminate the child.
func Start(parentCtx context.Context, argv []string, input []byte, opts ...Option) *Background {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	done := make(chan Result, 1)
	go func() {
		res, err := Capture(ctx, argv, input, opts...)
		if res.Error == nil {
			res.Error = err
		}
		done <- res
		close(done)
		cancel()
	}()
	return &Background{Context: ctx, Cancel: cancel, Done: done}
}

func openPairs(opener port.Opener) (stdin, stdout, stderr port.Pair, err error) {
	if stdin, err = opener.Open(port.FlowInput); err != nil {
		return nil, nil, nil, fmt.Errorf("allocate stdin pair: %w", err)
	}
	if stdout, err = opener.Open(port.FlowOutput); err != nil {
		stdin.Close()
		return nil, nil, nil, fmt.Errorf("allocate stdout pair: %w", err)
	}
	if stderr, err = opener.Open(port.FlowOutput); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, nil, nil, fmt.Errorf("allocate stderr pair: %w", err)
	}
	return stdin, stdout, stderr, nil
}

// drainExit gives the child until deadline to exit so the start error does
// not also leak a zombie.
func drainExit(exitc <-chan error, deadline time.Time) {
	remaining := time.Until(deadline)
	if remaining < 0 {
		remaining = 0
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-exitc:
	case <-timer.C:
	}
}
