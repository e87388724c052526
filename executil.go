package ttyrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"pkt.systems/ttyrun/adapters/commandcapture"
	"pkt.systems/ttyrun/adapters/commandrunner"
	"pkt.systems/ttyrun/port"
)

// Run executes argv to completion with the parent's standard streams,
// honoring the environment and directory options. It is the plain,
// non-interactive counterpart to Capture.
func Run(ctx context.Context, argv []string, opts ...Option) Result {
	cfg := resolveOptions(opts)
	cmd, runner, err := newCommand(ctx, argv, cfg)
	if err != nil {
		return Result{ExitCode: -1, Error: err}
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	runErr := runner.Run(cmd)
	return Result{
		ExitCode: exitCodeFrom(runErr, cmd.ProcessState),
		Error:    runErr,
	}
}

// Output executes argv to completion and returns its combined stdout and
// stderr. A failed or non-zero exit is reported as an error alongside
// whatever output was produced.
func Output(ctx context.Context, argv []string, opts ...Option) ([]byte, error) {
	cfg := resolveOptions(opts)
	cmd, runner, err := newCommand(ctx, argv, cfg)
	if err != nil {
		return nil, err
	}
	capture, err := StartCommand(runner, cmd, true)
	if err != nil {
		return nil, err
	}
	res := WaitCommand(cmd, capture)
	return res.CombinedOutput, res.Error
}

func newCommand(ctx context.Context, argv []string, cfg *config) (*exec.Cmd, port.CommandRunner, error) {
	if len(argv) == 0 {
		return nil, nil, ERR_EMPTY_ARGV
	}
	runner := cfg.runner
	if runner == nil {
		runner = commandrunner.Default
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = cfg.environList()
	cmd.Dir = cfg.dir
	return cmd, runner, nil
}

// RunCommand executes cmd using the supplied runner. When combinedOutput is
// true the function captures stdout and stderr into a shared buffer and returns
// it as a copy to the caller. Otherwise RunCommand defers to the runner without
// altering the configured streams.
func RunCommand(runner port.CommandRunner, cmd *exec.Cmd, combinedOutput bool) ([]byte, error) {
	if runner == nil {
		return nil, ERR_NIL_RUNNER
	}
	capture, err := newCommandCapture(cmd, combinedOutput)
	if err != nil {
		return nil, err
	}
	err = runner.Run(cmd)
	return capture.Finish(), err
}

// StartCommand starts cmd using the supplied runner while optionally capturing
// combined stdout/stderr. The returned CommandCapture must later be passed to
// WaitCommand (or Restore via Finish) to release resources.
func StartCommand(runner port.CommandRunner, cmd *exec.Cmd, combinedOutput bool) (port.CommandCapture, error) {
	if runner == nil {
		return nil, ERR_NIL_RUNNER
	}
	capture, err := newCommandCapture(cmd, combinedOutput)
	if err != nil {
		return nil, err
	}
	if err := runner.Start(cmd); err != nil {
		capture.Restore()
		return nil, err
	}
	return capture, nil
}

// WaitCommand waits for cmd to exit and returns a Result capturing the exit
// code, error, and any combined output buffered by StartCommand.
func WaitCommand(cmd *exec.Cmd, capture port.CommandCapture) Result {
	var res Result
	err := cmd.Wait()
	res.Error = err
	res.ExitCode = exitCodeFrom(err, cmd.ProcessState)
	if capture != nil {
		res.CombinedOutput = capture.Finish()
	}
	return res
}

func newCommandCapture(cmd *exec.Cmd, combined bool) (port.CommandCapture, error) {
	capture := commandcapture.New()
	if !combined {
		return capture, nil
	}
	if cmd == nil {
		return nil, fmt.Errorf("nil command")
	}
	if cmd.Stdout != nil || cmd.Stderr != nil {
		return nil, fmt.Errorf("combined output requested with configured stdout or stderr")
	}
	buf := &bytes.Buffer{}
	buf.Grow(128)
	origStdout, origStderr := cmd.Stdout, cmd.Stderr
	cmd.Stdout = buf
	cmd.Stderr = buf
	capture.Enable(buf, func() {
		cmd.Stdout = origStdout
		cmd.Stderr = origStderr
	})
	return capture, nil
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}
	return -1
}
