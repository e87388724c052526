package ttyrun

import "context"

// Background is the handle returned by Start for a capture running
// asynchronously. Done delivers exactly one Result when the capture
// finishes.
type Background struct {
	Context context.Context
	Cancel  context.CancelFunc
	Done    <-chan Result
}

// Wait blocks until the background capture finishes or the stored context is
// cancelled. It returns the underlying Result; if the stored context is nil
// it behaves like WaitWithContext(context.Background()).
func (bg *Background) Wait() Result {
	if bg == nil {
		return Result{}
	}
	ctx := bg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return bg.WaitWithContext(ctx)
}

// WaitWithContext blocks until the background capture completes or ctx is
// cancelled. Cancellation returns a Result whose Error is ctx.Err().
func (bg *Background) WaitWithContext(ctx context.Context) Result {
	if bg == nil {
		return Result{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if bg.Done == nil {
		return Result{}
	}
	select {
	case res, ok := <-bg.Done:
		if !ok {
			return Result{}
		}
		return res
	case <-ctx.Done():
		// A finished capture may have cancelled its own context just after
		// delivering the result; prefer the result when one is pending.
		select {
		case res, ok := <-bg.Done:
			if ok {
				return res
			}
		default:
		}
		return Result{Error: ctx.Err()}
	}
}

// Result describes a finished (or timed out) command. Capture fills Stdout
// and Stderr with the separately accumulated stream bytes; the plain run
// helpers fill CombinedOutput instead. ExitCode is -1 when the exit status
// is unknown, in particular when TimedOut is set because the child was
// still running when the capture deadline expired. A timed-out child is not
// killed; bounding its lifetime is the caller's responsibility.
type Result struct {
	ExitCode       int
	Stdout         []byte
	Stderr         []byte
	CombinedOutput []byte
	TimedOut       bool
	Error          error
}
