package mockrunner

import (
	"os/exec"
	"slices"
	"sync"

	"pkt.systems/ttyrun/port"
)

// Behavior represents a single command execution path for the mock runner.
// The configured stdio of cmd is in place when the behavior runs, so a
// behavior can write fake child output to cmd.Stdout and cmd.Stderr.
type Behavior func(cmd *exec.Cmd) error

// Runner is a thread-safe mock implementation of port.CommandRunner.
type Runner struct {
	mu        sync.Mutex
	behaviors []Behavior
	Calls     int
	Paths     []string
	Started   []bool
}

var _ port.CommandRunner = (*Runner)(nil)

// New constructs a Runner that will invoke behaviors sequentially for each call.
func New(behaviors ...Behavior) *Runner {
	return &Runner{behaviors: slices.Clone(behaviors)}
}

// Run records the call metadata and dispatches to the next behavior.
func (r *Runner) Run(cmd *exec.Cmd) error {
	return r.dispatch(cmd, false)
}

// Start records the call metadata and dispatches to the next behavior.
// Nothing is actually started; WaitCommand on a mock-started command reports
// exit code -1.
func (r *Runner) Start(cmd *exec.Cmd) error {
	return r.dispatch(cmd, true)
}

func (r *Runner) dispatch(cmd *exec.Cmd, started bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls++
	r.Paths = append(r.Paths, cmd.Path)
	r.Started = append(r.Started, started)

	if len(r.behaviors) == 0 {
		return nil
	}
	behavior := r.behaviors[0]
	r.behaviors = r.behaviors[1:]
	return behavior(cmd)
}

// Remaining returns the number of queued behaviors that have not yet been consumed.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.behaviors)
}
