package commandrunner

import (
	"os/exec"

	"pkt.systems/ttyrun/port"
)

// Runner executes commands by delegating to os/exec directly.
type Runner struct{}

var _ port.CommandRunner = Runner{}

// Run starts cmd and waits for it to complete.
func (Runner) Run(cmd *exec.Cmd) error {
	return cmd.Run()
}

// Start starts cmd without waiting; the caller is responsible for Wait.
func (Runner) Start(cmd *exec.Cmd) error {
	return cmd.Start()
}

// Default is a shared instance of Runner.
var Default port.CommandRunner = Runner{}
