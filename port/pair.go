package port

import (
	"io"
	"os"
)

// Flow describes the direction of a Pair relative to the child process.
type Flow int

const (
	// FlowInput pairs carry harness-written bytes to the child's stdin.
	FlowInput Flow = iota
	// FlowOutput pairs carry child-written bytes (stdout or stderr) back
	// to the harness.
	FlowOutput
)

// Pair is one pseudo-terminal device pair, or a pipe standing in for one on
// setups without pseudo-terminal support. The controller end stays with the
// harness while the subordinate end is handed to the child process as one
// of its standard streams. Implementations are provided by adapters/ptypair
// and adapters/pipepair.
type Pair interface {
	io.Closer
	// Controller returns the harness-held end.
	Controller() *os.File
	// Subordinate returns the end bound to a child standard stream.
	Subordinate() *os.File
	// Descriptor returns the raw controller file descriptor for readiness
	// polling. Callers must use this rather than Controller().Fd(): Fd puts
	// the descriptor back into blocking mode as a side effect, which would
	// break the ReadAvailable contract.
	Descriptor() int
	// ReadAvailable reads whatever bytes are currently available from the
	// controller end without blocking. It returns (0, nil) when no data is
	// buffered and io.EOF once the subordinate side has closed and the
	// stream is drained.
	ReadAvailable(p []byte) (int, error)
	// CloseSubordinate closes only the subordinate end, leaving the
	// controller readable.
	CloseSubordinate() error
}

// Opener allocates Pairs for one capture call.
type Opener interface {
	Open(flow Flow) (Pair, error)
}
