package port

// CommandCapture buffers combined stdout/stderr for the plain, non-TTY run
// helpers (Output, RunCommand and friends). It stays out of Capture's path,
// which accumulates the two streams separately through Pair. Implementations
// are provided by adapters/commandcapture.
type CommandCapture interface {
	// Enable arms the capture with the buffer the command writes into and a
	// reset callback restoring the command's original streams.
	Enable(buf Buffer, reset func())
	// Finish restores the streams and returns a copy of the captured bytes,
	// or nil when the capture was never enabled.
	Finish() []byte
	// Restore undoes the stream rewiring without reading the buffer. Safe to
	// call more than once.
	Restore()
}

// Buffer is the minimal surface CommandCapture needs from a write buffer.
type Buffer interface {
	Grow(int)
	Bytes() []byte
}
