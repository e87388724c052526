package ttyrun

import (
	"time"

	"pkt.systems/ttyrun/env"
	"pkt.systems/ttyrun/port"
)

const (
	// DefaultTimeout bounds the wall-clock duration of a capture.
	DefaultTimeout = 5 * time.Second
	// DefaultPollInterval is how long one readiness wait blocks before the
	// loop re-checks child exit and deadline.
	DefaultPollInterval = 40 * time.Millisecond
	// DefaultChunkSize is the per-read byte limit on each ready stream.
	DefaultChunkSize = 512
)

// Option configures Capture, Start, Run and Output.
type Option func(*config)

type config struct {
	timeout      time.Duration
	pollInterval time.Duration
	chunkSize    int
	environ      map[string]string
	mergeEnviron map[string]string
	dir          string
	runner       port.CommandRunner
	opener       port.Opener
}

// WithTimeout bounds the total wall-clock duration of a capture. On expiry
// the capture returns with whatever output accumulated; the child is not
// terminated.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithPollInterval sets the readiness-wait interval of the polling loop.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) { c.pollInterval = d }
}

// WithChunkSize sets how many bytes are read from a ready stream at a time.
func WithChunkSize(n int) Option {
	return func(c *config) { c.chunkSize = n }
}

// WithEnviron replaces the child's environment entirely with e. The ambient
// process environment is not consulted and never mutated.
func WithEnviron(e map[string]string) Option {
	return func(c *config) { c.environ = e }
}

// WithMergeEnviron overlays e on the environment the child would otherwise
// get (the parent's, or a WithEnviron replacement).
func WithMergeEnviron(e map[string]string) Option {
	return func(c *config) { c.mergeEnviron = env.Merge(c.mergeEnviron, e) }
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// WithRunner substitutes the command runner, usually with
// adapters/mockrunner in tests.
func WithRunner(runner port.CommandRunner) Option {
	return func(c *config) { c.runner = runner }
}

// WithOpener substitutes the device-pair allocator, for example
// adapters/pipepair.Default where pseudo-terminals are unavailable.
func WithOpener(opener port.Opener) Option {
	return func(c *config) { c.opener = opener }
}

func resolveOptions(opts []Option) *config {
	cfg := &config{
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		chunkSize:    DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = DefaultPollInterval
	}
	if cfg.chunkSize <= 0 {
		cfg.chunkSize = DefaultChunkSize
	}
	return cfg
}

// environList renders the configured environment for exec.Cmd.Env, or nil
// when the child should inherit the parent environment untouched.
func (c *config) environList() []string {
	if c.environ == nil && c.mergeEnviron == nil {
		return nil
	}
	base := c.environ
	if base == nil {
		base = env.Environ()
	}
	return env.List(env.Merge(base, c.mergeEnviron))
}
