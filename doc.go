// Package ttyrun runs child processes on behalf of an integration test
// harness. Its core is Capture, which binds a child's standard streams to
// pseudo-terminal subordinates so programs that special-case interactive
// terminals (line buffering, prompts, color) exercise that code path under
// test, while the harness still collects stdout and stderr separately under
// a timeout. Plain, non-interactive execution is available through Run and
// Output, and Start runs a capture in the background.
//
// Companion packages cover the rest of the harness toolkit: match compares
// captured output against wildcard templates, env composes child
// environments without mutating the process environment, ansi strips
// terminal escape sequences from captures, bench extracts numeric fields
// from benchmark output, and fsutil prepares and cleans test trees.
//
// The pseudo-terminal plumbing is abstracted behind port.Pair;
// adapters/pipepair substitutes ordinary pipes where pseudo-terminal
// devices are unavailable.
package ttyrun
