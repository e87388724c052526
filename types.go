package ttyrun

import "errors"

var (
	ERR_EMPTY_ARGV error = errors.New("empty argument vector")
	ERR_NIL_RUNNER error = errors.New("nil command runner")
)
