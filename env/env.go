// Package env composes process environments as plain maps. All functions
// return fresh maps and never mutate their inputs or the ambient process
// environment; callers convert to exec.Cmd form with List at the last
// moment.
package env

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// Environ returns the current process environment as a map. Entries
// without '=' are skipped.
func Environ() map[string]string {
	environ := os.Environ()
	e := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			e[key] = value
		}
	}
	return e
}

// Merge copies base and overlays every entry of overlay on top of it.
// Either argument may be nil.
func Merge(base, overlay map[string]string) map[string]string {
	e := make(map[string]string, len(base)+len(overlay))
	maps.Copy(e, base)
	maps.Copy(e, overlay)
	return e
}

// AddPath returns a copy of e where the list-valued entry key (a
// os.PathListSeparator separated list, PATH being the usual case) has been
// extended with dirs. Directories already present are not duplicated. When
// prepend is true the new directories come first and the existing list is
// deduplicated against them.
func AddPath(e map[string]string, key string, prepend bool, dirs ...string) map[string]string {
	sep := string(os.PathListSeparator)

	var left []string
	if existing, ok := e[key]; ok && existing != "" {
		left = strings.Split(existing, sep)
	}
	right := dirs
	if prepend {
		left, right = slices.Clone(right), left
	}
	for _, d := range right {
		if !slices.Contains(left, d) {
			left = append(left, d)
		}
	}

	out := Merge(e, nil)
	out[key] = strings.Join(left, sep)
	return out
}

// List renders e in the KEY=value form expected by exec.Cmd.Env, sorted by
// key for stable output.
func List(e map[string]string) []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	list := make([]string, 0, len(keys))
	for _, key := range keys {
		list = append(list, key+"="+e[key])
	}
	return list
}
