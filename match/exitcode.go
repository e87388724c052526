package match

import (
	"fmt"
	"regexp"
	"strconv"
)

var errorTokenRe = regexp.MustCompile(`error(\d*)`)

// ParseExitCode derives the expected exit code from a test name. A name
// containing "error" declares a non-zero exit: "error" alone means 1,
// "error42" means 42. A name without the token means 0. More than one
// occurrence is ambiguous and returns an error.
func ParseExitCode(name string) (int, error) {
	matches := errorTokenRe.FindAllStringSubmatch(name, -1)
	switch len(matches) {
	case 0:
		return 0, nil
	case 1:
		digits := matches[0][1]
		if digits == "" {
			return 1, nil
		}
		code, err := strconv.Atoi(digits)
		if err != nil {
			return 0, fmt.Errorf("parse exit code from %q: %w", name, err)
		}
		return code, nil
	default:
		return 0, fmt.Errorf("multiple error codes in %q", name)
	}
}
