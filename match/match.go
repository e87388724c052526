// Package match compares captured test output against expected-output
// templates. A template may embed the wildcard token (default [WILDCARD])
// which matches any substring of the actual output at that position. There
// is no escaping mechanism and no metacharacter interpretation; everything
// outside the token is compared byte for byte.
package match

import "strings"

// Token is the default wildcard token recognized by Wildcard.
const Token = "[WILDCARD]"

// Wildcard reports whether actual satisfies pattern, allowing the default
// wildcard token to stand in for any substring. A pattern equal to the token
// matches everything, including the empty string. A pattern without the
// token must equal actual exactly.
func Wildcard(pattern, actual string) bool {
	return WildcardWith(pattern, actual, Token)
}

// WildcardWith is Wildcard with a caller-supplied wildcard token. The token
// is only special as a separator; consecutive tokens produce empty segments
// that match zero characters. A trailing segment that is empty or a single
// newline matches any remaining suffix. Absence of a match is a normal
// outcome, never an error.
func WildcardWith(pattern, actual, token string) bool {
	if pattern == token {
		return true
	}

	parts := strings.Split(pattern, token)
	if len(parts) == 1 {
		return pattern == actual
	}

	rest, ok := strings.CutPrefix(actual, parts[0])
	if !ok {
		return false
	}

	for i := 1; i < len(parts); i++ {
		if i == len(parts)-1 && (parts[i] == "" || parts[i] == "\n") {
			return true
		}
		found := strings.Index(rest, parts[i])
		if found < 0 {
			return false
		}
		rest = rest[found+len(parts[i]):]
	}

	// The last segment must consume up to the end of actual.
	return len(rest) == 0
}
