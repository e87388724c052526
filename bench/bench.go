// Package bench extracts a few numeric fields from benchmark tool output.
// It is not a benchmarking tool; it only parses the text other tools print.
package bench

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reqPerSecRe = regexp.MustCompile(`Requests/sec:\s+(\d+)`)
	latencyRe   = regexp.MustCompile(`Latency(?:\s+(\d+\.\d+)([a-z]+)){3}`)
)

// WrkStats holds the fields extracted from wrk's summary output. A field
// that could not be found is -1.
type WrkStats struct {
	ReqPerSec  int
	MaxLatency float64 // milliseconds
}

// ParseWrk scans the output of a wrk run line by line and extracts the
// requests-per-second figure and the maximum latency, the latter normalized
// to milliseconds regardless of the unit wrk printed (us, ms or s). The
// first line carrying each field wins; a field is only taken from a line
// where it occurs exactly once.
func ParseWrk(output string) WrkStats {
	stats := WrkStats{ReqPerSec: -1, MaxLatency: -1}
	for _, line := range strings.Split(output, "\n") {
		if stats.ReqPerSec < 0 {
			if n, ok := extractInt(reqPerSecRe, line); ok {
				stats.ReqPerSec = n
			}
		}
		if stats.MaxLatency < 0 {
			if ms, ok := extractLatencyMS(latencyRe, line); ok {
				stats.MaxLatency = ms
			}
		}
	}
	return stats
}

func extractInt(re *regexp.Regexp, line string) (int, bool) {
	matches := re.FindAllStringSubmatch(line, -1)
	if len(matches) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractLatencyMS(re *regexp.Regexp, line string) (float64, bool) {
	matches := re.FindAllStringSubmatch(line, -1)
	if len(matches) != 1 {
		return 0, false
	}
	// A repeated group captures its last occurrence, which for the wrk
	// latency line is the maximum column.
	num, err := strconv.ParseFloat(matches[0][1], 64)
	if err != nil {
		return 0, false
	}
	switch matches[0][2] {
	case "ms":
		return num, true
	case "us":
		return num / 1000, true
	case "s":
		return num * 1000, true
	}
	return 0, false
}
