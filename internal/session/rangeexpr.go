package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// ParseRange parses a range expression against a waveform of total samples.
//
//	500-1000   samples [500, 1000)
//	500-       from 500 to the end
//	500        same as 500-
//	.          current range start
//	.+360      360 samples after the current start
//	$          end of waveform
//	$-360      360 samples before the end
//	0:02-0:05  times, converted through clock
//
// The result is clamped into [0, total]; an inverted range is returned empty.
func ParseRange(expr string, current, total int, clock ecgformat.Clock) (filter.Range, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return filter.Range{}, fmt.Errorf("empty range")
	}

	var startStr, endStr string

	// Find the separator dash (not one that's part of $-N or .-N)
	dashIdx := -1
	for i := 0; i < len(expr); i++ {
		if expr[i] == '-' {
			if i > 0 && (expr[i-1] == '$' || expr[i-1] == '.') {
				continue
			}
			dashIdx = i
			break
		}
	}

	if dashIdx >= 0 {
		startStr = expr[:dashIdx]
		endStr = expr[dashIdx+1:]
		if strings.TrimSpace(endStr) == "" {
			endStr = "$"
		}
	} else {
		startStr = expr
		endStr = "$"
	}

	start, err := parseSampleRef(startStr, current, total, clock)
	if err != nil {
		return filter.Range{}, err
	}
	end, err := parseSampleRef(endStr, current, total, clock)
	if err != nil {
		return filter.Range{}, err
	}

	return filter.Range{Start: start, End: end}.Clamp(total), nil
}

// parseSampleRef parses a reference like ".", "$", "$-100", ".+50", "0:01.5" or "500"
func parseSampleRef(ref string, current, total int, clock ecgformat.Clock) (int, error) {
	ref = strings.TrimSpace(ref)

	switch {
	case ref == "":
		return 0, nil
	case ref == ".":
		return current, nil
	case ref == "$":
		return total, nil
	case strings.HasPrefix(ref, "$"):
		offset, err := parseOffset(ref[1:])
		if err != nil {
			return 0, fmt.Errorf("bad reference %q: %w", ref, err)
		}
		return total + offset, nil
	case strings.HasPrefix(ref, "."):
		offset, err := parseOffset(ref[1:])
		if err != nil {
			return 0, fmt.Errorf("bad reference %q: %w", ref, err)
		}
		return current + offset, nil
	case ecgformat.IsTime(ref):
		return clock.ParseTime(ref)
	}

	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad sample %q", ref)
	}
	return n, nil
}

// parseOffset parses a signed offset like "+50" or "-100"
func parseOffset(s string) (int, error) {
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("expected +N or -N")
	}
	return strconv.Atoi(s)
}
