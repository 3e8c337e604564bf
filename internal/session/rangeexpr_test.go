package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/ecgedit/internal/filter"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

func TestParseRange(t *testing.T) {
	clock := ecgformat.NewClock(360)
	const current, total = 1000, 10000

	tests := []struct {
		expr string
		want filter.Range
	}{
		{"500-1000", filter.Range{Start: 500, End: 1000}},
		{"500-", filter.Range{Start: 500, End: total}},
		{"500", filter.Range{Start: 500, End: total}},
		{"-200", filter.Range{Start: 0, End: 200}},
		{".", filter.Range{Start: current, End: total}},
		{".+0-.+360", filter.Range{Start: current, End: current + 360}},
		{".-100-.", filter.Range{Start: current - 100, End: current}},
		{"$-360", filter.Range{Start: total - 360, End: total}},
		{"0-$", filter.Range{Start: 0, End: total}},
		{"0:01-0:02", filter.Range{Start: 360, End: 720}},
		{"0:01.5-2s", filter.Range{Start: 540, End: 720}},
		{" 100 - 200 ", filter.Range{Start: 100, End: 200}},
		// clamped into the waveform
		{"9000-20000", filter.Range{Start: 9000, End: total}},
		// inverted ranges are empty, not errors
		{"800-100", filter.Range{Start: 800, End: 800}},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseRange(tc.expr, current, total, clock)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRangeErrors(t *testing.T) {
	clock := ecgformat.NewClock(360)
	for _, expr := range []string{"", "  ", "abc", "10-xyz", "$10", ".5", "0:75-1:00"} {
		_, err := ParseRange(expr, 0, 1000, clock)
		assert.Error(t, err, expr)
	}
}
