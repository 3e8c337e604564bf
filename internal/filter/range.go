package filter

import "fmt"

// Range is a half-open span of sample indices [Start, End)
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range selects nothing
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// Len returns the number of samples selected, 0 when empty
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether sample is in [Start, End)
func (r Range) Contains(sample int) bool {
	return r.Start <= sample && sample < r.End
}

// Clamp bounds the range to a waveform of n samples.
// An inverted range stays empty rather than being reordered.
func (r Range) Clamp(n int) Range {
	if n < 0 {
		n = 0
	}
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// Pan moves the range by delta samples keeping its width, stopping at the
// waveform edges
func (r Range) Pan(delta, n int) Range {
	width := r.Len()
	if width == 0 || n <= 0 {
		return r.Clamp(n)
	}
	if width > n {
		width = n
	}

	start := r.Start + delta
	if start > n-width {
		start = n - width
	}
	if start < 0 {
		start = 0
	}
	return Range{Start: start, End: start + width}
}

// Zoom scales the range width around its centre. factor < 1 zooms in.
func (r Range) Zoom(factor float64, n int) Range {
	width := r.Len()
	if width == 0 || factor <= 0 || n <= 0 {
		return r.Clamp(n)
	}

	newWidth := int(float64(width)*factor + 0.5)
	if newWidth < 1 {
		newWidth = 1
	}
	if newWidth > n {
		newWidth = n
	}

	centre := r.Start + width/2
	start := centre - newWidth/2
	return Range{Start: start, End: start + newWidth}.Pan(0, n)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
