package filter

import (
	"maps"
	"slices"
	"sort"

	"github.com/TimelordUK/ecgedit/internal/ecg"
)

// Selection is what is currently displayed: the enabled symbols and the sample range.
// It is a value; every transition returns a new Selection and leaves the receiver alone.
type Selection struct {
	enabled map[string]bool
	Range   Range
}

// NewSelection enables every symbol in set and shows the first window samples
func NewSelection(set ecg.SymbolSet, window int) Selection {
	return Selection{
		enabled: enabledFrom(set),
		Range:   Range{Start: 0, End: window},
	}
}

func enabledFrom(symbols []string) map[string]bool {
	enabled := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		enabled[s] = true
	}
	return enabled
}

func (s Selection) with(enabled map[string]bool) Selection {
	return Selection{enabled: enabled, Range: s.Range}
}

// IsEnabled reports whether sym is displayed
func (s Selection) IsEnabled(sym string) bool {
	return s.enabled[sym]
}

// Toggle flips sym in the enabled set
func (s Selection) Toggle(sym string) Selection {
	if s.enabled[sym] {
		return s.Disable(sym)
	}
	return s.Enable(sym)
}

// Enable adds sym to the enabled set
func (s Selection) Enable(sym string) Selection {
	enabled := maps.Clone(s.enabled)
	if enabled == nil {
		enabled = make(map[string]bool)
	}
	enabled[sym] = true
	return s.with(enabled)
}

// Disable removes sym from the enabled set
func (s Selection) Disable(sym string) Selection {
	enabled := maps.Clone(s.enabled)
	delete(enabled, sym)
	return s.with(enabled)
}

// Only enables sym alone
func (s Selection) Only(sym string) Selection {
	return s.with(map[string]bool{sym: true})
}

// EnableAll enables every symbol in set
func (s Selection) EnableAll(set ecg.SymbolSet) Selection {
	return s.with(enabledFrom(set))
}

// DisableAll hides every symbol
func (s Selection) DisableAll() Selection {
	return s.with(map[string]bool{})
}

// WithRange replaces the display range
func (s Selection) WithRange(r Range) Selection {
	return Selection{enabled: s.enabled, Range: r}
}

// Shift pans the range by delta samples within a waveform of n samples
func (s Selection) Shift(delta, n int) Selection {
	return s.WithRange(s.Range.Pan(delta, n))
}

// Zoom scales the range width by factor within a waveform of n samples
func (s Selection) Zoom(factor float64, n int) Selection {
	return s.WithRange(s.Range.Zoom(factor, n))
}

// EnabledSymbols returns the enabled symbols, sorted
func (s Selection) EnabledSymbols() []string {
	out := slices.Collect(maps.Keys(s.enabled))
	sort.Strings(out)
	return out
}

// EnabledCount returns the number of enabled symbols
func (s Selection) EnabledCount() int {
	return len(s.enabled)
}
