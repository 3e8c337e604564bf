package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/filter"
)

// MaxToggleKeys is how many symbols get a number key
const MaxToggleKeys = 9

var disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)

// Legend lists the symbol set with toggle keys, enabled state and counts
func Legend(set ecg.SymbolSet, sel filter.Selection, counts map[string]int, classes *ClassRenderer) string {
	parts := make([]string, 0, len(set))
	for i, sym := range set {
		key := " "
		if i < MaxToggleKeys {
			key = fmt.Sprintf("%d", i+1)
		}
		label := sym
		if label == "" {
			label = `""`
		}
		item := fmt.Sprintf("%s:%s %s", key, label, humanize.Comma(int64(counts[sym])))

		switch {
		case !sel.IsEnabled(sym):
			item = disabledStyle.Render(item)
		case classes != nil:
			item = classes.Style(sym).Render(item)
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, "  ")
}

// Counts tallies annotations per symbol
func Counts(anns ecg.Annotations) map[string]int {
	counts := make(map[string]int)
	for _, a := range anns {
		counts[a.Symbol]++
	}
	return counts
}
