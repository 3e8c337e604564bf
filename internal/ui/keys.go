package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/ecgedit/internal/config"
)

// keyMap holds the normal-mode bindings built from config
type keyMap struct {
	Quit         key.Binding
	RowUp        key.Binding
	RowDown      key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	PanLeft      key.Binding
	PanRight     key.Binding
	ZoomIn       key.Binding
	ZoomOut      key.Binding
	Range        key.Binding
	Lookup       key.Binding
	Edit         key.Binding
	DirectEdit   key.Binding
	Channel      key.Binding
	AllSymbols   key.Binding
	Export       key.Binding
	ExportWindow key.Binding
	Preview      key.Binding
	Reload       key.Binding
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
}

func newKeyMap(kb config.KeybindingConfig) keyMap {
	return keyMap{
		Quit:         binding(kb.Quit, "quit"),
		RowUp:        binding(kb.RowUp, "up"),
		RowDown:      binding(kb.RowDown, "down"),
		PageUp:       binding(kb.PageUp, "page up"),
		PageDown:     binding(kb.PageDown, "page down"),
		PanLeft:      binding(kb.PanLeft, "pan left"),
		PanRight:     binding(kb.PanRight, "pan right"),
		ZoomIn:       binding(kb.ZoomIn, "zoom in"),
		ZoomOut:      binding(kb.ZoomOut, "zoom out"),
		Range:        binding(kb.Range, "range"),
		Lookup:       binding(kb.Lookup, "lookup sample"),
		Edit:         binding(kb.Edit, "edit"),
		DirectEdit:   binding(kb.DirectEdit, "overwrite"),
		Channel:      binding(kb.Channel, "channel"),
		AllSymbols:   binding(kb.AllSymbols, "all symbols"),
		Export:       binding(kb.Export, "export"),
		ExportWindow: binding(kb.ExportWindow, "export window"),
		Preview:      binding(kb.Preview, "preview"),
		Reload:       binding(kb.Reload, "reload"),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PanLeft, k.PanRight, k.ZoomIn, k.Range, k.Lookup, k.Edit, k.Export, k.Preview, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RowUp, k.RowDown, k.PageUp, k.PageDown},
		{k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.Range},
		{k.Lookup, k.Edit, k.DirectEdit, k.Channel, k.AllSymbols},
		{k.Export, k.ExportWindow, k.Preview, k.Reload, k.Quit},
	}
}
