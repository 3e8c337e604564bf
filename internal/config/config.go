package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme" yaml:"theme"`
	Keybindings KeybindingConfig `toml:"keybindings" yaml:"keybindings"`
	Display     DisplayConfig    `toml:"display" yaml:"display"`
	Loader      LoaderConfig     `toml:"loader" yaml:"loader"`
	Export      ExportConfig     `toml:"export" yaml:"export"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string      `toml:"name" yaml:"name"`
	Waveform      string      `toml:"waveform" yaml:"waveform"`
	Axis          string      `toml:"axis" yaml:"axis"`
	StatusBar     string      `toml:"status_bar" yaml:"status_bar"`
	StatusBarText string      `toml:"status_bar_text" yaml:"status_bar_text"`
	Selected      string      `toml:"selected" yaml:"selected"`
	Error         string      `toml:"error" yaml:"error"`
	Classes       ClassColors `toml:"classes" yaml:"classes"`
}

// ClassColors defines marker colors per beat class
type ClassColors struct {
	Normal           string `toml:"normal" yaml:"normal"`
	Supraventricular string `toml:"supraventricular" yaml:"supraventricular"`
	Ventricular      string `toml:"ventricular" yaml:"ventricular"`
	Fusion           string `toml:"fusion" yaml:"fusion"`
	Unclassifiable   string `toml:"unclassifiable" yaml:"unclassifiable"`
	Other            string `toml:"other" yaml:"other"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit         []string `toml:"quit" yaml:"quit"`
	RowUp        []string `toml:"row_up" yaml:"row_up"`
	RowDown      []string `toml:"row_down" yaml:"row_down"`
	PageUp       []string `toml:"page_up" yaml:"page_up"`
	PageDown     []string `toml:"page_down" yaml:"page_down"`
	PanLeft      []string `toml:"pan_left" yaml:"pan_left"`
	PanRight     []string `toml:"pan_right" yaml:"pan_right"`
	ZoomIn       []string `toml:"zoom_in" yaml:"zoom_in"`
	ZoomOut      []string `toml:"zoom_out" yaml:"zoom_out"`
	Range        []string `toml:"range" yaml:"range"`
	Lookup       []string `toml:"lookup" yaml:"lookup"`
	Edit         []string `toml:"edit" yaml:"edit"`
	DirectEdit   []string `toml:"direct_edit" yaml:"direct_edit"`
	Channel      []string `toml:"channel" yaml:"channel"`
	AllSymbols   []string `toml:"all_symbols" yaml:"all_symbols"`
	Export       []string `toml:"export" yaml:"export"`
	ExportWindow []string `toml:"export_window" yaml:"export_window"`
	Preview      []string `toml:"preview" yaml:"preview"`
	Reload       []string `toml:"reload" yaml:"reload"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	Window       int     `toml:"window" yaml:"window"`               // samples shown on load
	ChartHeight  int     `toml:"chart_height" yaml:"chart_height"`   // rows
	SamplingRate float64 `toml:"sampling_rate" yaml:"sampling_rate"` // Hz, for time display and time ranges
	ShowTime     bool    `toml:"show_time" yaml:"show_time"`
}

// LoaderConfig holds where documents come from when no file is given
type LoaderConfig struct {
	BaseURL      string `toml:"base_url" yaml:"base_url"`
	DocumentPath string `toml:"document_path" yaml:"document_path"`
	Watch        bool   `toml:"watch" yaml:"watch"`
}

// ExportConfig holds export options
type ExportConfig struct {
	Dir      string `toml:"dir" yaml:"dir"`
	FileName string `toml:"file_name" yaml:"file_name"`
	Indent   bool   `toml:"indent" yaml:"indent"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "subtle",
			Waveform:      "39",  // Blue
			Axis:          "240", // Dark gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			Selected:      "226", // Yellow
			Error:         "167", // Soft red
			Classes: ClassColors{
				Normal:           "250", // Light gray
				Supraventricular: "214", // Orange
				Ventricular:      "196", // Bright red
				Fusion:           "177", // Violet
				Unclassifiable:   "244", // Medium gray
				Other:            "109", // Teal
			},
		},
		Keybindings: KeybindingConfig{
			Quit:         []string{"q", "ctrl+c"},
			RowUp:        []string{"k", "up"},
			RowDown:      []string{"j", "down"},
			PageUp:       []string{"b", "pgup", "ctrl+u"},
			PageDown:     []string{"f", "pgdown", "ctrl+d", " "},
			PanLeft:      []string{"h", "left"},
			PanRight:     []string{"l", "right"},
			ZoomIn:       []string{"+", "="},
			ZoomOut:      []string{"-", "_"},
			Range:        []string{"r"},
			Lookup:       []string{"/"},
			Edit:         []string{"e", "enter"},
			DirectEdit:   []string{"E"},
			Channel:      []string{"c"},
			AllSymbols:   []string{"a"},
			Export:       []string{"s", "ctrl+s"},
			ExportWindow: []string{"w"},
			Preview:      []string{"p"},
			Reload:       []string{"R"},
		},
		Display: DisplayConfig{
			Window:       500,
			ChartHeight:  12,
			SamplingRate: ecgformat.DefaultRate,
			ShowTime:     true,
		},
		Loader: LoaderConfig{
			BaseURL:      "http://localhost:3000",
			DocumentPath: "/100_data.json",
			Watch:        true,
		},
		Export: ExportConfig{
			Dir:      ".",
			FileName: "updated_annotations.json",
			Indent:   false,
		},
	}
}

// Validate rejects settings the viewer cannot work with
func (c *Config) Validate() error {
	var errs []error
	if c.Display.Window <= 0 {
		errs = append(errs, fmt.Errorf("display.window must be positive, got %d", c.Display.Window))
	}
	if c.Display.ChartHeight < 3 {
		errs = append(errs, fmt.Errorf("display.chart_height must be at least 3, got %d", c.Display.ChartHeight))
	}
	if c.Display.SamplingRate <= 0 {
		errs = append(errs, fmt.Errorf("display.sampling_rate must be positive, got %g", c.Display.SamplingRate))
	}
	if c.Export.FileName == "" || strings.ContainsAny(c.Export.FileName, `/\`) {
		errs = append(errs, fmt.Errorf("export.file_name must be a bare file name, got %q", c.Export.FileName))
	}
	return errors.Join(errs...)
}

// Load loads config from the default location, falling back to defaults
func Load() (*Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return DefaultConfig(), nil
	}

	cfg, err := LoadFile(configPath)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile loads config from path, layered over the defaults.
// .yaml and .yml files are parsed as YAML, everything else as TOML.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}
	return SaveFile(cfg, configPath)
}

// SaveFile writes config as TOML to path
func SaveFile(cfg *Config, path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ecgedit", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "ecgedit", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
