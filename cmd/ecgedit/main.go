package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/logging"
	"github.com/TimelordUK/ecgedit/internal/source"
	"github.com/TimelordUK/ecgedit/internal/ui"
)

func main() {
	configFlag := flag.String("config", "", "Config file (.toml, .yaml)")
	channelFlag := flag.String("channel", "", "Channel to show first (multi-channel documents)")
	sliceFlag := flag.String("S", "", "Display range (e.g., 0-3600, $-1000, 0:10-0:20)")
	outFlag := flag.String("o", "", "Export directory")
	urlFlag := flag.String("url", "", "Base URL used when no document is given")
	debugFlag := flag.String("debug", "", "Write debug log to file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ecgedit [-config file] [-channel name] [-S range] [-o dir] [-debug log] [file|url]\n")
		fmt.Fprintf(os.Stderr, "  -config\tConfig file (default %s)\n", config.GetConfigPath())
		fmt.Fprintf(os.Stderr, "  -channel\tChannel to show first\n")
		fmt.Fprintf(os.Stderr, "  -S\tDisplay range (e.g., 0-3600, $-1000, 0:10-0:20)\n")
		fmt.Fprintf(os.Stderr, "  -o\tExport directory\n")
		fmt.Fprintf(os.Stderr, "  -url\tBase URL used when no document is given\n")
		fmt.Fprintf(os.Stderr, "  -debug\tWrite debug log to file\n")
		fmt.Fprintf(os.Stderr, "Documents may be .json, .json.gz or .json.zst.\n")
	}
	flag.Parse()

	opts := options{
		config:  *configFlag,
		channel: *channelFlag,
		slice:   *sliceFlag,
		out:     *outFlag,
		url:     *urlFlag,
		debug:   *debugFlag,
	}
	if err := run(opts, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config  string
	channel string
	slice   string
	out     string
	url     string
	debug   string
}

// run owns every deferred cleanup so the debug log is flushed before main exits
func run(opts options, location string) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if opts.url != "" {
		cfg.Loader.BaseURL = opts.url
	}

	logger, cleanup, err := logging.Setup(opts.debug, opts.debug != "")
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := providerFor(location, cfg)
	if err != nil {
		logger.Error("no document source", zap.Error(err))
		return err
	}
	logger.Info("starting", zap.String("source", provider.Name()))

	model, err := ui.NewModel(ui.ModelOptions{
		Provider:  provider,
		Channel:   opts.channel,
		Range:     opts.slice,
		ExportDir: opts.out,
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program failed", zap.Error(err))
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// providerFor picks the document source: the argument if given, else the configured URL
func providerFor(location string, cfg *config.Config) (source.Provider, error) {
	if location != "" {
		return source.ForLocation(location), nil
	}
	url, err := source.ResolveURL(cfg.Loader.BaseURL, cfg.Loader.DocumentPath)
	if err != nil {
		return nil, err
	}
	return source.NewHTTPProvider(url), nil
}
