package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/TimelordUK/ecgedit/internal/config"
	"github.com/TimelordUK/ecgedit/internal/ecg"
	"github.com/TimelordUK/ecgedit/internal/export"
	"github.com/TimelordUK/ecgedit/internal/render"
	"github.com/TimelordUK/ecgedit/internal/source"
	"github.com/TimelordUK/ecgedit/internal/watch"
	"github.com/TimelordUK/ecgedit/pkg/ecgformat"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeRange
	ModeLookup
	ModeEdit
	ModeDirectEdit
	ModePreview
)

// ModelOptions configures a new Model
type ModelOptions struct {
	Provider  source.Provider
	Channel   string // applied to the first load
	Range     string // applied to the first load
	ExportDir string // overrides export.dir
	Config    *config.Config
	Logger    *zap.Logger
}

// loadedMsg carries a finished fetch back to the UI loop
type loadedMsg struct {
	ticket source.Ticket
	doc    *ecg.Document
	err    error
}

// changedMsg reports the watched document changed on disk
type changedMsg struct {
	event watch.Event
}

// watchErrMsg reports a watcher failure
type watchErrMsg struct {
	err error
}

// Model is the main application model
type Model struct {
	config   *config.Config
	logger   *zap.Logger
	keys     keyMap
	help     help.Model
	pane     *Pane
	loader   *source.Loader
	provider source.Provider
	exporter *export.Exporter
	watcher  *watch.Watcher
	syntax   *render.SyntaxRenderer
	clock    ecgformat.Clock
	input    textinput.Model

	mode   Mode
	width  int
	height int

	// Applied once the first document arrives
	pendingChannel string
	pendingRange   string

	// JSON preview of the current window export
	preview       []string
	previewOffset int

	// Status
	message string
	err     error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates the application model. Loading starts in Init.
func NewModel(opts ModelOptions) (*Model, error) {
	if opts.Provider == nil {
		return nil, errors.New("no document source")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := cfg.Export.Dir
	if opts.ExportDir != "" {
		dir = opts.ExportDir
	}

	ti := textinput.New()
	ti.CharLimit = 64

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:   cfg,
		logger:   logger,
		keys:     newKeyMap(cfg.Keybindings),
		help:     help.New(),
		pane:     NewPane(cfg, logger),
		loader:   source.NewLoader(logger),
		provider: opts.Provider,
		exporter: export.NewExporter(dir,
			export.WithFileName(cfg.Export.FileName),
			export.WithIndent(cfg.Export.Indent),
			export.WithLogger(logger)),
		syntax:         render.NewSyntaxRenderer(cfg.Export.FileName),
		clock:          ecgformat.NewClock(cfg.Display.SamplingRate),
		input:          ti,
		mode:           ModeNormal,
		pendingChannel: opts.Channel,
		pendingRange:   opts.Range,
		ctx:            ctx,
		cancel:         cancel,
	}

	if fp, ok := opts.Provider.(*source.FileProvider); ok && cfg.Loader.Watch {
		w, err := watch.New(fp.Path(), watch.WithLogger(logger))
		if err != nil {
			// Loading reports a missing file; the viewer works without a watcher
			logger.Warn("file watch disabled", zap.String("path", fp.Path()), zap.Error(err))
		} else {
			w.Start()
			m.watcher = w
		}
	}

	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.waitForChange())
}

// reload begins a new load; any load still in flight is superseded
func (m *Model) reload() tea.Cmd {
	ticket := m.loader.Begin(m.provider)
	ctx, p := m.ctx, m.provider
	return func() tea.Msg {
		doc, err := source.Fetch(ctx, p)
		return loadedMsg{ticket: ticket, doc: doc, err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		select {
		case ev := <-w.Events():
			return changedMsg{event: ev}
		case err := <-w.Errors():
			return watchErrMsg{err: err}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Reserve 2 lines for status bar and help
		m.pane.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case changedMsg:
		s := m.pane.Session()
		if s.Loaded() && s.Modified() > 0 {
			m.message = fmt.Sprintf("%s changed on disk; %s to reload and drop %s edits",
				m.loader.SourceName(), m.keys.Reload.Help().Key, humanize.Comma(int64(s.Modified())))
			return m, m.waitForChange()
		}
		m.message = fmt.Sprintf("%s changed on disk, reloading", m.loader.SourceName())
		return m, tea.Batch(m.reload(), m.waitForChange())

	case watchErrMsg:
		m.err = fmt.Errorf("watch: %w", msg.err)
		return m, m.waitForChange()
	}

	return m, nil
}

func (m *Model) handleLoaded(msg loadedMsg) {
	err := m.loader.Finish(msg.ticket, msg.doc, msg.err)
	if errors.Is(err, source.ErrSuperseded) {
		return
	}

	interrupted := m.closeOverlays()
	if err != nil {
		m.pane.Unload()
		m.err = err
		m.message = ""
		return
	}

	if err := m.pane.Load(msg.doc); err != nil {
		m.pane.Unload()
		m.err = err
		return
	}
	m.err = nil
	m.message = fmt.Sprintf("loaded %s: %s samples, %s annotations",
		msg.ticket.Source(),
		humanize.Comma(int64(m.pane.Session().SampleCount())),
		humanize.Comma(int64(len(msg.doc.Annotations))))
	if interrupted {
		m.message += "; edit in progress cancelled by reload"
	}

	s := m.pane.Session()
	if m.pendingChannel != "" {
		if err := s.SelectChannel(m.pendingChannel); err != nil {
			m.err = err
		}
		m.pendingChannel = ""
	}
	if m.pendingRange != "" {
		if _, err := s.ParseRange(m.pendingRange); err != nil {
			m.err = fmt.Errorf("range %q: %w", m.pendingRange, err)
		}
		m.pendingRange = ""
	}
	m.pane.Sync()
}

// closeOverlays leaves any prompt or preview before the document is replaced.
// It reports whether an edit was in progress.
func (m *Model) closeOverlays() bool {
	editing := m.mode == ModeEdit || m.mode == ModeDirectEdit
	switch m.mode {
	case ModeRange, ModeLookup, ModeEdit, ModeDirectEdit:
		m.pane.Session().CancelEdit()
		m.endPrompt()
	case ModePreview:
		m.mode = ModeNormal
		m.preview = nil
	}
	return editing
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle mode-specific input
	switch m.mode {
	case ModeRange, ModeLookup, ModeEdit, ModeDirectEdit:
		return m.handleInputKey(msg)
	case ModePreview:
		return m.handlePreviewKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Reload) {
		m.message = ""
		return m, m.reload()
	}

	// A failed load stays on screen until a reload succeeds
	s := m.pane.Session()
	if !s.Loaded() || m.loader.State() == source.StateError {
		return m, nil
	}

	// Any key clears the last notice
	m.message = ""
	m.err = nil

	vp := m.pane.Viewport()
	width := s.Selection().Range.Len()

	switch {
	case key.Matches(msg, m.keys.RowDown):
		vp.CursorDown(1)
	case key.Matches(msg, m.keys.RowUp):
		vp.CursorUp(1)
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()

	case key.Matches(msg, m.keys.PanLeft):
		s.Pan(-max(width/4, 1))
	case key.Matches(msg, m.keys.PanRight):
		s.Pan(max(width/4, 1))
	case key.Matches(msg, m.keys.ZoomIn):
		s.Zoom(0.5)
	case key.Matches(msg, m.keys.ZoomOut):
		s.Zoom(2)

	case key.Matches(msg, m.keys.AllSymbols):
		s.EnableAllSymbols()
	case key.Matches(msg, m.keys.Channel):
		if name, err := s.NextChannel(); err != nil {
			m.err = err
		} else {
			m.message = "channel " + name
		}

	case key.Matches(msg, m.keys.Range):
		r := s.Selection().Range
		return m, m.prompt(ModeRange, fmt.Sprintf("%d-%d", r.Start, r.End), "start-end, $-N, .+N, m:ss")
	case key.Matches(msg, m.keys.Lookup):
		return m, m.prompt(ModeLookup, "", "sample number or time")
	case key.Matches(msg, m.keys.Edit):
		i := m.pane.SelectedIndex()
		if err := s.BeginEdit(i); err != nil {
			m.err = err
			break
		}
		m.pane.Sync()
		return m, m.prompt(ModeEdit, s.EditState().Proposed(), "new symbol")
	case key.Matches(msg, m.keys.DirectEdit):
		i := m.pane.SelectedIndex()
		if i < 0 {
			m.err = fmt.Errorf("%w: no row selected", ecg.ErrIndexOutOfRange)
			break
		}
		return m, m.prompt(ModeDirectEdit, "", "new symbol")

	case key.Matches(msg, m.keys.Export):
		m.export(false)
	case key.Matches(msg, m.keys.ExportWindow):
		m.export(true)
	case key.Matches(msg, m.keys.Preview):
		m.openPreview()

	default:
		// 1-9 toggle the symbols shown in the legend
		if k := msg.String(); len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if sym, ok := s.ToggleSymbolAt(int(k[0] - '1')); ok {
				state := "hidden"
				if s.Selection().IsEnabled(sym) {
					state = "shown"
				}
				m.message = fmt.Sprintf("%q %s", sym, state)
			}
		}
	}

	m.pane.Sync()
	return m, nil
}

// prompt switches to an input mode with an initial value
func (m *Model) prompt(mode Mode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) endPrompt() {
	m.mode = ModeNormal
	m.input.Blur()
	m.pane.Sync()
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit(m.mode, m.input.Value())
		m.endPrompt()
		return m, nil

	case "esc":
		if m.mode == ModeEdit {
			m.pane.Session().CancelEdit()
		}
		m.endPrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == ModeEdit {
		m.pane.Session().SetProposal(m.input.Value())
	}
	return m, cmd
}

// submit applies a prompt's value
func (m *Model) submit(mode Mode, value string) {
	s := m.pane.Session()
	switch mode {
	case ModeRange:
		r, err := s.ParseRange(value)
		if err != nil {
			m.err = err
			return
		}
		m.message = fmt.Sprintf("range %s  %s-%s", r, m.clock.Format(r.Start), m.clock.Format(r.End))

	case ModeLookup:
		sample, err := m.parseSample(value)
		if err != nil {
			m.err = err
			return
		}
		i, ann, err := s.Lookup(sample)
		if err != nil {
			m.err = err
			return
		}
		if !m.pane.Reveal(i, ann) {
			m.message = fmt.Sprintf("sample %d: #%d %q lies outside the waveform (%s samples)",
				sample, i, ann.Symbol, humanize.Comma(int64(s.SampleCount())))
			return
		}
		m.message = fmt.Sprintf("sample %d: #%d %q %s", sample, i, ann.Symbol, ecgformat.Describe(ann.Symbol))

	case ModeEdit:
		st := s.EditState()
		s.SetProposal(value)
		if err := s.CommitEdit(); err != nil {
			m.err = err
			return
		}
		m.message = fmt.Sprintf("#%d %q -> %q", st.Index(), st.Expected(), value)

	case ModeDirectEdit:
		i := m.pane.SelectedIndex()
		if err := s.DirectEdit(i, value); err != nil {
			m.err = err
			return
		}
		m.message = fmt.Sprintf("#%d set to %q", i, value)
	}
}

// parseSample accepts a sample number or a time
func (m *Model) parseSample(value string) (int, error) {
	value = strings.TrimSpace(value)
	if ecgformat.IsTime(value) {
		return m.clock.ParseTime(value)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("bad sample %q", value)
	}
	return n, nil
}

// export writes the whole document, or just the visible window
func (m *Model) export(window bool) {
	s := m.pane.Session()
	snap, err := s.Snapshot()
	if err != nil {
		m.err = err
		return
	}

	var info *export.Info
	if window {
		info, err = m.exporter.WriteWindow(snap, s.Selection().Range)
	} else {
		info, err = m.exporter.WriteFile(snap)
	}
	if err != nil {
		m.err = err
		return
	}

	m.message = fmt.Sprintf("wrote %s (%s, %s annotations)",
		info.Path, humanize.Bytes(uint64(info.Bytes)), humanize.Comma(int64(info.Annotations)))
}

// openPreview renders the export of the visible window as highlighted JSON
func (m *Model) openPreview() {
	s := m.pane.Session()
	snap, err := s.Snapshot()
	if err != nil {
		m.err = err
		return
	}
	sub, _, err := export.Window(snap, s.Selection().Range)
	if err != nil {
		m.err = err
		return
	}
	data, err := export.NewExporter("", export.WithIndent(true)).Encode(sub)
	if err != nil {
		m.err = err
		return
	}

	m.preview = m.syntax.Lines(data)
	m.previewOffset = 0
	m.mode = ModePreview
}

func (m *Model) previewHeight() int {
	return max(m.height-2, 1)
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxOffset := max(len(m.preview)-m.previewHeight(), 0)

	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.Preview), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		m.preview = nil
	case key.Matches(msg, m.keys.RowDown):
		m.previewOffset++
	case key.Matches(msg, m.keys.RowUp):
		m.previewOffset--
	case key.Matches(msg, m.keys.PageDown):
		m.previewOffset += m.previewHeight() - 1
	case key.Matches(msg, m.keys.PageUp):
		m.previewOffset -= m.previewHeight() - 1
	}

	m.previewOffset = min(max(m.previewOffset, 0), maxOffset)
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	// Main content
	switch {
	case m.mode == ModePreview:
		end := min(m.previewOffset+m.previewHeight(), len(m.preview))
		builder.WriteString(strings.Join(m.preview[m.previewOffset:end], "\n"))
		for i := end - m.previewOffset; i < m.previewHeight(); i++ {
			builder.WriteString("\n")
		}
	case m.pane.Session().Loaded() && m.loader.State() != source.StateError:
		builder.WriteString(m.pane.Render())
	default:
		builder.WriteString(m.placeholder())
	}
	builder.WriteString("\n")

	// Status bar
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.config.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.config.Theme.StatusBarText)).
		Width(m.width)

	var status string
	switch m.mode {
	case ModeRange:
		status = "range: " + m.input.View()
	case ModeLookup:
		status = "sample: " + m.input.View()
	case ModeEdit:
		st := m.pane.Session().EditState()
		status = fmt.Sprintf("edit #%d @%d (was %q): %s", st.Index(), st.Sample(), st.Expected(), m.input.View())
	case ModeDirectEdit:
		status = fmt.Sprintf("overwrite #%d: %s", m.pane.SelectedIndex(), m.input.View())
	case ModePreview:
		status = fmt.Sprintf(" preview %s  %d/%d", m.config.Export.FileName, m.previewOffset+1, len(m.preview))
	default:
		status = m.statusLine()
	}
	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	// Help line, or the last notice
	switch {
	case m.err != nil:
		builder.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.config.Theme.Error)).Render(m.err.Error()))
	case m.message != "":
		builder.WriteString(m.message)
	default:
		builder.WriteString(m.help.View(m.keys))
	}

	return builder.String()
}

func (m *Model) placeholder() string {
	lines := max(m.height-2, 1)
	text := fmt.Sprintf("%s %s", m.loader.State(), m.provider.Name())
	if m.loader.State() == source.StateLoading {
		text = fmt.Sprintf("Loading %s…", m.provider.Name())
	}
	return text + strings.Repeat("\n", lines-1)
}

func (m *Model) statusLine() string {
	s := m.pane.Session()
	if !s.Loaded() {
		return fmt.Sprintf(" %s  %s", m.provider.Name(), m.loader.State())
	}

	r := s.Selection().Range
	parts := []string{m.loader.SourceName()}
	if ch := s.Channel(); ch != "" {
		parts = append(parts, ch)
	}
	parts = append(parts,
		fmt.Sprintf("%s %s-%s", r, m.clock.Format(r.Start), m.clock.Format(r.End)),
		fmt.Sprintf("rows %s/%s", humanize.Comma(int64(s.Rows().Count())), humanize.Comma(int64(s.Annotations()))),
		fmt.Sprintf("%.0f%%", m.pane.Viewport().PercentScrolled()),
	)
	if n := s.Modified(); n > 0 {
		parts = append(parts, fmt.Sprintf("modified %s", humanize.Comma(int64(n))))
	}
	if m.loader.State() != source.StateReady {
		parts = append(parts, m.loader.State().String())
	}
	return " " + strings.Join(parts, "  ")
}

// Close cleans up resources
func (m *Model) Close() error {
	m.cancel()
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
