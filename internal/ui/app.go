package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/gallery/internal/events"
	"github.com/five82/gallery/internal/gallery"
	"github.com/five82/gallery/internal/layout"
	"github.com/five82/gallery/internal/manifest"
	"github.com/five82/gallery/internal/prefs"
	"github.com/five82/gallery/internal/sortorder"
	"github.com/five82/gallery/internal/state"
)

const (
	snapshotTick = time.Second
	wheelStep    = 3
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    manifest.Source
	Prober    manifest.Prober // nil marks every thumbnail loaded
	Store     *state.Store    // watcher snapshot for the header; optional
	Bus       *events.Bus     // nil applies sort and refresh requests directly
	Session   gallery.Config
	Sort      sortorder.Option
	DeepLink  string
	RowHeight int // pixels; converted to terminal rows
	ThemeName string
	PrefsPath string
	Logger    *log.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	source    manifest.Source
	prober    manifest.Prober
	store     *state.Store
	bus       *events.Bus
	sub       *events.Subscription
	logger    *log.Logger
	prefsPath string
	keys      keyMap

	// Gallery state
	session  *gallery.Session
	tileRows int
	grid     gridLayout
	selected int

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	viewport viewport.Model
	modal    Modal
	showHelp bool

	// Watcher state
	snapshot state.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	sortOpt := opts.Sort
	if !sortOpt.Valid() {
		sortOpt = sortorder.Default
	}

	session := gallery.New(opts.Session, sortOpt)
	session.SetDeepLink(opts.DeepLink)

	m := Model{
		ctx:       ctx,
		source:    opts.Source,
		prober:    opts.Prober,
		store:     opts.Store,
		bus:       opts.Bus,
		logger:    logger,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		session:   session,
		tileRows:  tileRows(opts.RowHeight),
		theme:     GetTheme(themeName),
	}
	if opts.Bus != nil {
		m.sub = opts.Bus.Subscribe()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.runActions(m.session.Start()),
		waitForEvent(m.sub),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), tickCmd(snapshotTick))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.gridHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.gridHeight()
		}

	case tea.KeyMsg:
		var model tea.Model
		model, cmd = m.handleKey(msg)
		m = model.(Model)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tickMsg:
		if m.store != nil {
			cmd = tea.Batch(fetchSnapshotCmd(m.store), tickCmd(snapshotTick))
		}

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)

	case manifestMsg:
		if msg.err != nil {
			m.logger.Warn("manifest load failed", "err", msg.err)
		}
		cmd = m.runActions(m.session.ManifestLoaded(msg.ticket, msg.photos, msg.err))

	case batchDueMsg:
		cmd = m.runActions(m.session.BatchDue(msg.ticket))

	case viewerReadyMsg:
		if m.session.ViewerReady(msg.binding) {
			m.selected = m.session.Viewer().Index()
			m.refreshGrid()
			m.scrollToSelected()
		}

	case imageLoadedMsg:
		m.session.ImageLoaded(msg.epoch, msg.id)

	case imageFailedMsg:
		m.logger.Debug("thumbnail failed", "id", msg.id, "err", msg.err)
		cmd = m.runActions(m.session.ImageFailed(msg.epoch, msg.id))

	case retryDueMsg:
		cmd = m.runActions(m.session.RetryDue(msg.retry))

	case noticeExpiredMsg:
		m.session.NoticeExpired(msg.seq)

	case sortChosenMsg:
		cmd = m.requestSort(msg.opt)

	case busEventMsg:
		cmd = tea.Batch(m.handleEvent(msg.ev), waitForEvent(m.sub))

	case busClosedMsg:
		m.sub = nil
	}

	m.refreshGrid()
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	body := m.viewport.View()
	if m.session.Viewer().IsOpen() {
		body = m.renderViewer(m.width, m.gridHeight())
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + body
}

func (m Model) gridHeight() int {
	return max(m.height-headerLines, 1)
}

// refreshGrid recomputes the layout for the current window and width and
// re-renders the viewport content.
func (m *Model) refreshGrid() {
	if !m.ready {
		return
	}
	items := m.session.Items()
	m.grid = computeGrid(items, m.width, m.tileRows)
	if m.selected >= len(items) {
		m.selected = max(len(items)-1, 0)
	}
	m.viewport.SetContent(m.renderGrid())
}

// scrollToSelected keeps the selected tile inside the viewport.
func (m *Model) scrollToSelected() {
	if m.selected < 0 || m.selected >= len(m.grid.res.Boxes) {
		return
	}
	box := m.grid.res.Boxes[m.selected]
	switch {
	case box.Top < m.viewport.YOffset:
		m.viewport.SetYOffset(box.Top)
	case box.Bottom() > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(box.Bottom() - m.viewport.Height)
	}
}

// maybeLoadMore fires the proximity trigger when the sentinel below the last
// row comes within half a screen of the viewport.
func (m Model) maybeLoadMore() tea.Cmd {
	if !m.ready || !m.session.HasMore() || m.session.Viewer().IsOpen() {
		return nil
	}
	bottom := m.viewport.YOffset + m.viewport.Height
	lastRow := len(m.grid.rows) > 0 && m.grid.rowOf(m.selected) == len(m.grid.rows)-1
	if bottom+m.viewport.Height/2 < m.grid.res.TotalHeight && !lastRow {
		return nil
	}
	return m.runActions(m.session.NearEnd())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.session.Viewer().IsOpen() {
		return m.handleViewerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
	case key.Matches(msg, m.keys.SortMenu):
		m.modal = newSortMenu(m.session.Sort())
	case key.Matches(msg, m.keys.CycleSort):
		cmd := m.requestSort(m.session.Sort().Next())
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.requestRefresh()
		return m, cmd
	default:
		return m.handleGridKey(msg)
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.grid.res.Boxes)
	if count == 0 {
		return m, nil
	}
	rowsPerPage := max(m.viewport.Height/(m.tileRows+tileSpacing), 1)

	switch {
	case key.Matches(msg, m.keys.Left):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.selected = min(m.selected+1, count-1)
	case key.Matches(msg, m.keys.Up):
		m.selected = m.grid.moveVertical(m.selected, -1)
	case key.Matches(msg, m.keys.Down):
		m.selected = m.grid.moveVertical(m.selected, 1)
	case key.Matches(msg, m.keys.PageUp):
		for range rowsPerPage {
			m.selected = m.grid.moveVertical(m.selected, -1)
		}
	case key.Matches(msg, m.keys.PageDown):
		for range rowsPerPage {
			m.selected = m.grid.moveVertical(m.selected, 1)
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.Open):
		m.session.Open(m.selected)
		return m, nil
	}
	m.scrollToSelected()
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.session.Close()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Next):
		m.session.Next()
	case key.Matches(msg, m.keys.Prev):
		m.session.Prev()
	case key.Matches(msg, m.keys.CopyLink):
		cmd = m.runActions(m.session.Share())
	case key.Matches(msg, m.keys.ViewOriginal):
		cmd = m.runActions(m.session.ViewOriginal())
	}
	if v := m.session.Viewer(); v.IsOpen() {
		m.selected = v.Index()
		m.refreshGrid()
		m.scrollToSelected()
	}
	return m, cmd
}

// handleMouse scrolls on the wheel and opens the tile under a left click.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.modal != nil || m.showHelp || m.session.Viewer().IsOpen() {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.viewport.ScrollUp(wheelStep)
	case tea.MouseButtonWheelDown:
		m.viewport.ScrollDown(wheelStep)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		idx := layout.HitTest(m.grid.res, msg.X, msg.Y-headerLines+m.viewport.YOffset)
		if idx < 0 {
			return
		}
		m.selected = idx
		m.session.Open(idx)
	}
}

// requestSort broadcasts a sort change, or applies it directly without a bus.
func (m *Model) requestSort(opt sortorder.Option) tea.Cmd {
	if opt == sortorder.Random && m.session.Sort() == sortorder.Random {
		m.selected = 0
		m.viewport.SetYOffset(0)
		return m.runActions(m.session.Reshuffle())
	}
	if m.bus != nil && m.sub != nil {
		m.bus.Publish(events.SortChange(opt))
		return nil
	}
	return m.applySort(opt)
}

func (m *Model) requestRefresh() tea.Cmd {
	if m.bus != nil && m.sub != nil {
		m.bus.Publish(events.Refresh())
		return nil
	}
	return m.applyRefresh()
}

// handleEvent reacts to a broadcast. Both handlers are idempotent.
func (m *Model) handleEvent(ev events.Event) tea.Cmd {
	switch ev.Kind {
	case events.SortChanged:
		return m.applySort(ev.Sort)
	case events.RefreshRequested:
		return m.applyRefresh()
	default:
		return nil
	}
}

func (m *Model) applySort(opt sortorder.Option) tea.Cmd {
	if !opt.Valid() {
		return nil
	}
	changed := opt != m.session.Sort()
	cmd := m.runActions(m.session.ChangeSort(opt))
	if changed {
		m.selected = 0
		m.viewport.SetYOffset(0)
		m.savePrefs()
	}
	return cmd
}

func (m *Model) applyRefresh() tea.Cmd {
	m.selected = 0
	m.viewport.SetYOffset(0)
	return m.runActions(m.session.Refresh())
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Sort: string(m.session.Sort())}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "err", err)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if m.sub != nil {
		m.sub.Close()
	}
	return err
}
