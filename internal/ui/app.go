package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/ideas/internal/banner"
	"github.com/five82/ideas/internal/controller"
	"github.com/five82/ideas/internal/prefs"
	"github.com/five82/ideas/internal/state"
)

const maxJumpDigits = 6

// Options configures the UI.
type Options struct {
	Context       context.Context
	Controller    *controller.Controller
	Bar           fmt.Stringer // current view URL
	Banner        banner.Banner
	BannerUpdates <-chan banner.Banner
	ThemeName     string
	Columns       int
	PrefsPath     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      *controller.Controller
	bar       fmt.Stringer
	keys      keyMap
	prefsPath string

	theme   Theme
	columns int
	width   int
	height  int
	ready   bool

	snapshot state.Snapshot
	cards    viewport.Model
	spinner  spinner.Model

	banner        banner.Banner
	bannerUpdates <-chan banner.Banner
	header        headerTracker

	showHelp bool
	jump     string // digits typed for a page jump
	notice   string // last rejected action
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	columns := opts.Columns
	if columns < 1 || columns > prefs.MaxColumns {
		columns = prefs.Default().Columns
	}

	b := opts.Banner
	if b.Title == "" && b.Subtitle == "" {
		b = banner.Fallback()
	}

	m := Model{
		ctx:           ctx,
		ctrl:          opts.Controller,
		bar:           opts.Bar,
		keys:          DefaultKeyMap(),
		prefsPath:     opts.PrefsPath,
		theme:         GetTheme(opts.ThemeName),
		columns:       columns,
		cards:         viewport.New(0, 0),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		banner:        b,
		bannerUpdates: opts.BannerUpdates,
	}
	if m.ctrl != nil {
		m.snapshot = m.ctrl.Store().Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForBanner(m.bannerUpdates)}
	if m.ctrl != nil {
		cmds = append(cmds, m.fetch(m.ctrl.Reload()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.sync()
		return m, nil

	case fetchedMsg:
		res, ok := m.ctrl.Apply(controller.Outcome(msg))
		if ok && res.Phase == state.PhaseReady {
			m.cards.GotoTop()
			m.header.reset()
		}
		m.sync()
		if res.Followup != nil {
			return m, m.fetch(*res.Followup)
		}
		return m, nil

	case bannerMsg:
		m.banner = banner.Banner(msg)
		m.layout()
		return m, waitForBanner(m.bannerUpdates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading() {
			m.layout()
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var parts []string
	if top := m.renderTop(); top != "" {
		parts = append(parts, top)
	}
	if band := m.renderBanner(bannerRows(m.cards.YOffset)); band != "" {
		parts = append(parts, band)
	}
	parts = append(parts, m.cards.View(), m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m Model) loading() bool {
	return m.snapshot.Phase == state.PhaseLoading
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsDigit(msg.Runes[0]) {
		if len(m.jump) < maxJumpDigits {
			m.jump += string(msg.Runes)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.jump = ""
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.GotoPage):
		if m.jump == "" {
			return m, nil
		}
		n, _ := strconv.Atoi(m.jump)
		m.jump = ""
		return m.act(m.ctrl.SetPage(n))

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.CycleColumn):
		m.columns = prefs.Prefs{Columns: m.columns}.NextColumns()
		m.savePrefs()
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m.start(m.ctrl.Reload())
	case key.Matches(msg, m.keys.PrevPage):
		return m.act(m.ctrl.PrevPage())
	case key.Matches(msg, m.keys.NextPage):
		return m.act(m.ctrl.NextPage())
	case key.Matches(msg, m.keys.FirstPage):
		return m.act(m.ctrl.FirstPage())
	case key.Matches(msg, m.keys.LastPage):
		return m.act(m.ctrl.LastPage())
	case key.Matches(msg, m.keys.CycleSize):
		return m.start(m.ctrl.CyclePageSize())
	case key.Matches(msg, m.keys.CycleSort):
		return m.start(m.ctrl.CycleSort())

	case key.Matches(msg, m.keys.Up):
		m.cards.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.cards.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.cards.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.cards.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.cards.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.cards.HalfPageDown()
	default:
		return m, nil
	}

	m.header.observe(m.cards.YOffset)
	m.layout()
	return m, nil
}

// act starts req, or records why the action was rejected.
func (m Model) act(req controller.Request, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, controller.ErrInvalidAction) {
			m.notice = err.Error()
			log.Debug().Err(err).Msg("Action rejected")
			return m, nil
		}
		log.Warn().Err(err).Msg("Action failed")
		return m, nil
	}
	return m.start(req)
}

func (m Model) start(req controller.Request) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.sync()
	return m, m.fetch(req)
}

// sync pulls the latest snapshot and re-lays out the frame.
func (m *Model) sync() {
	if m.ctrl != nil {
		m.snapshot = m.ctrl.Store().Snapshot()
	}
	m.layout()
}

// layout sizes the cards viewport to the space left by the header, banner
// and footer, then re-renders its content.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	height := m.height - m.headerHeight() - bannerRows(m.cards.YOffset) - footerRows
	m.cards.Width = m.width
	m.cards.Height = max(height, 1)
	m.cards.SetContent(m.renderCardsContent(m.width))
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Columns: m.columns}); err != nil {
		log.Warn().Err(err).Str("path", m.prefsPath).Msg("Preferences not saved")
	}
}

// Messages

type fetchedMsg controller.Outcome

type bannerMsg banner.Banner

// Commands

func (m Model) fetch(req controller.Request) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return fetchedMsg(ctrl.Fetch(ctx, req))
	}
}

func waitForBanner(updates <-chan banner.Banner) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		b, ok := <-updates
		if !ok {
			return nil
		}
		return bannerMsg(b)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
