// Package tui is the terminal dashboard for the holiday planner.
//
// Every edit goes through planner.Store.Update, so the dashboard can run next
// to the web server on the same data file. When a watcher is attached, writes
// by other processes trigger a reload.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

type mode int

const (
	modeBrowse mode = iota
	modeInput
)

type listFocus int

const (
	focusPlans listFocus = iota
	focusAchievements
)

type inputKind int

const (
	inputPlan inputKind = iota
	inputAchievement
	inputNotes
)

// docLoadedMsg carries a freshly read document
type docLoadedMsg struct {
	doc planner.Document
	err error
}

// savedMsg reports the outcome of a mutation
type savedMsg struct {
	doc    planner.Document
	status string
	err    error
}

// fileChangedMsg is sent when the watcher sees the data file change
type fileChangedMsg struct{}

// Option customizes a Model
type Option func(*Model)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithWatcher reloads the document whenever w reports a change
func WithWatcher(w *planner.Watcher) Option {
	return func(m *Model) {
		m.watcher = w
	}
}

// Model is the bubbletea model of the dashboard
type Model struct {
	store   *planner.Store
	period  planner.Period
	dates   []string
	watcher *planner.Watcher
	log     *zap.Logger

	doc    planner.Document
	day    int
	focus  listFocus
	cursor int

	mode      mode
	inputKind inputKind
	input     textinput.Model

	keys         keyMap
	help         help.Model
	showOverview bool

	status string
	err    error
	width  int
}

// New builds a dashboard over store for the days of period
func New(store *planner.Store, period planner.Period, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	m := Model{
		store:  store,
		period: period,
		dates:  period.Dates(),
		log:    zap.NewNop(),
		doc:    planner.Document{},
		input:  ti,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if idx := slices.Index(m.dates, time.Now().Format(planner.DateLayout)); idx >= 0 {
		m.day = idx
	}
	return m
}

// Init loads the document and starts listening for file changes
func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return m.loadCmd()
	}
	return tea.Batch(m.loadCmd(), m.waitForChange())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case docLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.log.Error("loading document", zap.Error(msg.err))
			return m, nil
		}
		m.err = nil
		m.doc = msg.doc
		m.clampCursor()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			if !errors.Is(msg.err, planner.ErrIndexOutOfRange) && !errors.Is(msg.err, planner.ErrValidation) {
				m.err = msg.err
				m.log.Error("saving document", zap.Error(msg.err))
			}
			return m, nil
		}
		m.err = nil
		m.doc = msg.doc
		m.status = msg.status
		m.clampCursor()
		return m, nil

	case fileChangedMsg:
		m.log.Debug("data file changed on disk, reloading")
		return m, tea.Batch(m.loadCmd(), m.waitForChange())

	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	date := m.currentDate()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Overview):
		m.showOverview = !m.showOverview

	case key.Matches(msg, m.keys.Reload):
		m.status = "reloaded"
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.PrevDay):
		if m.day > 0 {
			m.day--
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.NextDay):
		if m.day < len(m.dates)-1 {
			m.day++
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.SwitchList):
		if m.focus == focusPlans {
			m.focus = focusAchievements
		} else {
			m.focus = focusPlans
		}
		m.cursor = 0

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.AddPlan):
		return m.startInput(inputPlan, "", "New plan: ")

	case key.Matches(msg, m.keys.AddAchievement):
		return m.startInput(inputAchievement, "", "New achievement: ")

	case key.Matches(msg, m.keys.EditNotes):
		notes := ""
		if rec, ok := m.doc.Day(date); ok {
			notes = rec.Notes
		}
		return m.startInput(inputNotes, notes, "Notes: ")

	case key.Matches(msg, m.keys.Complete):
		if m.focus != focusPlans || m.listLen() == 0 {
			return m, nil
		}
		idx := m.cursor
		return m, m.mutate(fmt.Sprintf("plan %d completed", idx+1), func(doc planner.Document) error {
			return doc.CompletePlan(date, idx)
		})

	case key.Matches(msg, m.keys.Delete):
		if m.listLen() == 0 {
			return m, nil
		}
		idx := m.cursor
		if m.focus == focusPlans {
			return m, m.mutate("plan deleted", func(doc planner.Document) error {
				return doc.DeletePlan(date, idx)
			})
		}
		return m, m.mutate("achievement deleted", func(doc planner.Document) error {
			return doc.DeleteAchievement(date, idx)
		})

	case key.Matches(msg, m.keys.RatingUp):
		return m, m.adjustRating(date, 1)

	case key.Matches(msg, m.keys.RatingDown):
		return m, m.adjustRating(date, -1)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		date := m.currentDate()
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()

		switch m.inputKind {
		case inputPlan:
			return m, m.mutate("plan added", func(doc planner.Document) error {
				return doc.AddPlan(date, value)
			})
		case inputAchievement:
			return m, m.mutate("achievement added", func(doc planner.Document) error {
				return doc.AddAchievement(date, value)
			})
		default:
			return m, m.mutate("notes saved", func(doc planner.Document) error {
				return doc.SetNotes(date, value)
			})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startInput(kind inputKind, value, prompt string) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.inputKind = kind
	m.input.Prompt = prompt
	m.input.SetValue(value)
	return m, m.input.Focus()
}

// mutate applies fn through the store and reports the saved document
func (m Model) mutate(status string, fn func(planner.Document) error) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		var out planner.Document
		err := store.Update(func(doc planner.Document) error {
			if err := fn(doc); err != nil {
				return err
			}
			out = doc
			return nil
		})
		return savedMsg{doc: out, status: status, err: err}
	}
}

// adjustRating moves the stored rating by delta, reading it inside the
// store update so queued key presses all count
func (m Model) adjustRating(date string, delta int) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		var (
			out    planner.Document
			rating int
		)
		err := store.Update(func(doc planner.Document) error {
			out = doc
			if rec, ok := doc.Day(date); ok {
				rating = rec.Rating
			}
			next := rating + delta
			if next < planner.MinRating || next > planner.MaxRating {
				return nil
			}
			rating = next
			return doc.SetRating(date, rating)
		})
		return savedMsg{doc: out, status: fmt.Sprintf("rating %d/%d", rating, planner.MaxRating), err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		doc, err := store.Load()
		return docLoadedMsg{doc: doc, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m Model) currentDate() string {
	if len(m.dates) == 0 {
		return ""
	}
	return m.dates[m.day]
}

func (m Model) listLen() int {
	rec, ok := m.doc.Day(m.currentDate())
	if !ok {
		return 0
	}
	if m.focus == focusPlans {
		return len(rec.Plans)
	}
	return len(rec.Achievements)
}

func (m *Model) clampCursor() {
	if n := m.listLen(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// Run starts the dashboard and blocks until the user quits or ctx ends
func Run(ctx context.Context, store *planner.Store, period planner.Period, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []Option{WithLogger(log)}

	w, err := planner.NewWatcher(store.Path(), log)
	if err != nil {
		log.Warn("file watcher unavailable, external edits need a manual reload", zap.Error(err))
	} else {
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Stop()
		opts = append(opts, WithWatcher(w))
	}

	p := tea.NewProgram(New(store, period, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
