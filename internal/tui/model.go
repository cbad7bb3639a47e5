// Package tui is the terminal front end of an annotation session.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ravelandante/field-tagger/internal/session"
)

const (
	defaultWidth   = 80
	waveformHeight = 6
)

// Controller is the part of session.Controller the model drives
type Controller interface {
	State() session.State
	Handle(cmd session.Command) error
	Tick()
	FinalizePending() bool
	Finalize() error
}

type (
	tickMsg      time.Time
	finalizedMsg struct{ err error }
)

// Model is the bubbletea model for one session.
type Model struct {
	ctrl      Controller
	keys      keyMap
	help      help.Model
	gauge     progress.Model
	tickEvery time.Duration
	width     int

	finalizing bool
	err        error
}

func New(ctrl Controller, tickEvery time.Duration) *Model {
	if tickEvery <= 0 {
		tickEvery = 100 * time.Millisecond
	}
	gauge := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	gauge.Width = defaultWidth - 20

	return &Model{
		ctrl:      ctrl,
		keys:      defaultKeyMap(),
		help:      help.New(),
		gauge:     gauge,
		tickEvery: tickEvery,
		width:     defaultWidth,
	}
}

// Err returns the fatal error that ended the session, if any
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// finalize runs the blocking batch step off the update loop so the
// processing view is already on screen while it works.
func (m *Model) finalize() tea.Cmd {
	m.finalizing = true
	return func() tea.Msg {
		return finalizedMsg{err: m.ctrl.Finalize()}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.gauge.Width = max(msg.Width-20, 10)
		return m, nil

	case tickMsg:
		if m.finalizing {
			return m, nil
		}
		m.ctrl.Tick()
		if m.ctrl.State().Terminate {
			return m, tea.Quit
		}
		return m, m.tick()

	case finalizedMsg:
		m.finalizing = false
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Finalization cannot be interrupted.
	if m.finalizing || m.ctrl.State().Phase == session.Finalizing {
		return m, nil
	}

	for _, cmd := range m.commands(msg) {
		err := m.ctrl.Handle(cmd)
		if session.Fatal(err) {
			m.err = err
			return m, tea.Quit
		}
	}

	if m.ctrl.FinalizePending() {
		return m, m.finalize()
	}
	if m.ctrl.State().Terminate {
		return m, tea.Quit
	}
	return m, nil
}

// commands maps a key press to session commands
func (m *Model) commands(msg tea.KeyMsg) []session.Command {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return []session.Command{session.Quit{}}
	case key.Matches(msg, m.keys.Confirm):
		return []session.Command{session.Confirm{}}
	case key.Matches(msg, m.keys.Backspace):
		return []session.Command{session.Backspace{}}
	case key.Matches(msg, m.keys.Delete):
		return []session.Command{session.DeleteFile{}}
	case key.Matches(msg, m.keys.SeekBackward):
		return []session.Command{session.SeekBackward{}}
	case key.Matches(msg, m.keys.SeekForward):
		return []session.Command{session.SeekForward{}}
	}

	switch msg.Type {
	case tea.KeySpace:
		return []session.Command{session.InsertChar{Char: ' '}}
	case tea.KeyRunes:
		cmds := make([]session.Command, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			cmds = append(cmds, session.InsertChar{Char: r})
		}
		return cmds
	}
	return nil
}

// View implements tea.Model
func (m *Model) View() string {
	state := m.ctrl.State()

	if m.finalizing || state.Phase == session.Finalizing {
		return m.processingView(state)
	}
	if state.Terminate {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("File %d/%d", state.Index+1, len(state.Files))))
	b.WriteString(" ")
	b.WriteString(fileStyle.Render(filepath.Base(state.Current())))
	b.WriteString("\n\n")

	b.WriteString(renderWaveform(state.Waveform, state.Progress, m.width, waveformHeight))
	b.WriteString("\n")
	b.WriteString(m.gauge.ViewAs(state.Progress))
	b.WriteString(" ")
	b.WriteString(clockStyle.Render(formatClock(state.Position) + " / " + formatClock(state.Duration)))
	b.WriteString("\n\n")

	b.WriteString(m.inputView(state))
	b.WriteString("\n")

	if state.Status != "" {
		b.WriteString(statusStyle.Render(state.Status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) inputView(state session.State) string {
	title := "Enter Location"
	if state.Phase == session.AwaitingTags {
		title = "Enter Tags"
	}

	body := inputTitleStyle.Render(title) + "\n" + state.Input + "█"
	if state.Phase == session.AwaitingTags {
		if tags := state.Records[state.Index].Tags; len(tags) > 0 {
			body += "\n" + tagsStyle.Render(strings.Join(tags, ", "))
		}
	}
	return inputStyle.Width(max(m.width-4, 20)).Render(body)
}

func (m *Model) processingView(state session.State) string {
	box := processingStyle.Render(fmt.Sprintf("Processing... Please wait\n\nConverting %d files", len(state.Files)))
	return lipgloss.Place(m.width, waveformHeight+8, lipgloss.Center, lipgloss.Center, box)
}
