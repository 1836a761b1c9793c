package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"ai_blog_generator/generator"
	"ai_blog_generator/publisher"
)

type phase int

const (
	phaseInput phase = iota
	phaseLoading
	phaseTitles
	phaseContent
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header, input, notice and help lines around the viewport
	chromeHeight = 8
)

// Messages produced by commands.
type (
	titlesMsg struct {
		state generator.BlogState
		err   error
	}
	contentMsg struct {
		state generator.BlogState
		err   error
	}
	savedMsg struct {
		path string
		err  error
	}
)

// Model is the bubbletea front end over one generator.Session. Every key
// press dispatches to a handler that reads or writes the session, and the
// view is re-rendered from the session snapshot.
type Model struct {
	session *generator.Session
	timeout time.Duration
	outDir  string

	keys     KeyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	phase   phase
	loading string
	cursor  int
	notice  string
	status  string
	width   int
	height  int
}

// New builds the model. outDir receives saved markdown files.
func New(session *generator.Session, timeout time.Duration, outDir string) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter blog topic keyword"
	ti.CharLimit = 200
	ti.Width = defaultWidth - 8
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		session:  session,
		timeout:  timeout,
		outDir:   outDir,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		phase:    phaseInput,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.renderer = newRenderer(defaultWidth)
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.renderer = newRenderer(msg.Width)
		if m.phase == phaseContent {
			m.setContent()
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case titlesMsg:
		return m.onTitles(msg), nil

	case contentMsg:
		return m.onContent(msg), nil

	case savedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.status = "Saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	if m.phase == phaseInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.phase == phaseLoading {
		return m, nil
	}
	if key.Matches(msg, m.keys.Reset) {
		return m.reset()
	}

	switch m.phase {
	case phaseInput:
		if key.Matches(msg, m.keys.Enter) {
			return m.startTitles()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseTitles:
		state, _ := m.session.Snapshot()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(state.Titles)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Enter):
			return m.startContent()
		case key.Matches(msg, m.keys.Back):
			m.phase = phaseInput
			return m, m.input.Focus()
		}
		return m, nil

	case phaseContent:
		switch {
		case key.Matches(msg, m.keys.Save):
			return m, m.saveCmd()
		case key.Matches(msg, m.keys.Back):
			m.phase = phaseTitles
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) startTitles() (tea.Model, tea.Cmd) {
	keyword := strings.TrimSpace(m.input.Value())
	if keyword == "" {
		return m, nil
	}
	m.notice, m.status = "", ""
	m.phase = phaseLoading
	m.loading = "Generating title options..."
	m.input.Blur()

	sess, timeout := m.session, m.timeout
	gen := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		state, err := sess.GenerateTitles(ctx, keyword)
		return titlesMsg{state: state, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, gen)
}

func (m Model) startContent() (tea.Model, tea.Cmd) {
	if err := m.session.SelectIndex(m.cursor); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	state, _ := m.session.Snapshot()
	if state.HasContent() {
		// 已生成过同一标题的正文，直接展示。
		m.phase = phaseContent
		m.setContent()
		return m, nil
	}
	m.notice, m.status = "", ""
	m.phase = phaseLoading
	m.loading = "Writing blog post..."

	sess, timeout := m.session, m.timeout
	gen := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		state, err := sess.GenerateContent(ctx)
		return contentMsg{state: state, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, gen)
}

func (m Model) onTitles(msg titlesMsg) Model {
	if msg.err != nil {
		m.notice = m.session.TakeNotice()
		if m.notice == "" {
			m.notice = msg.err.Error()
		}
		m.phase = phaseInput
		m.input.Focus()
		return m
	}
	m.cursor = max(msg.state.SelectedIndex(), 0)
	m.phase = phaseTitles
	return m
}

func (m Model) onContent(msg contentMsg) Model {
	if msg.err != nil {
		m.notice = m.session.TakeNotice()
		if m.notice == "" {
			m.notice = msg.err.Error()
		}
		m.phase = phaseTitles
		return m
	}
	m.phase = phaseContent
	m.setContent()
	return m
}

func (m *Model) setContent() {
	state, _ := m.session.Snapshot()
	out := state.BlogContent
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(state.BlogContent); err == nil {
			out = rendered
		}
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	m.session.Reset()
	m.input.Reset()
	m.phase = phaseInput
	m.cursor = 0
	m.notice, m.status = "", ""
	m.viewport.SetContent("")
	return m, m.input.Focus()
}

func (m Model) saveCmd() tea.Cmd {
	state, _ := m.session.Snapshot()
	dir := m.outDir
	return func() tea.Msg {
		doc := publisher.NewDocument(state.SelectedTitle, state.BlogContent)
		path, err := publisher.WriteFile(dir, doc)
		return savedMsg{path: path, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Blog Generator"))
	b.WriteString("\n")

	state, _ := m.session.Snapshot()

	switch m.phase {
	case phaseInput:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case phaseLoading:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.loading))
	case phaseTitles:
		b.WriteString(fmt.Sprintf("Keyword: %s\n", state.Keyword))
		b.WriteString(sectionStyle.Render("Generated Titles"))
		b.WriteString("\n")
		for i, t := range state.Titles {
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("> " + t))
			} else {
				b.WriteString("  " + t)
			}
			b.WriteString("\n")
		}
	case phaseContent:
		b.WriteString(sectionStyle.Render(state.SelectedTitle))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.help(m.phase))))
	return b.String()
}
