package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/askchat/internal/api"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
)

// widgetState is IDLE or AWAITING
type widgetState int

const (
	stateIdle widgetState = iota
	stateAwaiting
)

func (s widgetState) String() string {
	if s == stateAwaiting {
		return "awaiting"
	}
	return "idle"
}

const dotsInterval = 300 * time.Millisecond

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

// Message types for the TUI
type (
	answerMsg struct {
		requestID uint64
		answer    *models.Answer
	}
	askErrMsg struct {
		requestID uint64
		err       error
	}
	dotsTickMsg struct {
		requestID uint64
	}
	clipboardMsg struct {
		err error
	}
)

// pendingRequest is the single request a widget may have in flight
type pendingRequest struct {
	id        uint64
	question  string
	indicator *typingIndicator
	cancel    context.CancelFunc
	started   time.Time
}

// Options configures the chat widget
type Options struct {
	ServerURL   string
	Markdown    bool
	RenderOpts  render.Options
	ShowContext bool
	Theme       string
	Logger      zerolog.Logger
}

// Model is the chat widget: an input form, a scrolling chat log and at most
// one request in flight.
type Model struct {
	client api.Asker
	opts   Options
	logger zerolog.Logger

	input    textinput.Model
	viewport viewport.Model

	log       chatLog
	state     widgetState
	pending   *pendingRequest
	lastID    uint64
	dotsFrame int
	feedback  string

	ready  bool
	width  int
	height int
}

// NewChatModel creates a new chat widget
func NewChatModel(client api.Asker, opts Options) Model {
	applyTheme(render.ResolveTUITheme(opts.Theme))

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.Focus()

	return Model{
		client:   client,
		opts:     opts,
		logger:   opts.Logger,
		input:    ti,
		viewport: viewport.New(80, 20),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.abandon()
			return m, tea.Quit

		case tea.KeyEsc:
			if m.state == stateAwaiting {
				m.abandon()
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submit()

		case tea.KeyCtrlY:
			return m, m.copyLastAnswer()

		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.feedback = ""
		if m.state == stateIdle {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case answerMsg:
		if !m.owns(msg.requestID) {
			m.logger.Debug().Uint64("request_id", msg.requestID).Msg("discarding stale answer")
			return m, nil
		}
		m.logger.Info().
			Uint64("request_id", msg.requestID).
			Dur("elapsed", time.Since(m.pending.started)).
			Msg("answer received")
		m.finish()
		m.log.appendAnswer(msg.answer)
		m.refresh()

	case askErrMsg:
		if !m.owns(msg.requestID) {
			m.logger.Debug().Uint64("request_id", msg.requestID).Err(msg.err).Msg("discarding stale failure")
			return m, nil
		}
		m.logger.Error().
			Err(msg.err).
			Uint64("request_id", msg.requestID).
			Str("question", m.pending.question).
			Msg("ask failed")
		m.finish()
		m.log.appendFailure(apierrors.UserMessage(msg.err))
		m.refresh()

	case dotsTickMsg:
		if m.owns(msg.requestID) {
			m.dotsFrame++
			m.refresh()
			cmds = append(cmds, dotsTick(msg.requestID))
		}

	case clipboardMsg:
		if msg.err != nil {
			m.feedback = "Copy failed: " + msg.err.Error()
			m.logger.Warn().Err(msg.err).Msg("clipboard write failed")
		} else {
			m.feedback = "Copied last answer to clipboard"
		}
	}

	// Mouse wheel and other non-key messages scroll the log
	if _, ok := msg.(tea.KeyMsg); !ok {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles the input form: user bubble, clear input, typing
// indicator, then exactly one request. Empty input and submissions while a
// request is pending do nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state == stateAwaiting {
		return m, nil
	}

	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		m.input.Reset()
		return m, nil
	}

	m.log.appendMessage(models.NewUserMessage(question))
	m.input.Reset()

	m.lastID++
	id := m.lastID
	indicator := &typingIndicator{requestID: id}
	m.log.appendIndicator(indicator)

	ctx, cancel := context.WithCancel(context.Background())
	m.pending = &pendingRequest{
		id:        id,
		question:  question,
		indicator: indicator,
		cancel:    cancel,
		started:   time.Now(),
	}
	m.state = stateAwaiting
	m.dotsFrame = 0
	m.feedback = ""
	m.input.Blur()
	m.refresh()

	m.logger.Info().Uint64("request_id", id).Int("question_len", len(question)).Msg("question submitted")

	return m, tea.Batch(m.ask(ctx, id, question), dotsTick(id))
}

// ask creates a command that sends one question to the backend
func (m Model) ask(ctx context.Context, id uint64, question string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		answer, err := client.Ask(ctx, question)
		if err != nil {
			return askErrMsg{requestID: id, err: err}
		}
		return answerMsg{requestID: id, answer: answer}
	}
}

func dotsTick(id uint64) tea.Cmd {
	return tea.Tick(dotsInterval, func(time.Time) tea.Msg {
		return dotsTickMsg{requestID: id}
	})
}

// owns reports whether id is the request currently in flight
func (m Model) owns(id uint64) bool {
	return m.pending != nil && m.pending.id == id
}

// finish removes the pending request's own indicator and returns to IDLE
func (m *Model) finish() {
	if m.pending == nil {
		return
	}
	m.log.removeIndicator(m.pending.indicator)
	m.pending.cancel()
	m.pending = nil
	m.state = stateIdle
	m.input.Focus()
}

// abandon cancels the pending request; its late result will be discarded
func (m *Model) abandon() {
	if m.pending == nil {
		return
	}
	m.logger.Info().Uint64("request_id", m.pending.id).Msg("request abandoned")
	m.finish()
	m.refresh()
}

func (m Model) copyLastAnswer() tea.Cmd {
	text, ok := m.log.lastAnswer()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return clipboardMsg{err: writeClipboard(text)}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 3
	statusHeight := 2
	borders := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - borders
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = vpHeight
	m.input.Width = contentWidth - 6
	m.ready = true
	m.refresh()
}

// refresh re-renders the log and scrolls to the newest entry
func (m *Model) refresh() {
	m.viewport.SetContent(m.log.render(renderOptions{
		width:       m.viewport.Width,
		markdown:    m.opts.Markdown,
		markdownOpt: m.opts.RenderOpts,
		showContext: m.opts.ShowContext,
		dotsFrame:   m.dotsFrame,
	}))
	m.viewport.GotoBottom()
}

// Messages returns the user and bot messages currently in the log
func (m Model) Messages() []models.Message {
	return m.log.messages()
}

// Awaiting reports whether a request is in flight
func (m Model) Awaiting() bool {
	return m.state == stateAwaiting
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return hintStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Ask"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.ServerURL),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	messages := m.viewport.View()
	if m.log.empty() {
		messages = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messages))

	var input string
	if m.state == stateAwaiting {
		input = hintStyle.Render("Waiting for an answer…  Esc to cancel")
	} else {
		input = m.input.View()
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 2
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Width(width).Render("Ask anything"),
		"",
		welcomeStyle.Width(width).Render("Type a question below and press Enter"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	if m.feedback != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(feedbackStyle.Render(m.feedback))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy answer"},
		{"↑↓", "Scroll"},
		{"Esc", "Cancel/Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(client api.Asker, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(client, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
