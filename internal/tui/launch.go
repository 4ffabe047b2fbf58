package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"solve-launcher/internal/app"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type phase int

const (
	phaseForm phase = iota
	phaseRunning
	phaseDone
)

type spinMsg struct{}

type runLineMsg struct {
	stream string
	text   string
}

type runDoneMsg struct {
	run app.Run
	err error
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const maxOutputLines = 2000

// Model drives the launch screen: edit the run configuration, watch the
// solve program stream, then review the outcome.
type Model struct {
	logger *zap.Logger
	theme  Theme

	phase phase
	form  formModel

	cfg    app.Config
	run    app.Run
	runErr error

	width  int
	height int
	ready  bool

	outputVP viewport.Model
	lines    []string

	spinnerPos int
	startedAt  time.Time

	cancel   context.CancelFunc
	eventsCh chan tea.Msg
}

func New(cfg app.Config, logger *zap.Logger) *Model {
	t := NewTheme()
	return &Model{
		logger: logger,
		theme:  t,
		phase:  phaseForm,
		form:   newFormModel(cfg, t),
		cfg:    cfg,
		width:  100,
		height: 30,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.outputVP = viewport.New(msg.Width-4, maxInt(3, msg.Height-7))
		m.refreshOutput()
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.phase == phaseRunning {
			return m, m.spinTick()
		}
		return m, nil

	case runLineMsg:
		style := lipgloss.NewStyle()
		if msg.stream == "stderr" {
			style = m.theme.StderrLine
		}
		m.lines = append(m.lines, style.Render(msg.text))
		if len(m.lines) > maxOutputLines {
			m.lines = m.lines[len(m.lines)-maxOutputLines:]
		}
		m.refreshOutput()
		return m, m.waitRunMsg()

	case runDoneMsg:
		m.phase = phaseDone
		m.run = msg.run
		m.runErr = msg.err
		m.cancel = nil
		m.eventsCh = nil
		if msg.err != nil {
			appendTUIErrorLog("launch", msg.run.ID, msg.err.Error())
		}
		return m, nil
	}

	if m.phase == phaseForm {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.phase == phaseRunning {
		switch key {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.phase == phaseDone {
		switch key {
		case "r":
			m.phase = phaseForm
			m.form.status = ""
			return m, textinput.Blink
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	// Form phase.
	switch key {
	case "esc":
		return m, tea.Quit
	case "enter":
		if !m.form.onLaunchSlot() {
			m.form.setFocus(m.form.focus + 1)
			return m, nil
		}
		cfg, err := m.form.config()
		if err != nil {
			m.form.status = err.Error()
			return m, nil
		}
		m.form.status = ""
		return m, m.startRun(cfg)
	}
	return m, m.form.update(msg)
}

func (m *Model) startRun(cfg app.Config) tea.Cmd {
	launcher, err := app.NewLauncher(cfg, m.logger)
	if err != nil {
		m.phase = phaseForm
		m.form.status = err.Error()
		return nil
	}

	m.cfg = cfg
	m.phase = phaseRunning
	m.lines = m.lines[:0]
	m.refreshOutput()
	m.spinnerPos = 0
	m.startedAt = time.Now()
	m.runErr = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	events := make(chan tea.Msg, 512)
	m.eventsCh = events

	stdout := &lineWriter{events: events, stream: "stdout"}
	stderr := &lineWriter{events: events, stream: "stderr"}
	launcher.Runner.Out = stdout
	launcher.Runner.Err = stderr
	// The terminal belongs to the UI while the program runs.
	launcher.Runner.Stdin = nil

	go func() {
		run, err := launcher.LaunchOnce(ctx)
		stdout.flush()
		stderr.flush()
		events <- runDoneMsg{run: run, err: err}
		close(events)
	}()

	return tea.Batch(m.waitRunMsg(), m.spinTick())
}

func (m *Model) waitRunMsg() tea.Cmd {
	events := m.eventsCh
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) spinTick() tea.Cmd {
	d := 90 * time.Millisecond
	if os.Getenv("SOLVERUN_REDUCE_MOTION") == "1" {
		d = 250 * time.Millisecond
	}
	return tea.Tick(d, func(_ time.Time) tea.Msg { return spinMsg{} })
}

func (m *Model) refreshOutput() {
	if m.outputVP.Width == 0 {
		return
	}
	m.outputVP.SetContent(strings.Join(m.lines, "\n"))
	m.outputVP.GotoBottom()
}

func (m *Model) View() string {
	if !m.ready {
		return "…"
	}
	top := m.renderTopBar()
	main := m.renderMain()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, footer)
}

func (m *Model) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("solverun") + " " +
		m.theme.TopBarBadge.Render(m.cfg.Task+"/"+m.cfg.Label)

	var status string
	switch m.phase {
	case phaseRunning:
		status = m.theme.Spinner.Render(fmt.Sprintf("%s solving… %s · %d lines",
			spinnerFrames[m.spinnerPos],
			time.Since(m.startedAt).Round(time.Second),
			len(m.lines)))
	case phaseDone:
		if m.runErr != nil {
			status = m.theme.StatusErr.Render("launch error")
		} else if m.run.ExitCode == 0 {
			status = m.theme.StatusOK.Render("exit 0")
		} else {
			status = m.theme.StatusErr.Render(fmt.Sprintf("exit %d", m.run.ExitCode))
		}
	default:
		status = m.theme.TopBarMeta.Render("configure run")
	}

	right := m.theme.TopBarMeta.Render(time.Now().Format("15:04"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *Model) renderMain() string {
	w := maxInt(20, m.width-2)
	h := maxInt(5, m.height-4)

	switch m.phase {
	case phaseRunning:
		title := m.theme.PaneTitleF.Render("Output")
		return m.theme.PaneFocused.Width(w).Height(h).Render(title + "\n" + m.outputVP.View())

	case phaseDone:
		title := m.theme.PaneTitle.Render("Run " + m.run.ID)
		return m.theme.Pane.Width(w).Height(h).Render(title + "\n" + m.renderSummary())

	default:
		title := m.theme.PaneTitleF.Render("Launch")
		return m.theme.PaneFocused.Width(w).Height(h).Render(title + "\n" + m.form.view(m.width))
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.runErr != nil {
		b.WriteString(m.theme.StatusErr.Render("✗ launcher error") + "\n\n")
		b.WriteString(m.runErr.Error() + "\n")
		return b.String()
	}

	if m.run.ExitCode == 0 {
		b.WriteString(m.theme.StatusOK.Render("✓ solve finished") + "\n\n")
	} else {
		b.WriteString(m.theme.StatusErr.Render(fmt.Sprintf("✗ solve exited with code %d", m.run.ExitCode)) + "\n\n")
	}

	row := func(k, v string) {
		b.WriteString(m.theme.FieldLabel.Width(10).Render(k) + " " + v + "\n")
	}
	row("status", string(m.run.Status))
	row("duration", m.run.Duration().Round(time.Millisecond).String())
	row("stdout", m.run.StdoutLog)
	row("stderr", m.run.StderrLog)
	if len(m.run.Artifacts) > 0 {
		row("artifacts", strings.Join(m.run.Artifacts, ", "))
	}

	if len(m.lines) > 0 {
		b.WriteString("\n" + m.theme.PaneTitle.Render("Last output") + "\n")
		tail := m.lines
		if len(tail) > 8 {
			tail = tail[len(tail)-8:]
		}
		for _, line := range tail {
			b.WriteString(m.theme.StatusNeutral.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	var hints string
	switch m.phase {
	case phaseRunning:
		hints = "Ctrl+C cancel run"
	case phaseDone:
		hints = "r back to form  q quit"
	default:
		hints = "Tab/↑↓ move  Space toggle tool  Enter launch  Esc quit"
	}
	return m.theme.Footer.Width(m.width).Render(hints)
}

// lineWriter adapts the runner's console mirror into UI messages, one per
// line. Each stream gets its own writer, so buf needs no lock.
type lineWriter struct {
	events chan<- tea.Msg
	stream string
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.send(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.send(string(w.buf))
		w.buf = w.buf[:0]
	}
}

func (w *lineWriter) send(text string) {
	select {
	case w.events <- runLineMsg{stream: w.stream, text: text}:
	default:
		// Drop if the UI can't keep up; the log files keep everything.
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
