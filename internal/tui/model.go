package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smsclassifier/internal/artifacts"
	"smsclassifier/internal/domain"
	"smsclassifier/internal/history"
	"smsclassifier/internal/service"
	"smsclassifier/internal/textnorm"
)

// ClassifierPort is the TUI-facing subset of the classification service.
type ClassifierPort interface {
	Classify(text string) (domain.PredictionResult, error)
	Info() service.ModelInfo
}

const (
	sidebarWidth    = 32
	minWideLayout   = 80
	inputHeight     = 5
	timestampLayout = "2006-01-02 15:04:05"
)

// Model is the Bubble Tea model for the classifier page.
type Model struct {
	classifier ClassifierPort
	loadErr    error
	paths      artifacts.Paths

	input    textarea.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	history    *history.Store
	latest     *domain.PredictionResult
	examples   []string
	exampleIdx int

	status    string
	statusErr bool
	width     int
	height    int
	ready     bool
}

// New creates the interactive classifier page.
func New(classifier ClassifierPort, store *history.Store, examples []string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type or paste SMS here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(inputHeight)
	ta.Focus()
	if store == nil {
		store = history.New(history.DefaultCapacity)
	}
	return Model{
		classifier: classifier,
		input:      ta,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		keys:       defaultKeyMap(),
		history:    store,
		examples:   examples,
		exampleIdx: -1,
		status:     "Type a message and press ctrl+s.",
	}
}

// NewLoadFailure creates a page that only reports why the artifacts could not be loaded.
func NewLoadFailure(err error, paths artifacts.Paths) Model {
	m := New(nil, nil, nil)
	m.loadErr = err
	m.paths = paths
	m.input.Blur()
	return m
}

// Init initializes the model (text area cursor blink).
func (m Model) Init() tea.Cmd {
	if m.loadErr != nil {
		return nil
	}
	return textarea.Blink
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.loadErr != nil {
			if msg.String() == "q" || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Classify):
			m.classify()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.input.Reset()
			m.latest = nil
			m.exampleIdx = -1
			m.setStatus("Cleared.", false)
			m.layout()
			return m, nil
		case key.Matches(msg, m.keys.ClearHistory):
			m.history.Clear()
			m.setStatus("History cleared.", false)
			m.refreshHistory()
			return m, nil
		case key.Matches(msg, m.keys.NextExample):
			m.cycleExample(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevExample):
			m.cycleExample(-1)
			return m, nil
		case key.Matches(msg, m.keys.ToggleFocus):
			if m.input.Focused() {
				m.input.Blur()
				return m, nil
			}
			cmd := m.input.Focus()
			return m, cmd
		}
		if !m.input.Focused() {
			switch {
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				m.layout()
				return m, nil
			case msg.String() == "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) classify() {
	text := m.input.Value()
	if textnorm.IsBlank(text) {
		m.setStatus("Please enter a message.", true)
		return
	}
	res, err := m.classifier.Classify(text)
	if err != nil {
		var perr *service.PredictError
		if errors.As(err, &perr) {
			m.setStatus("Prediction failed: "+perr.Err.Error(), true)
		} else {
			m.setStatus("Error: "+err.Error(), true)
		}
		return
	}
	m.latest = &res
	m.history.Add(res)
	m.setStatus(fmt.Sprintf("Classified as %s.", res.Label.Display()), false)
	m.layout()
}

func (m *Model) cycleExample(step int) {
	if len(m.examples) == 0 {
		m.setStatus("No example messages configured.", true)
		return
	}
	n := len(m.examples)
	if m.exampleIdx < 0 && step < 0 {
		m.exampleIdx = n - 1
	} else {
		m.exampleIdx = ((m.exampleIdx+step)%n + n) % n
	}
	m.input.SetValue(m.examples[m.exampleIdx])
	m.setStatus(fmt.Sprintf("Example %d/%d loaded.", m.exampleIdx+1, n), false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) mainWidth() int {
	if m.width >= minWideLayout {
		return m.width - sidebarWidth
	}
	return max(20, m.width)
}

// layout sizes the text area and history viewport to the window.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	w := m.mainWidth()
	fw, fh := boxStyle.GetFrameSize()
	m.input.SetWidth(max(10, w-fw))
	m.help.Width = w

	used := lipgloss.Height(titleStyle.Render("x")) +
		inputHeight + fh +
		lipgloss.Height(m.renderResult(w)) +
		1 + // status
		lipgloss.Height(m.help.View(m.keys)) +
		1 + // history heading
		fh
	m.viewport.Width = max(10, w-fw)
	m.viewport.Height = max(3, m.height-used)
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	m.viewport.SetContent(renderHistory(m.history.Items(), m.viewport.Width))
}

// View renders the page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.loadErr != nil {
		return m.renderLoadFailure()
	}
	w := m.mainWidth()
	var b strings.Builder
	b.WriteString(titleStyle.Width(w).Render("📨 SMS Spam Classifier"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.input.View()))
	b.WriteString("\n")
	if card := m.renderResult(w); card != "" {
		b.WriteString(card)
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Recent predictions (%d/%d)", m.history.Len(), m.history.Capacity())))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	main := b.String()
	if m.width < minWideLayout {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderSidebar())
}

func (m Model) renderStatus() string {
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}

func (m Model) renderResult(width int) string {
	if m.latest == nil {
		return ""
	}
	return renderResultCard(*m.latest, width)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("About"))
	b.WriteString("\n")
	b.WriteString("Classifies SMS messages as spam or not spam using a pre-trained model and TF-IDF vectorizer.\n\n")
	if m.classifier != nil {
		info := m.classifier.Info()
		b.WriteString(headingStyle.Render("Model"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Vectorizer: %s (%d terms)\n", info.Vectorizer, info.Dimension))
		b.WriteString(fmt.Sprintf("Classifier: %s\n", info.Classifier))
		if info.Confidence {
			b.WriteString("Confidence: available\n")
		} else {
			b.WriteString("Confidence: not supported\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(headingStyle.Render("Examples"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d sample messages, press tab to cycle.\n", len(m.examples)))
	return sidebarStyle.Width(sidebarWidth - sidebarStyle.GetHorizontalFrameSize()).Render(b.String())
}

func (m Model) renderLoadFailure() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📨 SMS Spam Classifier"))
	b.WriteString("\n\n")
	b.WriteString(errorStyle.Render("Model files could not be loaded."))
	b.WriteString("\n\n")
	b.WriteString(m.loadErr.Error())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Expected vectorizer: %s\nExpected classifier: %s\n", m.paths.Vectorizer, m.paths.Classifier))
	b.WriteString("\nPlace valid artifacts there and restart. Press q to quit.")
	return failureStyle.Width(max(20, m.width-failureStyle.GetHorizontalFrameSize())).Render(b.String())
}
