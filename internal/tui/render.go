package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smsclassifier/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sidebarStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).Padding(0, 1)
	failureStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2)
	spamCard     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#ffb3b3")).Padding(0, 1)
	hamCard      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#a8e8c9")).Padding(0, 1)
	spamText     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d11a2a")).Bold(true)
	hamText      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f8a54")).Bold(true)
)

func verdict(l domain.Label) string {
	if l.IsSpam() {
		return "🚫 SPAM"
	}
	return "✅ NOT SPAM"
}

func renderResultCard(r domain.PredictionResult, width int) string {
	card, text := hamCard, hamText
	if r.Label.IsSpam() {
		card, text = spamCard, spamText
	}
	lines := []string{text.Render(verdict(r.Label))}
	if r.Confidence != nil {
		lines = append(lines, fmt.Sprintf("Confidence: %.2f%%", *r.Confidence*100))
	}
	lines = append(lines, statusStyle.Render("Predicted at "+r.Timestamp.Format(timestampLayout)))
	return card.Width(max(10, width-card.GetHorizontalFrameSize())).Render(strings.Join(lines, "\n"))
}

func historyHeadline(r domain.PredictionResult) string {
	score := "—"
	if r.Confidence != nil {
		score = fmt.Sprintf("%.1f%%", *r.Confidence*100)
	}
	return fmt.Sprintf("%s — %s", r.Label.Display(), score)
}

func renderHistory(items []domain.PredictionResult, width int) string {
	if len(items) == 0 {
		return "No predictions yet."
	}
	sep := strings.Repeat("─", max(3, width))
	parts := make([]string, 0, len(items))
	for _, r := range items {
		style := hamText
		if r.Label.IsSpam() {
			style = spamText
		}
		parts = append(parts, style.Render(historyHeadline(r))+"\n"+lipgloss.NewStyle().Width(max(10, width)).Render(r.InputText))
	}
	return strings.Join(parts, "\n"+sep+"\n")
}
