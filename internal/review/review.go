// Package review is a small terminal UI for browsing recorded merge
// outcomes and their warnings.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/treemend/persistence"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Run loads merge history and launches the Bubble Tea UI.
func Run(ctx context.Context, store persistence.HistoryStore, limit int) error {
	records, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	m := newModel(records)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

type model struct {
	records  []*persistence.Record
	index    int
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

func newModel(records []*persistence.Record) model {
	return model{
		records:  records,
		viewport: viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - len(m.records) - 4
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.ready = true
		m.refresh()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.index > 0 {
				m.index--
				m.refresh()
			}
		case "down", "j":
			if m.index < len(m.records)-1 {
				m.index++
				m.refresh()
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) refresh() {
	if len(m.records) == 0 {
		m.viewport.SetContent(dimStyle.Render("No merges recorded yet."))
		return
	}
	m.viewport.SetContent(renderRecord(m.records[m.index]))
	m.viewport.GotoTop()
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("treemend merge history"))
	b.WriteString("\n\n")
	if len(m.records) == 0 {
		b.WriteString(dimStyle.Render("nothing to review"))
		b.WriteString("\n")
		return b.String()
	}
	for i, rec := range m.records {
		line := fmt.Sprintf("%s  %s", rec.MergedAt.Format("2006-01-02 15:04:05"), rec.Path)
		if !rec.Success {
			line += "  " + failStyle.Render("FAILED")
		} else if len(rec.Warnings) > 0 {
			line += "  " + warnStyle.Render(fmt.Sprintf("%d warning(s)", len(rec.Warnings)))
		}
		if i == m.index {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("j/k navigate · q quit"))
	return b.String()
}

func renderRecord(rec *persistence.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "path:      %s\n", rec.Path)
	fmt.Fprintf(&b, "language:  %s\n", rec.Language)
	fmt.Fprintf(&b, "merged at: %s\n", rec.MergedAt.Format("2006-01-02 15:04:05 MST"))
	if !rec.Success {
		fmt.Fprintf(&b, "status:    %s\n", failStyle.Render("failed"))
		if rec.Error != "" {
			fmt.Fprintf(&b, "error:     %s\n", rec.Error)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "merged:    %d nodes\n", rec.Stats.NodesMerged)
	fmt.Fprintf(&b, "dropped:   %d\n", rec.Stats.NodesDropped)
	fmt.Fprintf(&b, "inserted:  %d\n", rec.Stats.NodesInserted)
	fmt.Fprintf(&b, "dedup:     %d\n", rec.Stats.Deduplicated)
	fmt.Fprintf(&b, "conflicts: %d kept baseline\n", rec.Stats.BaselineDefaults)
	if len(rec.Warnings) > 0 {
		b.WriteString("\nwarnings:\n")
		for _, w := range rec.Warnings {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  [%s] %s — %s", w.Code, w.Node, w.Message)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
