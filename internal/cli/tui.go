package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/clipperviz/clipper/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// cacheBrowserModel is the bubbletea model behind "cache ls --interactive".
// It shows stored artifacts in a table and deletes the selected entry on
// demand.
type cacheBrowserModel struct {
	ctx     context.Context
	store   store.Store
	entries []artifactEntry

	cursor  int
	offset  int
	height  int
	removed int
	lastErr error
}

// newCacheBrowserModel creates a browser over the given entries.
func newCacheBrowserModel(ctx context.Context, st store.Store, entries []artifactEntry) cacheBrowserModel {
	return cacheBrowserModel{
		ctx:     ctx,
		store:   st,
		entries: entries,
		height:  15,
	}
}

func (m cacheBrowserModel) Init() tea.Cmd {
	return nil
}

func (m cacheBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "d":
			m = m.deleteCurrent()
			if len(m.entries) == 0 {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// deleteCurrent removes the entry under the cursor from the store and the
// table. A failed delete keeps the entry and surfaces in the footer.
func (m cacheBrowserModel) deleteCurrent() cacheBrowserModel {
	if len(m.entries) == 0 {
		return m
	}
	e := m.entries[m.cursor]
	if err := m.store.Delete(m.ctx, e.Fingerprint); err != nil {
		m.lastErr = err
		return m
	}
	m.lastErr = nil
	m.removed++
	m.entries = append(m.entries[:m.cursor], m.entries[m.cursor+1:]...)
	if m.cursor >= len(m.entries) && m.cursor > 0 {
		m.cursor--
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	return m
}

func (m cacheBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stored Artifacts"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d delete  q quit"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(listDimStyle.Render("  store is empty"))
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, shortFingerprint(e.Fingerprint), e.Format, humanBytes(int64(e.Bytes))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Fingerprint", "Format", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if m.lastErr != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  delete failed: %v", m.lastErr)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.entries))))

	return b.String()
}
