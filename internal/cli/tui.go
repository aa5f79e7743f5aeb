package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartwheel/pkg/template"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// TemplateListModel - Interactive template selection
// =============================================================================

// TemplateListModel is the bubbletea model behind "wheel --pick".
type TemplateListModel struct {
	Templates []template.Document
	Cursor    int
	Selected  *template.Document
	Height    int
	Offset    int
}

// NewTemplateListModel creates a picker over docs. The cursor starts on the
// template named current when present.
func NewTemplateListModel(docs []template.Document, current string) TemplateListModel {
	m := TemplateListModel{Templates: docs, Height: 10}
	for i, d := range docs {
		if d.ID == current {
			m.Cursor = i
		}
	}
	m.scroll()
	return m
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Templates)-1, 0)
		case "enter":
			if len(m.Templates) == 0 {
				return m, nil
			}
			doc := m.Templates[m.Cursor]
			m.Selected = &doc
			return m, tea.Quit
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *TemplateListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Templates))
	b.WriteString(renderTemplateTable(m.Templates[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n")

	if len(m.Templates) > 0 {
		if desc := m.Templates[m.Cursor].Description; desc != "" {
			b.WriteString("\n  ")
			b.WriteString(StyleValue.Render(desc))
		}
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))
	}

	return b.String()
}

// builtinDocuments loads every bundled template in name order.
func builtinDocuments() ([]template.Document, error) {
	names := template.Builtins()
	docs := make([]template.Document, 0, len(names))
	for _, name := range names {
		doc, err := template.Builtin(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// pickTemplate runs the interactive picker and returns the chosen template
// id, or "" when the user quit without choosing.
func pickTemplate(current string) (string, error) {
	docs, err := builtinDocuments()
	if err != nil {
		return "", err
	}
	p := tea.NewProgram(NewTemplateListModel(docs, current), tea.WithOutput(uiOut))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("template picker: %w", err)
	}
	if m, ok := final.(TemplateListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
