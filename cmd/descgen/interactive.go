package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-descriptor/document"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	section string
	label   string
	detail  string
}

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

type interactiveModel struct {
	filter   textinput.Model
	name     string
	summary  string
	entries  []entry
	visible  []int
	selected int
	state    modelState
}

func newInteractiveModel(name string, doc *document.Document) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "/"
	ti.Width = 40

	m := &interactiveModel{
		filter:  ti,
		name:    name,
		summary: doc.Summary().String(),
		entries: buildEntries(doc),
	}
	m.applyFilter()
	return m
}

func buildEntries(doc *document.Document) []entry {
	var out []entry
	for _, e := range doc.Exports {
		out = append(out, entry{section: "export", label: exportLabel(doc, &e), detail: exportDetail(doc, &e)})
	}
	for _, imp := range doc.Imports {
		out = append(out, entry{section: "import", label: importLabel(doc, &imp), detail: importDetail(doc, &imp)})
	}
	for _, e := range doc.Enums {
		out = append(out, entry{section: "enum", label: enumLabel(&e), detail: enumDetail(&e)})
	}
	for _, ct := range doc.CustomTypeNames {
		out = append(out, entry{
			section: "type",
			label:   ct.Name,
			detail:  fmt.Sprintf("custom type %s\nowned descriptor %d\nborrowed descriptor %d", ct.Name, ct.Descriptor, ct.Descriptor|1),
		})
	}
	return out
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.label), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.filter.Blur()
			m.state = stateList
			return m, nil
		case "esc":
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			m.state = stateList
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateList && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateList && m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "/":
		if m.state == stateList {
			m.state = stateFilter
			return m, m.filter.Focus()
		}

	case "enter":
		switch m.state {
		case stateList:
			if len(m.visible) > 0 {
				m.state = stateDetail
			}
		case stateDetail:
			m.state = stateList
		}

	case "esc":
		if m.state == stateDetail {
			m.state = stateList
		}
	}

	return m, nil
}

func (m *interactiveModel) current() (entry, bool) {
	if len(m.visible) == 0 {
		return entry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Descriptor Browser"))
	b.WriteString(" ")
	b.WriteString(m.name)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.summary))
	b.WriteString("\n\n")

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString("No matching entries.\n")
		}
		section := ""
		for i, idx := range m.visible {
			e := m.entries[idx]
			if e.section != section {
				section = e.section
				b.WriteString(sectionStyle.Render(section + "s"))
				b.WriteString("\n")
			}
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.label))
			} else {
				b.WriteString("  " + e.label)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
		}

	case stateDetail:
		e, _ := m.current()
		b.WriteString(funcStyle.Render(e.label))
		b.WriteString("\n\n")
		b.WriteString(e.detail)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func runInteractive(name string, doc *document.Document) error {
	p := tea.NewProgram(newInteractiveModel(name, doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
