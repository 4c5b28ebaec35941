package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-radix/loader"
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

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type TuiCommand struct {
	Source string `help:"Module location: URL, s3://bucket/key or path." short:"s"`
	Native bool   `help:"Use the Go implementation instead of the module."`
}

func (r *TuiCommand) Run(app *App) error {
	m := newTuiModel(app, r.Native, r.Source)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(app.Context)).Run()
	m.close()
	return err
}

type modelState int

const (
	stateSelect modelState = iota
	stateInput
	stateResult
)

type tuiModel struct {
	err      error
	app      *App
	backend  *backend
	source   string
	result   string
	specs    []loader.ExportSpec
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
	native   bool
}

func newTuiModel(app *App, native bool, source string) *tuiModel {
	return &tuiModel{
		app:    app,
		native: native,
		source: source,
		specs:  loader.RequiredExports,
		state:  stateSelect,
	}
}

type openedMsg struct {
	err     error
	backend *backend
}

type resultMsg struct {
	err    error
	result string
}

func (m *tuiModel) Init() tea.Cmd {
	return m.open
}

func (m *tuiModel) open() tea.Msg {
	b, err := m.app.open(m.app.Context, m.native, m.source)
	return openedMsg{backend: b, err: err}
}

func (m *tuiModel) close() {
	if m.backend != nil {
		m.backend.Close(context.Background())
		m.backend = nil
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.specs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				if m.backend == nil {
					return m, nil
				}
				m.prepareInputs()
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.call

			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}
			return m, nil

		case "tab", "shift+tab":
			if m.state == stateInput && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				step := 1
				if msg.String() == "shift+tab" {
					step = len(m.inputs) - 1
				}
				m.focusIdx = (m.focusIdx + step) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}
			return m, nil

		case "esc":
			switch m.state {
			case stateInput:
				m.state = stateSelect
				m.inputs = nil
			case stateResult:
				m.state = stateSelect
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case openedMsg:
		m.err = msg.err
		m.backend = msg.backend

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateResult
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *tuiModel) prepareInputs() {
	spec := m.specs[m.selected]
	m.inputs = make([]textinput.Model, len(spec.Params))
	for i, p := range spec.Params {
		ti := textinput.New()
		ti.Placeholder = p.TypeName()
		ti.Prompt = p.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *tuiModel) call() tea.Msg {
	spec := m.specs[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	result, err := invoke(m.app.Context, m.backend.conv, spec.Name, args)
	if err != nil {
		return resultMsg{err: err}
	}
	logResult(m.app.Logger, spec.Name, args, result)
	return resultMsg{result: result}
}

func (m *tuiModel) View() string {
	if m.err != nil && m.state != stateResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.backend == nil {
		return "Loading module..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Radix"))
	b.WriteString(" ")
	b.WriteString(m.backend.source)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		b.WriteString("Select a conversion:\n\n")
		for i, spec := range m.specs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatSpec(spec)))
			} else {
				b.WriteString("  " + formatSpec(spec))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInput:
		spec := m.specs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(spec.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(spec.Params[i].TypeName()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateResult:
		spec := m.specs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(spec.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatSpec(spec loader.ExportSpec) string {
	params := make([]string, len(spec.Params))
	for i, p := range spec.Params {
		params[i] = p.Name + ": " + typeStyle.Render(p.TypeName())
	}
	return funcStyle.Render(spec.Name) + "(" + strings.Join(params, ", ") + ")"
}
