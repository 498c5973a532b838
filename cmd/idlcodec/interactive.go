package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/idl-codec/accounts"
)

type interactiveModel struct {
	err      error
	coder    *accounts.Coder
	source   string
	result   string
	names    []string
	input    textinput.Model
	selected int
	mode     opMode
	state    modelState
}

type modelState int

const (
	stateSelectAccount modelState = iota
	stateInput
	stateShowResult
)

type opMode int

const (
	modeEncode opMode = iota
	modeDecode
)

func (m opMode) String() string {
	if m == modeDecode {
		return "Decode"
	}
	return "Encode"
}

type resultMsg struct {
	err    error
	result string
}

func newInteractiveModel(coder *accounts.Coder, source string) *interactiveModel {
	return &interactiveModel{
		coder:  coder,
		source: source,
		names:  coder.Names(),
		state:  stateSelectAccount,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.state == stateSelectAccount && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectAccount && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "e", "d":
			if m.state == stateSelectAccount && len(m.names) > 0 {
				m.mode = modeEncode
				if msg.String() == "d" {
					m.mode = modeDecode
				}
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink
			}

		case "enter":
			switch m.state {
			case stateSelectAccount:
				if len(m.names) > 0 {
					m.mode = modeEncode
					m.prepareInput()
					m.state = stateInput
					return m, textinput.Blink
				}
			case stateInput:
				return m, m.execute
			case stateShowResult:
				m.reset()
			}

		case "esc":
			if m.state != stateSelectAccount {
				m.reset()
			}
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectAccount
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Width = 60
	ti.CharLimit = 0
	if m.mode == modeDecode {
		ti.Prompt = "data: "
		ti.Placeholder = "hex or base64:..."
	} else {
		ti.Prompt = "value: "
		ti.Placeholder = `{"field": ...}`
	}
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) execute() tea.Msg {
	name := m.names[m.selected]
	raw := m.input.Value()

	if m.mode == modeDecode {
		data, err := parseData(raw)
		if err != nil {
			return resultMsg{err: err}
		}
		value, err := m.coder.Decode(name, data)
		if err != nil {
			return resultMsg{err: err}
		}
		out, err := render(value, "json")
		return resultMsg{result: out, err: err}
	}

	value, err := parseValue(raw)
	if err != nil {
		return resultMsg{err: err}
	}
	data, err := m.coder.Encode(name, value)
	if err != nil {
		return resultMsg{err: err}
	}
	return resultMsg{result: hex.EncodeToString(data)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Account Codec"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString("The IDL declares no accounts.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateSelectAccount:
		b.WriteString("Select an account:\n\n")
		for i, name := range m.names {
			line := accountLine(m.coder, name)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if def, ok := m.coder.IDL().TypeDef(m.names[m.selected]); ok {
			b.WriteString("\n")
			b.WriteString(typeStyle.Render(def.Type.String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • e/enter encode • d decode • q quit"))

	case stateInput:
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.mode, nameStyle.Render(m.names[m.selected])))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("%s %s:\n\n", m.mode, nameStyle.Render(m.names[m.selected])))
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

func runInteractive(coder *accounts.Coder, source string) error {
	p := tea.NewProgram(newInteractiveModel(coder, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
