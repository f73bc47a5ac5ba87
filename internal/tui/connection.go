package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gisops/webtool/internal/config"
)

// ConnectionResult holds the outcome of the connection wizard.
type ConnectionResult struct {
	Cancelled bool
	Portal    config.PortalSettings
}

// Field indices of the wizard form.
const (
	fieldPortalURL = iota
	fieldServerURL
	fieldUsername
	fieldCount
)

// connectionModel is the bubbletea model for the portal connection wizard.
type connectionModel struct {
	inputs  []textinput.Model
	focused int
	errMsg  string
	done    bool
	result  ConnectionResult
}

func newConnectionModel(initial config.PortalSettings) connectionModel {
	labels := []struct {
		placeholder string
		value       string
	}{
		{"https://gis.example.com", initial.URL},
		{"https://server.example.com", initial.ServerURL},
		{"publisher", initial.Username},
	}

	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.CharLimit = 256
		ti.Width = 48
		ti.SetValue(l.value)
		inputs[i] = ti
	}
	inputs[fieldPortalURL].Focus()

	return connectionModel{inputs: inputs}
}

func (m connectionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m connectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.result.Cancelled = true
			m.done = true
			return m, tea.Quit

		case tea.KeyEnter:
			if m.focused == fieldCount-1 {
				if err := m.validate(); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
				m.result = ConnectionResult{Portal: m.settings()}
				m.done = true
				return m, tea.Quit
			}
			m.focusField(m.focused + 1)
			return m, nil

		case tea.KeyTab, tea.KeyDown:
			m.focusField((m.focused + 1) % fieldCount)
			return m, nil

		case tea.KeyShiftTab, tea.KeyUp:
			m.focusField((m.focused + fieldCount - 1) % fieldCount)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *connectionModel) focusField(i int) {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[m.focused].Focus()
	m.errMsg = ""
}

func (m connectionModel) settings() config.PortalSettings {
	return config.PortalSettings{
		URL:       strings.TrimSpace(m.inputs[fieldPortalURL].Value()),
		ServerURL: strings.TrimSpace(m.inputs[fieldServerURL].Value()),
		Username:  strings.TrimSpace(m.inputs[fieldUsername].Value()),
	}
}

func (m connectionModel) validate() error {
	s := m.settings()
	if s.URL == "" || s.ServerURL == "" || s.Username == "" {
		return fmt.Errorf("all fields are required")
	}
	for _, raw := range []string{s.URL, s.ServerURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("'%s' is not a valid URL", raw)
		}
	}
	return nil
}

func (m connectionModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Portal connection"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Where should webtool publish to?"))
	b.WriteString("\n\n")

	labels := []string{"Portal URL", "Server URL", "Username"}
	for i, label := range labels {
		style := LabelStyle
		if i == m.focused {
			style = FocusedLabelStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render("✗ " + m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("enter: next/confirm • tab: switch field • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// RunConnectionWizard runs the interactive portal connection wizard and
// returns the portal settings the user entered. The password is deliberately
// not part of the wizard; it is resolved at run time.
func RunConnectionWizard(initial config.PortalSettings) (ConnectionResult, error) {
	model := newConnectionModel(initial)

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return ConnectionResult{}, fmt.Errorf("connection wizard failed: %w", err)
	}

	m, ok := final.(connectionModel)
	if !ok {
		return ConnectionResult{}, fmt.Errorf("connection wizard returned unexpected model")
	}
	return m.result, nil
}
