package tui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
)

type loginAction int

const (
	loginNone loginAction = iota
	loginGoSignup
	loginGoForgot
)

type loginModel struct {
	inputs  []textinput.Model
	focus   int
	loading bool
	errMsg  string
	width   int
	height  int
}

func newLoginModel() *loginModel {
	username := newFormInput("Username: ")
	password := newFormInput("Password: ")
	password.EchoMode = textinput.EchoPassword
	m := &loginModel{inputs: []textinput.Model{username, password}}
	m.setFocus(0)
	return m
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *loginModel) setSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = maxInt(10, minInt(m.width-promptWidth-2, 48))
	}
}

func (m *loginModel) setFocus(idx int) tea.Cmd {
	count := len(m.inputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *loginModel) updateKey(deps Deps, msg tea.KeyMsg) (loginAction, tea.Cmd) {
	if m.loading {
		return loginNone, nil
	}
	switch msg.String() {
	case "ctrl+s":
		return loginGoSignup, nil
	case "ctrl+r":
		return loginGoForgot, nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return loginNone, m.setFocus(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return loginNone, m.setFocus(m.focus - 1)
	case tea.KeyEnter:
		return loginNone, m.submit(deps)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return loginNone, cmd
}

func (m *loginModel) submit(deps Deps) tea.Cmd {
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.errMsg = "username and password are required"
		return nil
	}
	m.errMsg = ""
	m.loading = true
	return loginCmd(deps.API, username, password)
}

func (m *loginModel) update(msg tea.Msg) tea.Cmd {
	done, ok := msg.(loginDoneMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if done.err != nil {
		m.errMsg = loginErrMessage(done.err)
		return nil
	}
	m.errMsg = ""
	m.inputs[1].SetValue("")
	return nil
}

// loginErrMessage maps rejected credentials and malformed requests to fixed
// wording; anything else keeps the underlying error text.
func loginErrMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "invalid credentials"
		case http.StatusBadRequest:
			return "bad request"
		}
	}
	return err.Error()
}

func (m *loginModel) view(width, height int) string {
	lines := []string{
		cardValueStyle.Render("Sign In"),
		"",
		m.inputs[0].View(),
		m.inputs[1].View(),
	}
	if m.loading {
		lines = append(lines, "", headerStyle.Render("signing in..."))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, modalInnerWidth(width))))
	}
	lines = append(lines, "", labelStyle.Render("No account? ctrl+s to sign up."), labelStyle.Render("Forgot your password? ctrl+r to reset."))
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
