package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/validate"
)

type forgotAction int

const (
	forgotNone forgotAction = iota
	forgotGoLogin
)

type forgotStep int

const (
	stepUsername forgotStep = iota
	stepAnswers
	stepNewPassword
)

// forgotModel is the three-step recovery wizard: identify the account,
// answer its security questions, then set a new password.
type forgotModel struct {
	step forgotStep

	username  textinput.Model
	questions []api.SecretQuestion
	answers   []textinput.Model
	password  textinput.Model
	confirm   textinput.Model

	focus   int
	loading bool
	errMsg  string

	width  int
	height int
}

func newForgotModel() *forgotModel {
	m := &forgotModel{
		username: newFormInput("Username: "),
		password: newFormInput("New password: "),
		confirm:  newFormInput("Confirm: "),
	}
	m.password.EchoMode = textinput.EchoPassword
	m.confirm.EchoMode = textinput.EchoPassword
	m.username.Focus()
	return m
}

func (m *forgotModel) setSize(width, height int) {
	m.width = width
	m.height = height
	inputs := []*textinput.Model{&m.username, &m.password, &m.confirm}
	for i := range m.answers {
		inputs = append(inputs, &m.answers[i])
	}
	for _, input := range inputs {
		promptWidth := lipgloss.Width(input.Prompt)
		input.Width = maxInt(10, minInt(width-promptWidth-2, 48))
	}
}

func (m *forgotModel) updateKey(deps Deps, msg tea.KeyMsg) (forgotAction, tea.Cmd) {
	if m.loading {
		return forgotNone, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return m.back()
	case tea.KeyEnter:
		return forgotNone, m.submit(deps)
	case tea.KeyTab, tea.KeyDown:
		return forgotNone, m.moveFocus(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return forgotNone, m.moveFocus(-1)
	}
	var cmd tea.Cmd
	switch m.step {
	case stepUsername:
		m.username, cmd = m.username.Update(msg)
	case stepAnswers:
		if m.focus < len(m.answers) {
			m.answers[m.focus], cmd = m.answers[m.focus].Update(msg)
		}
	case stepNewPassword:
		if m.focus == 0 {
			m.password, cmd = m.password.Update(msg)
		} else {
			m.confirm, cmd = m.confirm.Update(msg)
		}
	}
	return forgotNone, cmd
}

// back steps the wizard backwards; from the first step it leaves for the
// sign-in screen.
func (m *forgotModel) back() (forgotAction, tea.Cmd) {
	m.errMsg = ""
	switch m.step {
	case stepUsername:
		return forgotGoLogin, nil
	case stepAnswers:
		m.step = stepUsername
		m.focus = 0
		return forgotNone, m.username.Focus()
	default:
		m.step = stepAnswers
		m.focus = 0
		return forgotNone, m.applyFocus()
	}
}

func (m *forgotModel) focusCount() int {
	switch m.step {
	case stepAnswers:
		return len(m.answers)
	case stepNewPassword:
		return 2
	default:
		return 1
	}
}

func (m *forgotModel) moveFocus(delta int) tea.Cmd {
	count := m.focusCount()
	if count <= 1 {
		return nil
	}
	m.focus += delta
	if m.focus < 0 {
		m.focus = count - 1
	}
	if m.focus >= count {
		m.focus = 0
	}
	return m.applyFocus()
}

func (m *forgotModel) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	switch m.step {
	case stepAnswers:
		for i := range m.answers {
			if i == m.focus {
				cmd = m.answers[i].Focus()
			} else {
				m.answers[i].Blur()
			}
		}
	case stepNewPassword:
		if m.focus == 0 {
			m.confirm.Blur()
			cmd = m.password.Focus()
		} else {
			m.password.Blur()
			cmd = m.confirm.Focus()
		}
	default:
		cmd = m.username.Focus()
	}
	return cmd
}

func (m *forgotModel) submit(deps Deps) tea.Cmd {
	m.errMsg = ""
	switch m.step {
	case stepUsername:
		username := strings.TrimSpace(m.username.Value())
		if username == "" {
			m.errMsg = "enter your username"
			return nil
		}
		m.loading = true
		return userQuestionsCmd(deps.API, username)
	case stepAnswers:
		answers := make([]api.SecretAnswer, 0, len(m.questions))
		for i, q := range m.questions {
			answer := validate.NormalizeAnswer(m.answers[i].Value())
			if answer == "" {
				m.errMsg = "answer every question"
				return nil
			}
			answers = append(answers, api.SecretAnswer{QuestionID: q.ID, Answer: answer})
		}
		m.loading = true
		return verifyCmd(deps.API, strings.TrimSpace(m.username.Value()), answers)
	default:
		password := m.password.Value()
		if validate.PasswordStrength(password) < validate.MinSignupStrength {
			m.errMsg = "password is too weak"
			return nil
		}
		if password != m.confirm.Value() {
			m.errMsg = "passwords do not match"
			return nil
		}
		m.loading = true
		return resetCmd(deps.API, strings.TrimSpace(m.username.Value()), api.ResetPasswordRequest{
			NewPassword:     password,
			ConfirmPassword: m.confirm.Value(),
		})
	}
}

func (m *forgotModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userQuestionsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.questions = msg.questions
		m.answers = make([]textinput.Model, len(m.questions))
		for i := range m.answers {
			m.answers[i] = newFormInput("Answer: ")
		}
		m.setSize(m.width, m.height)
		m.step = stepAnswers
		m.focus = 0
		return m.applyFocus()
	case verifyDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.step = stepNewPassword
		m.focus = 0
		return m.applyFocus()
	case resetDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
	}
	return nil
}

func (m *forgotModel) view(width, height int) string {
	lines := []string{cardValueStyle.Render("Reset Password"), ""}
	switch m.step {
	case stepUsername:
		lines = append(lines, labelStyle.Render("Step 1 of 3: which account?"), "", m.username.View())
	case stepAnswers:
		lines = append(lines, labelStyle.Render("Step 2 of 3: answer your security questions"), "")
		for i, q := range m.questions {
			lines = append(lines, labelStyle.Render(q.Question), m.answers[i].View())
		}
	default:
		lines = append(lines, labelStyle.Render("Step 3 of 3: choose a new password"), "", m.password.View(), m.confirm.View())
	}
	if m.loading {
		lines = append(lines, "", headerStyle.Render("working..."))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, modalInnerWidth(width))))
	}
	lines = append(lines, "", labelStyle.Render("enter: continue  esc: back"))
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
