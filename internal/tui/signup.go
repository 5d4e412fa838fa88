package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/validate"
)

type signupAction int

const (
	signupNone signupAction = iota
	signupGoLogin
)

const signupQuestionCount = 2

// field indexes; question selectors and answers interleave after the
// text fields.
const (
	fieldEmail = iota
	fieldUsername
	fieldFirstName
	fieldLastName
	fieldPassword
	fieldConfirm
	fieldCount
)

var signupFieldNames = []string{"email", "username", "first_name", "last_name", "password", "confirm_password"}

type signupModel struct {
	inputs  []textinput.Model
	answers []textinput.Model

	questions        []api.SecretQuestion
	questionsLoaded  bool
	questionsLoading bool
	selected         [signupQuestionCount]int

	focus     int
	loading   bool
	errMsg    string
	fieldErrs map[string]string

	width  int
	height int
}

func newSignupModel() *signupModel {
	prompts := []string{"Email: ", "Username: ", "First name: ", "Last name: ", "Password: ", "Confirm: "}
	inputs := make([]textinput.Model, fieldCount)
	for i, prompt := range prompts {
		inputs[i] = newFormInput(prompt)
	}
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldConfirm].EchoMode = textinput.EchoPassword
	answers := make([]textinput.Model, signupQuestionCount)
	for i := range answers {
		answers[i] = newFormInput("Answer: ")
	}
	m := &signupModel{
		inputs:    inputs,
		answers:   answers,
		fieldErrs: map[string]string{},
		selected:  [signupQuestionCount]int{0, 1},
	}
	m.applyFocus()
	return m
}

// ensureQuestions fetches the security question catalog once.
func (m *signupModel) ensureQuestions(deps Deps) tea.Cmd {
	if m.questionsLoaded || m.questionsLoading {
		return nil
	}
	m.questionsLoading = true
	return questionsCmd(deps.API)
}

func (m *signupModel) setSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = maxInt(10, minInt(width-promptWidth-2, 48))
	}
	for i := range m.answers {
		promptWidth := lipgloss.Width(m.answers[i].Prompt)
		m.answers[i].Width = maxInt(10, minInt(width-promptWidth-2, 48))
	}
}

// focusCount counts text fields plus one selector and one answer per
// question slot.
func (m *signupModel) focusCount() int {
	return fieldCount + 2*signupQuestionCount
}

// slotOf maps a focus index past the text fields to its question slot and
// whether it is the selector (true) or the answer input (false).
func slotOf(focus int) (int, bool) {
	offset := focus - fieldCount
	return offset / 2, offset%2 == 0
}

func (m *signupModel) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	for i := range m.answers {
		idx := fieldCount + 2*i + 1
		if idx == m.focus {
			cmd = m.answers[i].Focus()
		} else {
			m.answers[i].Blur()
		}
	}
	return cmd
}

func (m *signupModel) moveFocus(delta int) tea.Cmd {
	count := m.focusCount()
	m.focus += delta
	if m.focus < 0 {
		m.focus = count - 1
	}
	if m.focus >= count {
		m.focus = 0
	}
	return m.applyFocus()
}

func (m *signupModel) updateKey(deps Deps, msg tea.KeyMsg) (signupAction, tea.Cmd) {
	if m.loading {
		return signupNone, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		return signupGoLogin, nil
	case tea.KeyTab, tea.KeyDown:
		return signupNone, m.moveFocus(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return signupNone, m.moveFocus(-1)
	case tea.KeyEnter:
		return signupNone, m.submit(deps)
	}
	if m.focus >= fieldCount {
		slot, isSelector := slotOf(m.focus)
		if isSelector {
			switch msg.String() {
			case "left", "h":
				m.cycleQuestion(slot, -1)
			case "right", "l", " ":
				m.cycleQuestion(slot, 1)
			}
			return signupNone, nil
		}
		var cmd tea.Cmd
		m.answers[slot], cmd = m.answers[slot].Update(msg)
		return signupNone, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return signupNone, cmd
}

func (m *signupModel) cycleQuestion(slot, delta int) {
	if len(m.questions) == 0 {
		return
	}
	next := m.selected[slot] + delta
	if next < 0 {
		next = len(m.questions) - 1
	}
	if next >= len(m.questions) {
		next = 0
	}
	m.selected[slot] = next
}

func (m *signupModel) submit(deps Deps) tea.Cmd {
	m.fieldErrs = map[string]string{}
	m.errMsg = ""

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	confirm := m.inputs[fieldConfirm].Value()

	if !validate.IsValidEmail(email) {
		m.fieldErrs["email"] = "enter a valid email address"
	}
	if username == "" {
		m.fieldErrs["username"] = "username is required"
	}
	if validate.PasswordStrength(password) < validate.MinSignupStrength {
		m.fieldErrs["password"] = "password is too weak"
	}
	if password != confirm {
		m.fieldErrs["confirm_password"] = "passwords do not match"
	}
	if len(m.questions) < signupQuestionCount {
		m.errMsg = "security questions are not loaded yet"
	} else if m.selected[0] == m.selected[1] {
		m.errMsg = "pick two different security questions"
	}
	for i := range m.answers {
		if validate.NormalizeAnswer(m.answers[i].Value()) == "" {
			m.errMsg = "answer both security questions"
			break
		}
	}
	if len(m.fieldErrs) > 0 || m.errMsg != "" {
		return nil
	}

	answers := make([]api.SecretAnswer, signupQuestionCount)
	for i := range answers {
		answers[i] = api.SecretAnswer{
			QuestionID: m.questions[m.selected[i]].ID,
			Answer:     validate.NormalizeAnswer(m.answers[i].Value()),
		}
	}
	req := api.RegisterRequest{
		Email:           email,
		Username:        username,
		FirstName:       strings.TrimSpace(m.inputs[fieldFirstName].Value()),
		LastName:        strings.TrimSpace(m.inputs[fieldLastName].Value()),
		Password:        password,
		ConfirmPassword: confirm,
		SecretAnswers:   answers,
	}
	m.loading = true
	return registerCmd(deps.API, req)
}

func (m *signupModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case questionsMsg:
		m.questionsLoading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.questionsLoaded = true
		m.questions = msg.questions
		for i := range m.selected {
			if i < len(m.questions) {
				m.selected[i] = i
			}
		}
	case registerDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.applyAPIError(msg.err)
		}
	}
	return nil
}

func (m *signupModel) applyAPIError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		for _, name := range signupFieldNames {
			if fieldErr := apiErr.FieldError(name); fieldErr != "" {
				m.fieldErrs[name] = fieldErr
			}
		}
		if len(m.fieldErrs) > 0 {
			return
		}
	}
	m.errMsg = err.Error()
}

func (m *signupModel) view(width, height int) string {
	lines := []string{cardValueStyle.Render("Create Account"), ""}
	for i := range m.inputs {
		lines = append(lines, m.inputs[i].View())
		if i == fieldPassword {
			lines = append(lines, m.strengthLine())
		}
		if fieldErr, ok := m.fieldErrs[signupFieldNames[i]]; ok {
			lines = append(lines, errorStyle.Render("  "+fieldErr))
		}
	}
	lines = append(lines, "", labelStyle.Render("Security questions (left/right to change):"))
	for i := 0; i < signupQuestionCount; i++ {
		lines = append(lines, m.questionLine(i), m.answers[i].View())
	}
	if m.loading {
		lines = append(lines, "", headerStyle.Render("creating account..."))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, width-4)))
	}
	lines = append(lines, "", labelStyle.Render("enter: create account  esc: back to sign in"))
	return fitLines(strings.Join(lines, "\n"), width, height)
}

func (m *signupModel) strengthLine() string {
	strength := validate.PasswordStrength(m.inputs[fieldPassword].Value())
	bar := strings.Repeat("█", strength) + strings.Repeat("░", validate.MaxPasswordStrength-strength)
	style := errorStyle
	if strength >= validate.MinSignupStrength {
		style = successStyle
	}
	return "  " + style.Render(bar)
}

func (m *signupModel) questionLine(slot int) string {
	focused := false
	if m.focus >= fieldCount {
		s, isSelector := slotOf(m.focus)
		focused = isSelector && s == slot
	}
	text := "loading questions..."
	if len(m.questions) > 0 {
		text = m.questions[m.selected[slot]].Question
	}
	line := "Question: " + text
	if focused {
		return focusedStyle.Render("> " + line)
	}
	return "  " + line
}
