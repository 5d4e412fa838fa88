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

type profileModel struct {
	profile api.Profile
	loaded  bool
	loading bool
	errMsg  string

	editMode   bool
	editInputs []textinput.Model
	editFocus  int
	saving     bool

	passwordMode   bool
	passwordInputs []textinput.Model
	passwordFocus  int
	passwordErrs   map[string]string
	changing       bool

	width  int
	height int
}

func newProfileModel() *profileModel {
	edit := []textinput.Model{
		newFormInput("First name: "),
		newFormInput("Last name: "),
		newFormInput("Email: "),
	}
	password := []textinput.Model{
		newFormInput("Current password: "),
		newFormInput("New password: "),
		newFormInput("Confirm: "),
	}
	for i := range password {
		password[i].EchoMode = textinput.EchoPassword
	}
	return &profileModel{
		editInputs:     edit,
		passwordInputs: password,
		passwordErrs:   map[string]string{},
	}
}

func (m *profileModel) startLoad() {
	m.loading = true
	m.errMsg = ""
}

func (m *profileModel) setSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.editInputs {
		promptWidth := lipgloss.Width(m.editInputs[i].Prompt)
		m.editInputs[i].Width = maxInt(10, minInt(width-promptWidth-2, 48))
	}
	for i := range m.passwordInputs {
		promptWidth := lipgloss.Width(m.passwordInputs[i].Prompt)
		m.passwordInputs[i].Width = maxInt(10, modalInnerWidth(width)-promptWidth)
	}
}

func (m *profileModel) help() string {
	if m.passwordMode || m.editMode {
		return "tab: next field  enter: apply  esc: cancel"
	}
	return "e: edit  p: change password  r: refresh"
}

func (m *profileModel) updateKey(deps Deps, msg tea.KeyMsg) tea.Cmd {
	if m.passwordMode {
		return m.updatePasswordKey(deps, msg)
	}
	if m.editMode {
		return m.updateEditKey(deps, msg)
	}
	switch msg.String() {
	case "e":
		if !m.loaded {
			return nil
		}
		m.editMode = true
		m.editFocus = 0
		m.editInputs[0].SetValue(m.profile.FirstName)
		m.editInputs[1].SetValue(m.profile.LastName)
		m.editInputs[2].SetValue(m.profile.Email)
		return m.applyEditFocus()
	case "p":
		m.passwordMode = true
		m.passwordFocus = 0
		m.passwordErrs = map[string]string{}
		for i := range m.passwordInputs {
			m.passwordInputs[i].SetValue("")
		}
		return m.applyPasswordFocus()
	case "r":
		m.startLoad()
		return profileCmd(deps.API)
	}
	return nil
}

func (m *profileModel) updateEditKey(deps Deps, msg tea.KeyMsg) tea.Cmd {
	if m.saving {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.editMode = false
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.editFocus = (m.editFocus + 1) % len(m.editInputs)
		return m.applyEditFocus()
	case tea.KeyShiftTab, tea.KeyUp:
		m.editFocus--
		if m.editFocus < 0 {
			m.editFocus = len(m.editInputs) - 1
		}
		return m.applyEditFocus()
	case tea.KeyEnter:
		email := strings.TrimSpace(m.editInputs[2].Value())
		if !validate.IsValidEmail(email) {
			m.errMsg = "enter a valid email address"
			return nil
		}
		updated := m.profile
		updated.FirstName = strings.TrimSpace(m.editInputs[0].Value())
		updated.LastName = strings.TrimSpace(m.editInputs[1].Value())
		updated.Email = email
		m.saving = true
		m.errMsg = ""
		return saveProfileCmd(deps.API, updated)
	}
	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return cmd
}

func (m *profileModel) updatePasswordKey(deps Deps, msg tea.KeyMsg) tea.Cmd {
	if m.changing {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.passwordMode = false
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.passwordFocus = (m.passwordFocus + 1) % len(m.passwordInputs)
		return m.applyPasswordFocus()
	case tea.KeyShiftTab, tea.KeyUp:
		m.passwordFocus--
		if m.passwordFocus < 0 {
			m.passwordFocus = len(m.passwordInputs) - 1
		}
		return m.applyPasswordFocus()
	case tea.KeyEnter:
		return m.submitPassword(deps)
	}
	var cmd tea.Cmd
	m.passwordInputs[m.passwordFocus], cmd = m.passwordInputs[m.passwordFocus].Update(msg)
	return cmd
}

func (m *profileModel) submitPassword(deps Deps) tea.Cmd {
	m.passwordErrs = map[string]string{}
	current := m.passwordInputs[0].Value()
	next := m.passwordInputs[1].Value()
	confirm := m.passwordInputs[2].Value()
	if current == "" {
		m.passwordErrs["current_password"] = "current password is required"
	}
	if validate.PasswordStrength(next) < validate.MinSignupStrength {
		m.passwordErrs["new_password"] = "new password is too weak"
	}
	if next != confirm {
		m.passwordErrs["confirm_password"] = "passwords do not match"
	}
	if len(m.passwordErrs) > 0 {
		return nil
	}
	m.changing = true
	return changePasswordCmd(deps.API, api.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
		ConfirmPassword: confirm,
	})
}

func (m *profileModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.loaded = true
		m.errMsg = ""
		m.profile = msg.profile
	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.profile = msg.profile
		m.editMode = false
		m.errMsg = ""
	case passwordDoneMsg:
		m.changing = false
		if msg.err != nil {
			var apiErr *api.APIError
			if errors.As(msg.err, &apiErr) {
				for _, name := range []string{"current_password", "new_password", "confirm_password"} {
					if fieldErr := apiErr.FieldError(name); fieldErr != "" {
						m.passwordErrs[name] = fieldErr
					}
				}
				if len(m.passwordErrs) > 0 {
					return nil
				}
			}
			m.passwordErrs["new_password"] = msg.err.Error()
			return nil
		}
		m.passwordMode = false
	}
	return nil
}

func (m *profileModel) view(width, height int) string {
	if m.passwordMode {
		return m.passwordView(width, height)
	}
	if m.editMode {
		return m.editView(width, height)
	}
	if m.loading && !m.loaded {
		return fitLines(headerStyle.Render("loading profile..."), width, height)
	}
	if !m.loaded {
		msg := "Profile is unavailable."
		if m.errMsg != "" {
			msg = m.errMsg
		}
		return fitLines(errorStyle.Render(truncateLine(msg, width)), width, height)
	}
	verified := errorStyle.Render("email not verified")
	if m.profile.EmailVerified {
		verified = successStyle.Render("email verified")
	}
	name := strings.TrimSpace(m.profile.FirstName + " " + m.profile.LastName)
	if name == "" {
		name = m.profile.Username
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Username", m.profile.Username),
		metricCard("Name", name),
		metricCard("Email", m.profile.Email),
	)
	lines := []string{
		cards,
		"",
		"  " + verified,
		"  " + labelStyle.Render("joined "+m.profile.DateJoined),
	}
	if m.profile.LastUpdated != "" {
		lines = append(lines, "  "+labelStyle.Render("updated "+m.profile.LastUpdated))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, width)))
	}
	return fitLines(strings.Join(lines, "\n"), width, height)
}

func (m *profileModel) editView(width, height int) string {
	lines := []string{cardValueStyle.Render("Edit Profile"), ""}
	for i := range m.editInputs {
		lines = append(lines, m.editInputs[i].View())
	}
	if m.saving {
		lines = append(lines, "", headerStyle.Render("saving..."))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, modalInnerWidth(width))))
	}
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *profileModel) passwordView(width, height int) string {
	names := []string{"current_password", "new_password", "confirm_password"}
	lines := []string{cardValueStyle.Render("Change Password"), ""}
	for i := range m.passwordInputs {
		lines = append(lines, m.passwordInputs[i].View())
		if fieldErr, ok := m.passwordErrs[names[i]]; ok {
			lines = append(lines, errorStyle.Render("  "+fieldErr))
		}
	}
	if m.changing {
		lines = append(lines, "", headerStyle.Render("updating..."))
	}
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *profileModel) applyEditFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.editInputs {
		if i == m.editFocus {
			cmd = m.editInputs[i].Focus()
		} else {
			m.editInputs[i].Blur()
		}
	}
	return cmd
}

func (m *profileModel) applyPasswordFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.passwordInputs {
		if i == m.passwordFocus {
			cmd = m.passwordInputs[i].Focus()
		} else {
			m.passwordInputs[i].Blur()
		}
	}
	return cmd
}

func metricCard(label, value string) string {
	content := cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}
