package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/validate"
)

var problemTypeFilters = []string{"all", "classification", "regression"}

type modelsModel struct {
	deps Deps

	models   []api.SavedModel
	filtered []api.SavedModel
	loaded   bool
	loading  bool
	errMsg   string

	tbl        table.Model
	query      textinput.Model
	filterMode bool
	typeFilter int

	predictMode   bool
	predictTarget api.SavedModel
	predictInputs []textinput.Model
	predictFocus  int
	predicting    bool
	prediction    string
	predictErr    string

	confirmDelete bool
	deleteTarget  api.SavedModel
	deleting      bool

	downloading bool
	statusNote  string

	width  int
	height int
}

func newModelsModel(deps Deps) *modelsModel {
	query := newFormInput("Search: ")
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Algorithm", Width: 24},
		{Title: "Type", Width: 14},
		{Title: "Accuracy", Width: 9},
		{Title: "Target", Width: 16},
		{Title: "Created", Width: 12},
	}
	tbl := table.New(table.WithColumns(columns), table.WithHeight(10))
	tbl.SetStyles(modelTableStyles())
	tbl.Focus()
	return &modelsModel{deps: deps, tbl: tbl, query: query}
}

func modelTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *modelsModel) startLoad() {
	m.loading = true
	m.errMsg = ""
}

func (m *modelsModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.tbl.SetWidth(width)
	m.tbl.SetHeight(maxInt(3, height-4))
	promptWidth := lipgloss.Width(m.query.Prompt)
	m.query.Width = maxInt(10, minInt(width-promptWidth-2, 48))
	for i := range m.predictInputs {
		pw := lipgloss.Width(m.predictInputs[i].Prompt)
		m.predictInputs[i].Width = maxInt(10, modalInnerWidth(width)-pw)
	}
}

func (m *modelsModel) help() string {
	switch {
	case m.predictMode:
		return "tab: next field  enter: predict  esc: close"
	case m.confirmDelete:
		return "y: delete  n/esc: keep"
	case m.filterMode:
		return "enter: apply  esc: cancel"
	default:
		return "/: search  t: type filter  enter: predict  d: download  x: delete  r: refresh"
	}
}

func (m *modelsModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.predictMode:
		return m.updatePredictKey(msg)
	case m.confirmDelete:
		return m.updateConfirmKey(msg)
	case m.filterMode:
		return m.updateFilterKey(msg)
	}
	switch msg.String() {
	case "/":
		m.filterMode = true
		return m.query.Focus()
	case "t":
		m.typeFilter = (m.typeFilter + 1) % len(problemTypeFilters)
		m.applyFilter()
		return nil
	case "r":
		if m.loading {
			return nil
		}
		m.startLoad()
		return modelsCmd(m.deps.API)
	case "d":
		model, ok := m.selected()
		if !ok || m.downloading {
			return nil
		}
		m.downloading = true
		m.errMsg = ""
		return downloadCmd(m.deps.API, model.ID, m.deps.DownloadDir)
	case "x":
		model, ok := m.selected()
		if !ok {
			return nil
		}
		m.confirmDelete = true
		m.deleteTarget = model
		return nil
	case "enter":
		model, ok := m.selected()
		if !ok {
			return nil
		}
		return m.openPredict(model)
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return cmd
}

func (m *modelsModel) updateFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.query.Blur()
		return nil
	case tea.KeyEnter:
		m.filterMode = false
		m.query.Blur()
		m.applyFilter()
		return nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return cmd
}

func (m *modelsModel) updateConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y":
		m.confirmDelete = false
		m.deleting = true
		return deleteModelCmd(m.deps.API, m.deleteTarget.ID)
	case "n", "esc":
		m.confirmDelete = false
	}
	return nil
}

func (m *modelsModel) openPredict(model api.SavedModel) tea.Cmd {
	m.predictMode = true
	m.predictTarget = model
	m.prediction = ""
	m.predictErr = ""
	m.predictFocus = 0
	m.predictInputs = make([]textinput.Model, len(model.Features))
	for i, feature := range model.Features {
		prompt := feature
		if kind, ok := model.FeatureTypes[feature]; ok && kind != "" {
			prompt = fmt.Sprintf("%s (%s)", feature, kind)
		}
		m.predictInputs[i] = newFormInput(prompt + ": ")
	}
	m.setSize(m.width, m.height)
	return m.applyPredictFocus()
}

func (m *modelsModel) updatePredictKey(msg tea.KeyMsg) tea.Cmd {
	if m.predicting {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.predictMode = false
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.predictFocus = (m.predictFocus + 1) % maxInt(1, len(m.predictInputs))
		return m.applyPredictFocus()
	case tea.KeyShiftTab, tea.KeyUp:
		m.predictFocus--
		if m.predictFocus < 0 {
			m.predictFocus = maxInt(0, len(m.predictInputs)-1)
		}
		return m.applyPredictFocus()
	case tea.KeyEnter:
		return m.submitPredict()
	}
	if len(m.predictInputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.predictInputs[m.predictFocus], cmd = m.predictInputs[m.predictFocus].Update(msg)
	return cmd
}

func (m *modelsModel) submitPredict() tea.Cmd {
	inputs := make(map[string]string, len(m.predictTarget.Features))
	values := make([]string, len(m.predictTarget.Features))
	for i, feature := range m.predictTarget.Features {
		value := strings.TrimSpace(m.predictInputs[i].Value())
		if value == "" {
			m.predictErr = "fill in every feature"
			return nil
		}
		inputs[feature] = value
		values[i] = value
	}
	m.predictErr = ""
	m.predicting = true
	return predictCmd(m.deps.API, m.predictTarget.ID, api.PredictRequest{
		Inputs:  inputs,
		Values:  values,
		Columns: m.predictTarget.Features,
	})
}

func (m *modelsModel) applyPredictFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.predictInputs {
		if i == m.predictFocus {
			cmd = m.predictInputs[i].Focus()
		} else {
			m.predictInputs[i].Blur()
		}
	}
	return cmd
}

func (m *modelsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case modelsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.loaded = true
		m.errMsg = ""
		m.models = msg.models
		m.applyFilter()
	case predictMsg:
		m.predicting = false
		if msg.err != nil {
			m.predictErr = msg.err.Error()
			return nil
		}
		m.predictErr = ""
		m.prediction = msg.prediction
	case downloadDoneMsg:
		m.downloading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.errMsg = ""
		m.statusNote = "saved to " + msg.path
	case modelDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		kept := make([]api.SavedModel, 0, len(m.models))
		for _, model := range m.models {
			if model.ID != msg.id {
				kept = append(kept, model)
			}
		}
		m.models = kept
		m.applyFilter()
	}
	return nil
}

func (m *modelsModel) applyFilter() {
	m.filtered = validate.FilterModels(m.models, m.query.Value(), problemTypeFilters[m.typeFilter])
	rows := make([]table.Row, len(m.filtered))
	for i, model := range m.filtered {
		rows[i] = table.Row{
			model.Name,
			model.Algorithm,
			model.ProblemType,
			fmt.Sprintf("%.1f%%", model.Accuracy*100),
			model.TargetColumn,
			shortDate(model.CreatedAt),
		}
	}
	m.tbl.SetRows(rows)
	m.tbl.GotoTop()
}

func (m *modelsModel) selected() (api.SavedModel, bool) {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return api.SavedModel{}, false
	}
	return m.filtered[idx], true
}

func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func (m *modelsModel) view(width, height int) string {
	if m.predictMode {
		return m.predictView(width, height)
	}
	if m.confirmDelete {
		return m.confirmView(width, height)
	}
	if m.loading && !m.loaded {
		return fitLines(headerStyle.Render("loading models..."), width, height)
	}
	lines := []string{m.filterLine()}
	switch {
	case !m.loaded && m.errMsg != "":
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, width)))
	case len(m.models) == 0:
		lines = append(lines, "", labelStyle.Render("No saved models yet. Train one in the Playground."))
	case len(m.filtered) == 0:
		lines = append(lines, "", labelStyle.Render("No models match the filter."))
	default:
		lines = append(lines, tableMutedStyle.Render(m.tbl.View()))
	}
	if m.downloading {
		lines = append(lines, headerStyle.Render("downloading..."))
	}
	if m.statusNote != "" {
		lines = append(lines, successStyle.Render(truncateLine(m.statusNote, width)))
	}
	if m.loaded && m.errMsg != "" {
		lines = append(lines, errorStyle.Render(truncateLine(m.errMsg, width)))
	}
	return fitLines(strings.Join(lines, "\n"), width, height)
}

func (m *modelsModel) filterLine() string {
	if m.filterMode {
		return m.query.View()
	}
	query := m.query.Value()
	if query == "" {
		query = "none"
	}
	return headerStyle.Render(fmt.Sprintf("Filter: query=%s  type=%s  models=%d/%d",
		query, problemTypeFilters[m.typeFilter], len(m.filtered), len(m.models)))
}

func (m *modelsModel) confirmView(width, height int) string {
	body := []string{
		cardValueStyle.Render("Delete Model"),
		"",
		fmt.Sprintf("Delete %q for good?", m.deleteTarget.Name),
		"",
		labelStyle.Render("y: delete  n: keep"),
	}
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *modelsModel) predictView(width, height int) string {
	lines := []string{
		cardValueStyle.Render("Predict with " + m.predictTarget.Name),
		labelStyle.Render(fmt.Sprintf("%s, predicts %s", m.predictTarget.Algorithm, m.predictTarget.TargetColumn)),
		"",
	}
	for i := range m.predictInputs {
		lines = append(lines, m.predictInputs[i].View())
	}
	if m.predicting {
		lines = append(lines, "", headerStyle.Render("predicting..."))
	}
	if m.prediction != "" {
		lines = append(lines, "", successStyle.Render(m.predictTarget.TargetColumn+": "+m.prediction))
	}
	if m.predictErr != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.predictErr, modalInnerWidth(width))))
	}
	box := modalStyle.Width(modalWidth(width)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
