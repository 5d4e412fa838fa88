package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/charts"
	"github.com/mdjaved24/mlplay/internal/dataset"
	"github.com/mdjaved24/mlplay/internal/history"
	"github.com/mdjaved24/mlplay/internal/registry"
)

type playgroundPhase int

const (
	phasePick playgroundPhase = iota
	phasePreviewing
	phaseExplore
	phaseConfigure
	phaseTraining
	phaseResult
)

// configure-phase focus slots before the parameter list
const (
	cfgTarget = iota
	cfgFeatures
	cfgModel
	cfgEncoder
	cfgScaler
	cfgStratify
	cfgFixedCount
)

var (
	encoderOptions = []string{"LabelEncoder", "OneHotEncoder", "OrdinalEncoder", "None"}
	scalerOptions  = []string{"StandardScaler", "MinMaxScaler", "RobustScaler", "None"}
)

type playgroundModel struct {
	deps Deps

	phase  playgroundPhase
	picker filepicker.Model

	// previewSeq invalidates in-flight preview responses when a newer
	// upload starts.
	previewSeq  int
	previewRows int
	summary     dataset.Summary
	errMsg      string

	// explore state
	vizIdx  int
	col1Idx int
	col2Idx int

	// configure state
	targetIdx  int
	included   map[string]bool
	featureIdx int
	modelIdx   int
	encoderIdx int
	scalerIdx  int
	stratify   bool
	paramText  map[string]*textinput.Model
	paramPick  map[string]int
	testSize   textinput.Model
	randState  textinput.Model
	nameInput  textinput.Model
	cfgFocus   int

	// result state
	result   api.TrainResult
	elapsed  int64
	problem  string
	saveName textinput.Model
	saving   bool

	width  int
	height int
}

func newPlaygroundModel(deps Deps) *playgroundModel {
	picker := filepicker.New()
	picker.AllowedTypes = []string{".csv"}
	if home, err := os.UserHomeDir(); err == nil {
		picker.CurrentDirectory = home
	}
	m := &playgroundModel{
		deps:        deps,
		picker:      picker,
		previewRows: deps.PreviewRows,
		included:    map[string]bool{},
		paramText:   map[string]*textinput.Model{},
		paramPick:   map[string]int{},
		testSize:    newFormInput("Test size: "),
		randState:   newFormInput("Random state: "),
		nameInput:   newFormInput("Run name: "),
		saveName:    newFormInput("Model name: "),
	}
	m.testSize.SetValue(strconv.FormatFloat(deps.TestSize, 'g', -1, 64))
	m.randState.SetValue(strconv.Itoa(deps.RandomState))
	return m
}

func (m *playgroundModel) init() tea.Cmd {
	return m.picker.Init()
}

func (m *playgroundModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.Height = maxInt(5, height-4)
	for _, input := range []*textinput.Model{&m.testSize, &m.randState, &m.nameInput, &m.saveName} {
		input.Width = 24
	}
	for _, input := range m.paramText {
		input.Width = 16
	}
}

func (m *playgroundModel) help() string {
	switch m.phase {
	case phasePick:
		return "enter: open file"
	case phaseExplore:
		return "v: view  c/C: columns  +/-: rows  n: configure training  o: other file"
	case phaseConfigure:
		return "tab: next  left/right: change  space: toggle feature  enter: train  esc: back"
	case phaseResult:
		return "s: save model  b: back  o: other file"
	default:
		return ""
	}
}

func (m *playgroundModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch m.phase {
	case phasePick, phasePreviewing:
		return m.updatePickKey(msg)
	case phaseExplore:
		return m.updateExploreKey(msg)
	case phaseConfigure:
		return m.updateConfigureKey(msg)
	case phaseTraining:
		return nil
	case phaseResult:
		return m.updateResultKey(msg)
	}
	return nil
}

// updateAny forwards the picker's own messages (directory reads) while the
// pick phase is active.
func (m *playgroundModel) updateAny(msg tea.Msg) tea.Cmd {
	if m.phase != phasePick {
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

func (m *playgroundModel) updatePickKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.previewSeq++
		m.phase = phasePreviewing
		m.errMsg = ""
		return tea.Batch(cmd, previewCmd(m.deps.API, m.previewSeq, path, m.previewRows))
	}
	return cmd
}

func (m *playgroundModel) updateExploreKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "v":
		m.vizIdx = (m.vizIdx + 1) % len(charts.Modes)
		m.clampColumns()
	case "V":
		m.vizIdx--
		if m.vizIdx < 0 {
			m.vizIdx = len(charts.Modes) - 1
		}
		m.clampColumns()
	case "c":
		m.col1Idx = m.cycleColumn(m.col1Idx, 1)
	case "C":
		m.col2Idx = m.cycleColumn(m.col2Idx, 1)
	case "+", "=":
		return m.refetchPreview(m.previewRows + 5)
	case "-":
		return m.refetchPreview(m.previewRows - 5)
	case "n":
		m.enterConfigure()
	case "o":
		m.phase = phasePick
	}
	return nil
}

// refetchPreview re-requests the preview with a new row count. The bumped
// sequence number retires any response still in flight.
func (m *playgroundModel) refetchPreview(rows int) tea.Cmd {
	rows = maxInt(5, minInt(rows, 100))
	if rows == m.previewRows {
		return nil
	}
	m.previewRows = rows
	m.previewSeq++
	m.phase = phasePreviewing
	m.errMsg = ""
	return previewCmd(m.deps.API, m.previewSeq, m.summary.Path, m.previewRows)
}

func (m *playgroundModel) cycleColumn(idx, delta int) int {
	cols := charts.ColumnsFor(charts.Modes[m.vizIdx], m.summary)
	if len(cols) == 0 {
		return 0
	}
	idx += delta
	if idx < 0 {
		idx = len(cols) - 1
	}
	if idx >= len(cols) {
		idx = 0
	}
	return idx
}

func (m *playgroundModel) clampColumns() {
	cols := charts.ColumnsFor(charts.Modes[m.vizIdx], m.summary)
	if m.col1Idx >= len(cols) {
		m.col1Idx = 0
	}
	if m.col2Idx >= len(cols) {
		m.col2Idx = 0
	}
}

func (m *playgroundModel) enterConfigure() {
	m.phase = phaseConfigure
	m.cfgFocus = cfgTarget
	m.errMsg = ""
	if m.targetIdx >= len(m.summary.Columns) {
		m.targetIdx = maxInt(0, len(m.summary.Columns)-1)
	}
	if len(m.included) == 0 {
		for _, col := range m.summary.Columns {
			m.included[col] = true
		}
	}
	if m.nameInput.Value() == "" {
		m.nameInput.SetValue(strings.TrimSuffix(m.summary.Name, ".csv"))
	}
	m.syncModelChoices()
}

// targetType derives the problem type from the chosen target column.
func (m *playgroundModel) targetType() string {
	if len(m.summary.Columns) == 0 {
		return ""
	}
	col := m.summary.Columns[m.targetIdx]
	return dataset.DeriveTargetType(m.summary.ColumnTypes[col])
}

// syncModelChoices rebuilds the parameter editors for the selected model,
// seeding them from the schema defaults.
func (m *playgroundModel) syncModelChoices() {
	options := registry.ModelsFor(m.targetType())
	if len(options) == 0 {
		m.paramText = map[string]*textinput.Model{}
		m.paramPick = map[string]int{}
		return
	}
	if m.modelIdx >= len(options) {
		m.modelIdx = 0
	}
	model := options[m.modelIdx].Model
	m.paramText = map[string]*textinput.Model{}
	m.paramPick = map[string]int{}
	for _, p := range model.Params {
		switch p.Kind {
		case registry.KindSelect:
			idx := 0
			for i, opt := range p.Options {
				if def, ok := p.Default.(string); ok && opt == def {
					idx = i
				}
			}
			m.paramPick[p.Name] = idx
		default:
			input := newFormInput("")
			if p.Default != nil {
				input.SetValue(fmt.Sprint(p.Default))
			}
			input.Width = 16
			m.paramText[p.Name] = &input
		}
	}
}

func (m *playgroundModel) cfgFocusCount() int {
	options := registry.ModelsFor(m.targetType())
	params := 0
	if len(options) > 0 {
		params = len(options[m.modelIdx].Model.Params)
	}
	// fixed slots, then params, then test size, random state and run name
	return cfgFixedCount + params + 3
}

func (m *playgroundModel) updateConfigureKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.phase = phaseExplore
		return nil
	case tea.KeyTab, tea.KeyDown:
		return m.moveCfgFocus(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.moveCfgFocus(-1)
	case tea.KeyEnter:
		return m.startTraining()
	}
	options := registry.ModelsFor(m.targetType())
	switch {
	case m.cfgFocus == cfgTarget:
		switch msg.String() {
		case "left", "h":
			m.shiftTarget(-1)
		case "right", "l":
			m.shiftTarget(1)
		}
	case m.cfgFocus == cfgFeatures:
		switch msg.String() {
		case "left", "h":
			m.featureIdx = wrapIndex(m.featureIdx-1, len(m.summary.Columns))
		case "right", "l":
			m.featureIdx = wrapIndex(m.featureIdx+1, len(m.summary.Columns))
		case " ":
			col := m.summary.Columns[m.featureIdx]
			m.included[col] = !m.included[col]
		}
	case m.cfgFocus == cfgModel:
		if len(options) == 0 {
			return nil
		}
		switch msg.String() {
		case "left", "h":
			m.modelIdx = wrapIndex(m.modelIdx-1, len(options))
			m.syncModelChoices()
		case "right", "l":
			m.modelIdx = wrapIndex(m.modelIdx+1, len(options))
			m.syncModelChoices()
		}
	case m.cfgFocus == cfgEncoder:
		switch msg.String() {
		case "left", "h":
			m.encoderIdx = wrapIndex(m.encoderIdx-1, len(encoderOptions))
		case "right", "l":
			m.encoderIdx = wrapIndex(m.encoderIdx+1, len(encoderOptions))
		}
	case m.cfgFocus == cfgScaler:
		switch msg.String() {
		case "left", "h":
			m.scalerIdx = wrapIndex(m.scalerIdx-1, len(scalerOptions))
		case "right", "l":
			m.scalerIdx = wrapIndex(m.scalerIdx+1, len(scalerOptions))
		}
	case m.cfgFocus == cfgStratify:
		switch msg.String() {
		case " ", "left", "h", "right", "l":
			m.stratify = !m.stratify
		}
	default:
		return m.updateCfgInput(options, msg)
	}
	return nil
}

func (m *playgroundModel) updateCfgInput(options []registry.Option, msg tea.KeyMsg) tea.Cmd {
	paramCount := 0
	var model registry.Model
	if len(options) > 0 {
		model = options[m.modelIdx].Model
		paramCount = len(model.Params)
	}
	slot := m.cfgFocus - cfgFixedCount
	if slot < paramCount {
		p := model.Params[slot]
		if p.Kind == registry.KindSelect {
			switch msg.String() {
			case "left", "h":
				m.paramPick[p.Name] = wrapIndex(m.paramPick[p.Name]-1, len(p.Options))
			case "right", "l":
				m.paramPick[p.Name] = wrapIndex(m.paramPick[p.Name]+1, len(p.Options))
			}
			return nil
		}
		input := m.paramText[p.Name]
		if input == nil {
			return nil
		}
		updated, cmd := input.Update(msg)
		*input = updated
		return cmd
	}
	var target *textinput.Model
	switch slot - paramCount {
	case 0:
		target = &m.testSize
	case 1:
		target = &m.randState
	default:
		target = &m.nameInput
	}
	var cmd tea.Cmd
	*target, cmd = target.Update(msg)
	return cmd
}

func (m *playgroundModel) moveCfgFocus(delta int) tea.Cmd {
	m.cfgFocus = wrapIndex(m.cfgFocus+delta, m.cfgFocusCount())
	return m.applyCfgFocus()
}

func (m *playgroundModel) applyCfgFocus() tea.Cmd {
	options := registry.ModelsFor(m.targetType())
	paramCount := 0
	var model registry.Model
	if len(options) > 0 {
		model = options[m.modelIdx].Model
		paramCount = len(model.Params)
	}
	var cmd tea.Cmd
	focusInput := func(input *textinput.Model, focused bool) {
		if focused {
			cmd = input.Focus()
		} else {
			input.Blur()
		}
	}
	slot := m.cfgFocus - cfgFixedCount
	for i := 0; i < paramCount; i++ {
		p := model.Params[i]
		if input, ok := m.paramText[p.Name]; ok {
			focusInput(input, slot == i)
		}
	}
	focusInput(&m.testSize, slot == paramCount)
	focusInput(&m.randState, slot == paramCount+1)
	focusInput(&m.nameInput, slot == paramCount+2)
	return cmd
}

func (m *playgroundModel) shiftTarget(delta int) {
	if len(m.summary.Columns) == 0 {
		return
	}
	m.targetIdx = wrapIndex(m.targetIdx+delta, len(m.summary.Columns))
	m.modelIdx = 0
	m.syncModelChoices()
}

func wrapIndex(idx, count int) int {
	if count <= 0 {
		return 0
	}
	if idx < 0 {
		return count - 1
	}
	if idx >= count {
		return 0
	}
	return idx
}

// trainPayload is the configuration blob the training endpoint expects.
type trainPayload struct {
	ModelType   string         `json:"model_type"`
	ProblemType string         `json:"problem_type"`
	Features    []string       `json:"features"`
	TargetCol   string         `json:"target_column"`
	Encoder     string         `json:"encoder"`
	Scaler      string         `json:"scaler"`
	Parameters  map[string]any `json:"parameters"`
	TestSize    float64        `json:"test_size"`
	RandomState int            `json:"random_state"`
	Stratify    bool           `json:"stratify"`
}

func (m *playgroundModel) buildPayload() (trainPayload, error) {
	options := registry.ModelsFor(m.targetType())
	if len(options) == 0 {
		return trainPayload{}, fmt.Errorf("the selected target column is not trainable")
	}
	opt := options[m.modelIdx]
	target := m.summary.Columns[m.targetIdx]

	features := make([]string, 0, len(m.summary.Columns))
	for _, col := range m.summary.Columns {
		if col != target && m.included[col] {
			features = append(features, col)
		}
	}
	if len(features) == 0 {
		return trainPayload{}, fmt.Errorf("select at least one feature column")
	}

	params := map[string]any{}
	for _, p := range opt.Model.Params {
		switch p.Kind {
		case registry.KindSelect:
			params[p.Name] = p.Options[m.paramPick[p.Name]]
		default:
			raw := strings.TrimSpace(m.paramText[p.Name].Value())
			if raw == "" {
				continue
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return trainPayload{}, fmt.Errorf("%s must be a number", p.Name)
			}
			if p.Max > p.Min && (value < p.Min || value > p.Max) {
				return trainPayload{}, fmt.Errorf("%s must be between %g and %g", p.Name, p.Min, p.Max)
			}
			if value == float64(int(value)) {
				params[p.Name] = int(value)
			} else {
				params[p.Name] = value
			}
		}
	}

	testSize, err := strconv.ParseFloat(strings.TrimSpace(m.testSize.Value()), 64)
	if err != nil || testSize <= 0 || testSize >= 1 {
		return trainPayload{}, fmt.Errorf("test size must be between 0 and 1")
	}
	randomState, err := strconv.Atoi(strings.TrimSpace(m.randState.Value()))
	if err != nil {
		return trainPayload{}, fmt.Errorf("random state must be an integer")
	}

	return trainPayload{
		ModelType:   opt.Model.Name,
		Encoder:     encoderOptions[m.encoderIdx],
		Scaler:      scalerOptions[m.scalerIdx],
		Stratify:    m.stratify,
		ProblemType: opt.ProblemType,
		Features:    features,
		TargetCol:   target,
		Parameters:  params,
		TestSize:    testSize,
		RandomState: randomState,
	}, nil
}

func (m *playgroundModel) startTraining() tea.Cmd {
	payload, err := m.buildPayload()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.errMsg = "give the run a name"
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.problem = payload.ProblemType
	m.phase = phaseTraining
	return trainCmd(m.deps.API, m.summary.Path, name, string(raw))
}

func (m *playgroundModel) updateResultKey(msg tea.KeyMsg) tea.Cmd {
	if m.saving {
		return nil
	}
	if m.saveName.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.saveName.Blur()
			return nil
		case tea.KeyEnter:
			return m.saveModel()
		}
		var cmd tea.Cmd
		m.saveName, cmd = m.saveName.Update(msg)
		return cmd
	}
	switch msg.String() {
	case "s":
		if m.saveName.Value() == "" {
			m.saveName.SetValue(m.result.Name)
		}
		return m.saveName.Focus()
	case "b":
		m.phase = phaseConfigure
		m.cfgFocus = cfgTarget
	case "o":
		m.phase = phasePick
	}
	return nil
}

func (m *playgroundModel) saveModel() tea.Cmd {
	name := strings.TrimSpace(m.saveName.Value())
	if name == "" {
		m.errMsg = "give the model a name"
		return nil
	}
	payload, err := m.buildPayload()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.saving = true
	return saveModelCmd(m.deps.API, api.SaveModelRequest{
		Name:                  name,
		ModelCacheKey:         m.result.ModelCacheKey,
		EncoderCacheKey:       m.result.EncoderCacheKey,
		ScalerCacheKey:        m.result.ScalerCacheKey,
		TargetEncoderCacheKey: m.result.TargetEncoderCacheKey,
		Dataset:               m.result.Dataset,
		Config:                string(raw),
	})
}

func (m *playgroundModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case previewMsg:
		if msg.seq != m.previewSeq {
			return nil
		}
		if msg.err != nil {
			m.phase = phasePick
			m.errMsg = msg.err.Error()
			return nil
		}
		m.summary = msg.summary
		m.errMsg = ""
		m.phase = phaseExplore
		m.vizIdx = 0
		m.col1Idx = 0
		m.col2Idx = 0
		m.included = map[string]bool{}
		m.targetIdx = maxInt(0, len(m.summary.Columns)-1)
		m.encoderIdx = 0
		m.scalerIdx = 0
		m.stratify = false
	case trainDoneMsg:
		if msg.err != nil {
			// keep the form so the config can be fixed and resubmitted
			m.phase = phaseConfigure
			m.errMsg = msg.err.Error()
			return nil
		}
		m.result = msg.result
		m.elapsed = msg.elapsed.Milliseconds()
		m.phase = phaseResult
		m.saveName.SetValue("")
		m.saveName.Blur()
		return recordRunCmd(m.deps.History, m.runRecord())
	case modelSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.errMsg = ""
		m.saveName.Blur()
	case runRecordedMsg:
		if msg.err != nil {
			m.deps.Log.Warn().Err(msg.err).Msg("failed to record run history")
		}
	}
	return nil
}

func (m *playgroundModel) runRecord() history.Run {
	metric := m.result.Accuracy.AccuracyScore
	if m.problem == dataset.TargetRegression {
		metric = m.result.Accuracy.R2Score
	}
	target := ""
	if m.targetIdx < len(m.summary.Columns) {
		target = m.summary.Columns[m.targetIdx]
	}
	modelName := ""
	if options := registry.ModelsFor(m.targetType()); len(options) > 0 && m.modelIdx < len(options) {
		modelName = options[m.modelIdx].Model.Name
	}
	return history.Run{
		Dataset:     m.summary.Name,
		Model:       modelName,
		ProblemType: m.problem,
		Target:      target,
		Metric:      metric,
		DurationMs:  m.elapsed,
	}
}

func (m *playgroundModel) view(width, height int) string {
	switch m.phase {
	case phasePick:
		lines := []string{labelStyle.Render("Pick a CSV dataset to upload:"), "", m.picker.View()}
		if m.errMsg != "" {
			lines = append(lines, errorStyle.Render(truncateLine(m.errMsg, width)))
		}
		return fitLines(strings.Join(lines, "\n"), width, height)
	case phasePreviewing:
		return fitLines(headerStyle.Render("uploading and profiling dataset..."), width, height)
	case phaseExplore:
		return fitLines(m.exploreView(width), width, height)
	case phaseConfigure:
		return fitLines(m.configureView(width), width, height)
	case phaseTraining:
		return fitLines(headerStyle.Render("training..."), width, height)
	case phaseResult:
		return fitLines(m.resultView(width), width, height)
	}
	return fitLines("", width, height)
}

func (m *playgroundModel) exploreView(width int) string {
	mode := charts.Modes[m.vizIdx]
	cols := charts.ColumnsFor(mode, m.summary)
	header := fmt.Sprintf("%s  rows=%d cols=%d  view=%s", m.summary.Name, len(m.summary.Rows), len(m.summary.Columns), mode)
	lines := []string{headerStyle.Render(truncateLine(header, width))}

	switch mode {
	case charts.ModePreview:
		lines = append(lines, m.previewTable(width))
	case charts.ModeStats:
		lines = append(lines, m.statsTable(width))
	default:
		col1, col2 := "", ""
		if len(cols) > 0 {
			col1 = cols[minInt(m.col1Idx, len(cols)-1)]
			if mode == charts.ModeBar || mode == charts.ModeLine || mode == charts.ModeScatter {
				col2 = cols[minInt(m.col2Idx, len(cols)-1)]
				if col2 == col1 {
					col2 = ""
				}
			}
		}
		chart := charts.Build(mode, m.summary, col1, col2)
		if chart == nil {
			lines = append(lines, labelStyle.Render("No drawable columns for this view. Press c to change column, v to change view."))
		} else {
			lines = append(lines, charts.Render(chart, width, 10))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *playgroundModel) previewTable(width int) string {
	colWidth := 14
	var b strings.Builder
	header := make([]string, len(m.summary.Columns))
	for i, col := range m.summary.Columns {
		header[i] = fmt.Sprintf("%-*s", colWidth, truncateLine(col, colWidth))
	}
	b.WriteString(cardValueStyle.Render(truncateLine(strings.Join(header, " "), width)))
	b.WriteByte('\n')
	for _, row := range m.summary.Rows {
		cells := make([]string, len(m.summary.Columns))
		for i, col := range m.summary.Columns {
			cells[i] = fmt.Sprintf("%-*s", colWidth, truncateLine(dataset.CellString(row[col]), colWidth))
		}
		b.WriteString(truncateLine(strings.Join(cells, " "), width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *playgroundModel) statsTable(width int) string {
	numeric := m.summary.NumericColumns()
	if len(numeric) == 0 || len(m.summary.Stats) == 0 {
		return labelStyle.Render("No numeric columns to describe.")
	}
	colWidth := 12
	var b strings.Builder
	header := make([]string, 0, len(numeric)+1)
	header = append(header, fmt.Sprintf("%-6s", ""))
	for _, col := range numeric {
		header = append(header, fmt.Sprintf("%-*s", colWidth, truncateLine(col, colWidth)))
	}
	b.WriteString(cardValueStyle.Render(truncateLine(strings.Join(header, " "), width)))
	b.WriteByte('\n')
	for i, stat := range dataset.StatNames {
		cells := []string{fmt.Sprintf("%-6s", stat)}
		for _, col := range numeric {
			value := ""
			if stats, ok := m.summary.Stats[col]; ok && i < len(stats) {
				value = strconv.FormatFloat(stats[i], 'g', 6, 64)
			}
			cells = append(cells, fmt.Sprintf("%-*s", colWidth, value))
		}
		b.WriteString(truncateLine(strings.Join(cells, " "), width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *playgroundModel) configureView(width int) string {
	target := ""
	if m.targetIdx < len(m.summary.Columns) {
		target = m.summary.Columns[m.targetIdx]
	}
	targetType := m.targetType()
	typeLabel := targetType
	if typeLabel == "" {
		typeLabel = "not trainable"
	}

	lines := []string{cardValueStyle.Render("Training Setup"), ""}
	lines = append(lines, m.cfgLine(cfgTarget, fmt.Sprintf("Target: %s (%s)", target, typeLabel)))
	lines = append(lines, m.cfgLine(cfgFeatures, "Features: "+m.featureSummary(target)))

	options := registry.ModelsFor(targetType)
	modelLabel := "none available"
	var model registry.Model
	if len(options) > 0 {
		opt := options[minInt(m.modelIdx, len(options)-1)]
		model = opt.Model
		modelLabel = fmt.Sprintf("%s (%s)", opt.Model.DisplayName, opt.ProblemType)
	}
	lines = append(lines, m.cfgLine(cfgModel, "Model: "+modelLabel))
	lines = append(lines, m.cfgLine(cfgEncoder, "Encoder: "+encoderOptions[m.encoderIdx]))
	lines = append(lines, m.cfgLine(cfgScaler, "Scaler: "+scalerOptions[m.scalerIdx]))
	stratifyMark := " "
	if m.stratify {
		stratifyMark = "x"
	}
	lines = append(lines, m.cfgLine(cfgStratify, fmt.Sprintf("Stratify split: [%s]", stratifyMark)))

	for i, p := range model.Params {
		slot := cfgFixedCount + i
		var value string
		if p.Kind == registry.KindSelect {
			value = p.Options[m.paramPick[p.Name]]
		} else if input, ok := m.paramText[p.Name]; ok {
			value = input.View()
		}
		lines = append(lines, m.cfgLine(slot, fmt.Sprintf("  %s: %s", p.Name, value)))
	}
	paramCount := len(model.Params)
	lines = append(lines,
		m.cfgLine(cfgFixedCount+paramCount, m.testSize.View()),
		m.cfgLine(cfgFixedCount+paramCount+1, m.randState.View()),
		m.cfgLine(cfgFixedCount+paramCount+2, m.nameInput.View()),
	)
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(truncateLine(m.errMsg, width)))
	}
	return strings.Join(lines, "\n")
}

func (m *playgroundModel) cfgLine(slot int, text string) string {
	if m.cfgFocus == slot {
		return focusedStyle.Render("> ") + text
	}
	return "  " + text
}

func (m *playgroundModel) featureSummary(target string) string {
	parts := make([]string, 0, len(m.summary.Columns))
	for i, col := range m.summary.Columns {
		if col == target {
			continue
		}
		mark := " "
		if m.included[col] {
			mark = "x"
		}
		cell := fmt.Sprintf("[%s] %s", mark, col)
		if m.cfgFocus == cfgFeatures && i == m.featureIdx {
			cell = focusedStyle.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "  ")
}

func (m *playgroundModel) resultView(width int) string {
	acc := m.result.Accuracy
	var cards []string
	if m.problem == dataset.TargetClassification {
		cards = []string{
			metricCard("Accuracy", fmt.Sprintf("%.2f%%", acc.AccuracyScore*100)),
			metricCard("Precision", fmt.Sprintf("%.3f", acc.Precision)),
			metricCard("Recall", fmt.Sprintf("%.3f", acc.Recall)),
			metricCard("F1", fmt.Sprintf("%.3f", acc.F1Score)),
		}
	} else {
		cards = []string{
			metricCard("R2", fmt.Sprintf("%.3f", acc.R2Score)),
			metricCard("MSE", fmt.Sprintf("%.4g", acc.MeanSquaredError)),
			metricCard("MAE", fmt.Sprintf("%.4g", acc.MeanAbsoluteError)),
			metricCard("RMSE", fmt.Sprintf("%.4g", acc.RootMeanSquared)),
		}
	}
	lines := []string{cardValueStyle.Render("Results: " + m.result.Name)}
	if width < 80 {
		lines = append(lines, strings.Join(cards, "\n"))
	} else {
		lines = append(lines, joinCards(cards))
	}
	lines = append(lines, labelStyle.Render(fmt.Sprintf("trained in %dms", m.elapsed)))

	if cm := m.result.ConfusionMatrix; cm != nil && len(cm.Matrix) > 0 {
		lines = append(lines, "", m.confusionBlock(cm, width))
	}
	if block := m.importanceBlock(width); block != "" {
		lines = append(lines, "", block)
	}
	lines = append(lines, "", m.saveName.View())
	if m.saving {
		lines = append(lines, headerStyle.Render("saving..."))
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(truncateLine(m.errMsg, width)))
	}
	return strings.Join(lines, "\n")
}

func (m *playgroundModel) confusionBlock(cm *api.ConfusionMatrix, width int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Confusion matrix (rows actual, columns predicted)"))
	b.WriteByte('\n')
	header := fmt.Sprintf("%-12s", "")
	for _, label := range cm.Labels {
		header += fmt.Sprintf("%-12s", truncateLine(label, 11))
	}
	b.WriteString(truncateLine(header, width))
	b.WriteByte('\n')
	for i, row := range cm.Matrix {
		label := ""
		if i < len(cm.Labels) {
			label = cm.Labels[i]
		}
		line := fmt.Sprintf("%-12s", truncateLine(label, 11))
		for _, cell := range row {
			line += fmt.Sprintf("%-12d", cell)
		}
		b.WriteString(truncateLine(line, width))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// importanceBlock hides feature importance when the backend omits it or
// reports all-zero weights.
func (m *playgroundModel) importanceBlock(width int) string {
	fi := m.result.Accuracy.FeatureImportance
	if fi == nil || len(fi.Values) == 0 {
		return ""
	}
	nonZero := false
	for _, v := range fi.Values {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return ""
	}
	chart := &charts.Chart{
		Mode:   charts.ModeBar,
		Title:  "Feature importance",
		Labels: fi.Labels,
		Values: fi.Values,
	}
	return charts.Render(chart, width, 0)
}
