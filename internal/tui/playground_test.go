package tui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/dataset"
)

func irisSummary() dataset.Summary {
	return dataset.Summary{
		Path:    "/tmp/iris.csv",
		Name:    "iris.csv",
		Columns: []string{"sepal_length", "petal_width", "species"},
		ColumnTypes: map[string]string{
			"sepal_length": dataset.TypeNumeric,
			"petal_width":  dataset.TypeNumeric,
			"species":      dataset.TypeCategorical,
		},
	}
}

func newTestPlayground() *playgroundModel {
	return newPlaygroundModel(Deps{PreviewRows: 10, TestSize: 0.2, RandomState: 42})
}

func TestPreviewEntersExplore(t *testing.T) {
	m := newTestPlayground()
	m.previewSeq = 1
	m.phase = phasePreviewing

	m.update(previewMsg{seq: 1, summary: irisSummary()})

	if m.phase != phaseExplore {
		t.Fatalf("phase = %v, want %v", m.phase, phaseExplore)
	}
	if got := m.summary.Columns[m.targetIdx]; got != "species" {
		t.Fatalf("default target = %q, want last column", got)
	}
}

func TestStalePreviewDiscarded(t *testing.T) {
	m := newTestPlayground()
	m.previewSeq = 2
	m.phase = phasePreviewing

	m.update(previewMsg{seq: 1, summary: irisSummary()})

	if m.phase != phasePreviewing {
		t.Fatalf("phase = %v, stale response should be ignored", m.phase)
	}
	if len(m.summary.Columns) != 0 {
		t.Fatalf("stale summary applied: %v", m.summary.Columns)
	}
}

func TestRefetchPreviewBumpsSequenceAndClamps(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.phase = phaseExplore
	m.previewSeq = 1

	if cmd := m.refetchPreview(m.previewRows + 5); cmd == nil {
		t.Fatalf("expected a preview command")
	}
	if m.previewSeq != 2 || m.previewRows != 15 || m.phase != phasePreviewing {
		t.Fatalf("seq=%d rows=%d phase=%v", m.previewSeq, m.previewRows, m.phase)
	}

	m.previewRows = 5
	if cmd := m.refetchPreview(0); cmd != nil {
		t.Fatalf("row count should clamp at the minimum without refetching")
	}
}

func TestPreviewFailureReturnsToPick(t *testing.T) {
	m := newTestPlayground()
	m.previewSeq = 1
	m.phase = phasePreviewing

	m.update(previewMsg{seq: 1, err: errors.New("unsupported file")})

	if m.phase != phasePick {
		t.Fatalf("phase = %v, want %v", m.phase, phasePick)
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}
}

func TestBuildPayloadForCategoricalTarget(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.enterConfigure()

	payload, err := m.buildPayload()
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	if payload.ProblemType != dataset.TargetClassification {
		t.Fatalf("problem type = %q", payload.ProblemType)
	}
	if payload.TargetCol != "species" {
		t.Fatalf("target = %q", payload.TargetCol)
	}
	for _, f := range payload.Features {
		if f == payload.TargetCol {
			t.Fatalf("target leaked into features: %v", payload.Features)
		}
	}
	if len(payload.Features) != 2 {
		t.Fatalf("features = %v", payload.Features)
	}
	if payload.TestSize != 0.2 || payload.RandomState != 42 {
		t.Fatalf("split defaults not applied: %v/%v", payload.TestSize, payload.RandomState)
	}
	if got, ok := payload.Parameters["n_estimators"].(int); !ok || got != 100 {
		t.Fatalf("n_estimators = %v, want seeded default 100", payload.Parameters["n_estimators"])
	}
	if _, ok := payload.Parameters["max_depth"]; ok {
		t.Fatalf("empty numeric parameter should be omitted so the backend default applies")
	}
	if payload.Encoder != "LabelEncoder" || payload.Scaler != "StandardScaler" || payload.Stratify {
		t.Fatalf("preprocessing defaults = %q/%q/%v", payload.Encoder, payload.Scaler, payload.Stratify)
	}
}

func TestBuildPayloadCarriesPreprocessingChoices(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.enterConfigure()
	m.encoderIdx = 1 // OneHotEncoder
	m.scalerIdx = 1  // MinMaxScaler
	m.stratify = true

	payload, err := m.buildPayload()
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	if payload.Encoder != "OneHotEncoder" || payload.Scaler != "MinMaxScaler" || !payload.Stratify {
		t.Fatalf("preprocessing = %q/%q/%v", payload.Encoder, payload.Scaler, payload.Stratify)
	}
}

func TestPayloadUsesBackendFieldNames(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.enterConfigure()

	payload, err := m.buildPayload()
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"model_type"`, `"encoder"`, `"scaler"`, `"stratify"`, `"target_column"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("payload missing %s: %s", key, raw)
		}
	}
	if strings.Contains(string(raw), `"model_name"`) {
		t.Fatalf("payload carries a key the backend does not read: %s", raw)
	}
}

func TestBuildPayloadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*playgroundModel)
		want   string
	}{
		{"no features", func(m *playgroundModel) {
			m.included["sepal_length"] = false
			m.included["petal_width"] = false
		}, "at least one feature"},
		{"param not a number", func(m *playgroundModel) {
			m.paramText["n_estimators"].SetValue("many")
		}, "must be a number"},
		{"param out of range", func(m *playgroundModel) {
			m.paramText["n_estimators"].SetValue("5000")
		}, "must be between"},
		{"bad test size", func(m *playgroundModel) {
			m.testSize.SetValue("1.5")
		}, "test size"},
		{"bad random state", func(m *playgroundModel) {
			m.randState.SetValue("pi")
		}, "random state"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestPlayground()
			m.summary = irisSummary()
			m.enterConfigure()
			tc.mutate(m)

			if _, err := m.buildPayload(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestTrainFailureKeepsConfigureForm(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.enterConfigure()
	m.phase = phaseTraining

	m.update(trainDoneMsg{err: errors.New("training failed: singular matrix")})

	if m.phase != phaseConfigure {
		t.Fatalf("phase = %v, want %v", m.phase, phaseConfigure)
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}
	if !m.included["sepal_length"] {
		t.Fatalf("feature selection should survive a failed run")
	}
}

func TestTrainSuccessShowsResultAndRecordsRun(t *testing.T) {
	m := newTestPlayground()
	m.summary = irisSummary()
	m.enterConfigure()
	m.problem = dataset.TargetClassification
	m.phase = phaseTraining

	cmd := m.update(trainDoneMsg{result: api.TrainResult{Accuracy: api.AccuracyReport{AccuracyScore: 0.93}}, elapsed: 1200000000})

	if m.phase != phaseResult {
		t.Fatalf("phase = %v, want %v", m.phase, phaseResult)
	}
	if cmd == nil {
		t.Fatalf("expected a run-record command")
	}
	run := m.runRecord()
	if run.Dataset != "iris.csv" || run.Target != "species" {
		t.Fatalf("run = %+v", run)
	}
	if run.Metric != 0.93 {
		t.Fatalf("metric = %v, want classification accuracy", run.Metric)
	}
}
