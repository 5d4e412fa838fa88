package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mdjaved24/mlplay/internal/api"
)

func sampleModels() []api.SavedModel {
	return []api.SavedModel{
		{ID: 1, Name: "Iris Classifier", Algorithm: "RandomForestClassifier", ProblemType: "classification", Accuracy: 0.93, TargetColumn: "species", CreatedAt: "2026-08-01T10:00:00Z"},
		{ID: 2, Name: "House Prices", Algorithm: "LinearRegression", ProblemType: "regression", Accuracy: 0.81, TargetColumn: "price", CreatedAt: "2026-08-02T10:00:00Z"},
		{ID: 3, Name: "Spam Detector", Algorithm: "SVC", ProblemType: "classification", Accuracy: 0.97, TargetColumn: "label", CreatedAt: "2026-08-03T10:00:00Z"},
	}
}

func TestModelsLoadAndFilter(t *testing.T) {
	m := newModelsModel(Deps{})
	m.startLoad()

	m.update(modelsMsg{models: sampleModels()})

	if m.loading || !m.loaded {
		t.Fatalf("loading=%v loaded=%v after response", m.loading, m.loaded)
	}
	if len(m.filtered) != 3 {
		t.Fatalf("filtered = %d, want all models", len(m.filtered))
	}

	m.query.SetValue("iris")
	m.applyFilter()
	if len(m.filtered) != 1 || m.filtered[0].ID != 1 {
		t.Fatalf("query filter gave %v", m.filtered)
	}

	m.query.SetValue("")
	m.typeFilter = 2 // regression
	m.applyFilter()
	if len(m.filtered) != 1 || m.filtered[0].ID != 2 {
		t.Fatalf("type filter gave %v", m.filtered)
	}
}

func TestModelsLoadFailureShowsError(t *testing.T) {
	m := newModelsModel(Deps{})
	m.startLoad()

	m.update(modelsMsg{err: errors.New("backend unavailable")})

	if m.loading {
		t.Fatalf("loading should clear")
	}
	if m.errMsg != "backend unavailable" {
		t.Fatalf("errMsg = %q", m.errMsg)
	}
}

func TestModelDeletionRemovesRow(t *testing.T) {
	m := newModelsModel(Deps{})
	m.update(modelsMsg{models: sampleModels()})
	m.deleting = true

	m.update(modelDeletedMsg{id: 2})

	if m.deleting {
		t.Fatalf("deleting should clear")
	}
	if len(m.models) != 2 {
		t.Fatalf("models = %d, want 2", len(m.models))
	}
	for _, model := range m.models {
		if model.ID == 2 {
			t.Fatalf("deleted model still present")
		}
	}
}

func TestDownloadNotesTargetPath(t *testing.T) {
	m := newModelsModel(Deps{})
	m.downloading = true

	m.update(downloadDoneMsg{path: "/home/ava/Downloads/iris.pkl"})

	if m.downloading {
		t.Fatalf("downloading should clear")
	}
	if !strings.Contains(m.statusNote, "/home/ava/Downloads/iris.pkl") {
		t.Fatalf("statusNote = %q", m.statusNote)
	}
}

func TestPredictionResultAndFailure(t *testing.T) {
	m := newModelsModel(Deps{})
	m.predicting = true
	m.update(predictMsg{prediction: "setosa"})
	if m.prediction != "setosa" || m.predictErr != "" {
		t.Fatalf("prediction=%q err=%q", m.prediction, m.predictErr)
	}

	m.predicting = true
	m.update(predictMsg{err: errors.New("value for sepal_length is not numeric")})
	if m.predictErr == "" {
		t.Fatalf("expected a prediction error")
	}
}

func TestShortDate(t *testing.T) {
	if got := shortDate("2026-08-01T10:00:00Z"); got != "2026-08-01" {
		t.Fatalf("shortDate = %q", got)
	}
	if got := shortDate("n/a"); got != "n/a" {
		t.Fatalf("shortDate should pass short strings through, got %q", got)
	}
}
