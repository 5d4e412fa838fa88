package registry

import (
	"testing"

	"github.com/mdjaved24/mlplay/internal/dataset"
)

func TestModelsForTargetType(t *testing.T) {
	classification := ModelsFor(dataset.TargetClassification)
	if len(classification) != 5 {
		t.Fatalf("expected 5 classification models, got %d", len(classification))
	}
	regression := ModelsFor(dataset.TargetRegression)
	if len(regression) != 6 {
		t.Fatalf("expected 6 regression models, got %d", len(regression))
	}
	both := ModelsFor(dataset.TargetBoth)
	if len(both) != len(classification)+len(regression) {
		t.Fatalf("both must merge the lists, got %d", len(both))
	}
	if both[0].ProblemType != dataset.TargetClassification {
		t.Fatalf("both must list classification first")
	}
	if ModelsFor("") != nil {
		t.Fatalf("unknown target type must return nil")
	}
}

func TestLookupResolvesProblemType(t *testing.T) {
	_, problemType, ok := Lookup(dataset.TargetBoth, "Ridge")
	if !ok || problemType != dataset.TargetRegression {
		t.Fatalf("Ridge should resolve to regression, got %q ok=%v", problemType, ok)
	}
	_, problemType, ok = Lookup(dataset.TargetBoth, "SVC")
	if !ok || problemType != dataset.TargetClassification {
		t.Fatalf("SVC should resolve to classification, got %q ok=%v", problemType, ok)
	}
	if _, _, ok := Lookup(dataset.TargetClassification, "Ridge"); ok {
		t.Fatalf("Ridge is not a classification model")
	}
}

func TestDefaultsSeedSchema(t *testing.T) {
	model, _, ok := Lookup(dataset.TargetClassification, "RandomForestClassifier")
	if !ok {
		t.Fatalf("missing RandomForestClassifier")
	}
	params := Defaults(model)
	if params["n_estimators"] != 100 {
		t.Errorf("n_estimators default = %v", params["n_estimators"])
	}
	if params["criterion"] != "gini" {
		t.Errorf("criterion default = %v", params["criterion"])
	}
	if v, present := params["max_depth"]; !present || v != nil {
		t.Errorf("max_depth must default to nil, got %v (present=%v)", v, present)
	}
}

func TestCoerceInput(t *testing.T) {
	if CoerceInput("") != nil {
		t.Errorf("empty input must coerce to nil")
	}
	if CoerceInput("0.5") != "0.5" {
		t.Errorf("non-empty input kept verbatim")
	}
}

func TestLinearRegressionHasNoParams(t *testing.T) {
	model, _, ok := Lookup(dataset.TargetRegression, "LinearRegression")
	if !ok {
		t.Fatalf("missing LinearRegression")
	}
	if len(Defaults(model)) != 0 {
		t.Fatalf("LinearRegression takes no parameters")
	}
}
