// Package registry holds the static model and hyperparameter catalog.
package registry

import (
	"sort"

	"github.com/mdjaved24/mlplay/internal/dataset"
)

// Param widget kinds.
const (
	KindNumber = "number"
	KindSelect = "select"
)

// ParamSchema describes one tunable hyperparameter.
type ParamSchema struct {
	Name    string
	Kind    string
	Default any // nil means "backend default"
	Min     float64
	Max     float64
	Step    float64
	Options []string
}

// Model describes one selectable model family.
type Model struct {
	Name        string
	DisplayName string
	Params      []ParamSchema
}

// Option pairs a model with the problem type it solves, for "both" lists.
type Option struct {
	Model       Model
	ProblemType string
}

var classificationModels = []Model{
	{
		Name:        "RandomForestClassifier",
		DisplayName: "Random Forest Classifier",
		Params: []ParamSchema{
			{Name: "n_estimators", Kind: KindNumber, Default: 100, Min: 1, Max: 1000},
			{Name: "max_depth", Kind: KindNumber, Default: nil, Min: 1, Max: 20},
			{Name: "min_samples_split", Kind: KindNumber, Default: 2, Min: 2, Max: 20},
			{Name: "min_samples_leaf", Kind: KindNumber, Default: 1, Min: 1, Max: 20},
			{Name: "criterion", Kind: KindSelect, Default: "gini", Options: []string{"gini", "entropy"}},
		},
	},
	{
		Name:        "KNeighborsClassifier",
		DisplayName: "K-Nearest Neighbors Classifier",
		Params: []ParamSchema{
			{Name: "n_neighbors", Kind: KindNumber, Default: 5, Min: 1, Max: 50},
			{Name: "weights", Kind: KindSelect, Default: "uniform", Options: []string{"uniform", "distance"}},
			{Name: "algorithm", Kind: KindSelect, Default: "auto", Options: []string{"auto", "ball_tree", "kd_tree", "brute"}},
		},
	},
	{
		Name:        "DecisionTreeClassifier",
		DisplayName: "Decision Tree Classifier",
		Params: []ParamSchema{
			{Name: "max_depth", Kind: KindNumber, Default: nil, Min: 1, Max: 20},
			{Name: "min_samples_split", Kind: KindNumber, Default: 2, Min: 2, Max: 20},
			{Name: "min_samples_leaf", Kind: KindNumber, Default: 1, Min: 1, Max: 20},
			{Name: "criterion", Kind: KindSelect, Default: "gini", Options: []string{"gini", "entropy"}},
		},
	},
	{
		Name:        "LogisticRegression",
		DisplayName: "Logistic Regression",
		Params: []ParamSchema{
			{Name: "C", Kind: KindNumber, Default: 1.0, Min: 0.01, Max: 10, Step: 0.01},
			{Name: "penalty", Kind: KindSelect, Default: "l2", Options: []string{"l2", "l1", "elasticnet", "none"}},
			{Name: "solver", Kind: KindSelect, Default: "lbfgs", Options: []string{"lbfgs", "liblinear", "newton-cg", "sag", "saga"}},
			{Name: "max_iter", Kind: KindNumber, Default: 100, Min: 50, Max: 1000},
		},
	},
	{
		Name:        "SVC",
		DisplayName: "Support Vector Classifier",
		Params: []ParamSchema{
			{Name: "C", Kind: KindNumber, Default: 1.0, Min: 0.01, Max: 10, Step: 0.01},
			{Name: "kernel", Kind: KindSelect, Default: "rbf", Options: []string{"linear", "poly", "rbf", "sigmoid"}},
			{Name: "gamma", Kind: KindSelect, Default: "scale", Options: []string{"scale", "auto"}},
		},
	},
}

var regressionModels = []Model{
	{
		Name:        "RandomForestRegressor",
		DisplayName: "Random Forest Regressor",
		Params: []ParamSchema{
			{Name: "n_estimators", Kind: KindNumber, Default: 100, Min: 1, Max: 1000},
			{Name: "max_depth", Kind: KindNumber, Default: nil, Min: 1, Max: 20},
			{Name: "min_samples_split", Kind: KindNumber, Default: 2, Min: 2, Max: 20},
			{Name: "min_samples_leaf", Kind: KindNumber, Default: 1, Min: 1, Max: 20},
		},
	},
	{
		Name:        "KNeighborsRegressor",
		DisplayName: "K-Nearest Neighbors Regressor",
		Params: []ParamSchema{
			{Name: "n_neighbors", Kind: KindNumber, Default: 5, Min: 1, Max: 50},
			{Name: "weights", Kind: KindSelect, Default: "uniform", Options: []string{"uniform", "distance"}},
			{Name: "algorithm", Kind: KindSelect, Default: "auto", Options: []string{"auto", "ball_tree", "kd_tree", "brute"}},
		},
	},
	{
		Name:        "DecisionTreeRegressor",
		DisplayName: "Decision Tree Regressor",
		Params: []ParamSchema{
			{Name: "max_depth", Kind: KindNumber, Default: nil, Min: 1, Max: 20},
			{Name: "min_samples_split", Kind: KindNumber, Default: 2, Min: 2, Max: 20},
			{Name: "min_samples_leaf", Kind: KindNumber, Default: 1, Min: 1, Max: 20},
		},
	},
	{
		Name:        "LinearRegression",
		DisplayName: "Linear Regression",
	},
	{
		Name:        "Ridge",
		DisplayName: "Ridge Regression",
		Params: []ParamSchema{
			{Name: "alpha", Kind: KindNumber, Default: 1.0, Min: 0.01, Max: 10, Step: 0.01},
		},
	},
	{
		Name:        "SVR",
		DisplayName: "Support Vector Regressor",
		Params: []ParamSchema{
			{Name: "C", Kind: KindNumber, Default: 1.0, Min: 0.01, Max: 10, Step: 0.01},
			{Name: "kernel", Kind: KindSelect, Default: "rbf", Options: []string{"linear", "poly", "rbf", "sigmoid"}},
			{Name: "epsilon", Kind: KindNumber, Default: 0.1, Min: 0.01, Max: 1, Step: 0.01},
		},
	},
}

// ModelsFor lists the model options for a target type. For "both" the
// classification list precedes the regression list, each option labeled
// with its problem type.
func ModelsFor(targetType string) []Option {
	switch targetType {
	case dataset.TargetClassification:
		return options(classificationModels, dataset.TargetClassification)
	case dataset.TargetRegression:
		return options(regressionModels, dataset.TargetRegression)
	case dataset.TargetBoth:
		out := options(classificationModels, dataset.TargetClassification)
		return append(out, options(regressionModels, dataset.TargetRegression)...)
	default:
		return nil
	}
}

func options(models []Model, problemType string) []Option {
	out := make([]Option, len(models))
	for i, m := range models {
		out[i] = Option{Model: m, ProblemType: problemType}
	}
	return out
}

// Lookup finds a model by name within a target type, resolving the problem
// type for ambiguous targets from the model itself.
func Lookup(targetType, name string) (Model, string, bool) {
	for _, opt := range ModelsFor(targetType) {
		if opt.Model.Name == name {
			return opt.Model, opt.ProblemType, true
		}
	}
	return Model{}, "", false
}

// Defaults seeds a parameter map from the model's schema. Parameters whose
// default is nil stay nil so the backend applies its own default.
func Defaults(m Model) map[string]any {
	params := make(map[string]any, len(m.Params))
	for _, p := range m.Params {
		params[p.Name] = p.Default
	}
	return params
}

// CoerceInput converts a raw edit into the stored parameter value: empty
// input becomes nil, everything else is kept as typed.
func CoerceInput(raw string) any {
	if raw == "" {
		return nil
	}
	return raw
}

// ParamNames returns the schema parameter names in display order.
func ParamNames(m Model) []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

// SortedModelNames lists every registered model name, for display.
func SortedModelNames() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, m := range append(append([]Model{}, classificationModels...), regressionModels...) {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}
