package charts

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mdjaved24/mlplay/internal/dataset"
)

func sampleSummary() dataset.Summary {
	return dataset.Summary{
		Columns: []string{"sepal_length", "petal_width", "species"},
		ColumnTypes: map[string]string{
			"sepal_length": dataset.TypeNumeric,
			"petal_width":  dataset.TypeNumeric,
			"species":      dataset.TypeCategorical,
		},
		Rows: []map[string]any{
			{"sepal_length": 5.1, "petal_width": 0.2, "species": "x"},
			{"sepal_length": 4.9, "petal_width": 0.2, "species": "x"},
			{"sepal_length": 6.3, "petal_width": 1.8, "species": "y"},
		},
		Corr: map[string]map[string]float64{
			"sepal_length": {"sepal_length": 1, "petal_width": 0.8},
			"petal_width":  {"sepal_length": 0.8, "petal_width": 1},
		},
	}
}

func TestColumnsForGatesByType(t *testing.T) {
	sum := sampleSummary()
	if got := ColumnsFor(ModeHistogram, sum); !reflect.DeepEqual(got, []string{"sepal_length", "petal_width"}) {
		t.Errorf("histogram columns = %v", got)
	}
	if got := ColumnsFor(ModePie, sum); !reflect.DeepEqual(got, []string{"species"}) {
		t.Errorf("pie columns = %v", got)
	}
	if got := ColumnsFor(ModeLine, sum); !reflect.DeepEqual(got, sum.Columns) {
		t.Errorf("line columns = %v", got)
	}
}

func TestBuildPieCountsCategories(t *testing.T) {
	chart := Build(ModePie, sampleSummary(), "species", "")
	if chart == nil {
		t.Fatal("expected chart")
	}
	if !reflect.DeepEqual(chart.Labels, []string{"x", "y"}) {
		t.Errorf("labels = %v", chart.Labels)
	}
	if !reflect.DeepEqual(chart.Values, []float64{2, 1}) {
		t.Errorf("values = %v", chart.Values)
	}
}

func TestBuildRejectsWrongColumnType(t *testing.T) {
	sum := sampleSummary()
	if chart := Build(ModeHistogram, sum, "species", ""); chart != nil {
		t.Error("histogram over categorical column should be nil")
	}
	if chart := Build(ModePie, sum, "sepal_length", ""); chart != nil {
		t.Error("pie over numeric column should be nil")
	}
	if chart := Build(ModeLine, sum, "", ""); chart != nil {
		t.Error("empty column should be nil")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	sum := sampleSummary()
	first := Build(ModePie, sum, "species", "")
	second := Build(ModePie, sum, "species", "")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs produced different charts: %v vs %v", first, second)
	}
}

func TestBuildHistogramBins(t *testing.T) {
	sum := sampleSummary()
	chart := Build(ModeHistogram, sum, "sepal_length", "")
	if chart == nil {
		t.Fatal("expected chart")
	}
	if len(chart.Values) != histogramBins {
		t.Fatalf("bins = %d, want %d", len(chart.Values), histogramBins)
	}
	total := 0.0
	for _, c := range chart.Values {
		total += c
	}
	if total != 3 {
		t.Errorf("binned %g values, want 3", total)
	}
	// 5.1 and 4.9 fall in the lower half, 6.3 in the top bin.
	if chart.Values[histogramBins-1] != 1 {
		t.Errorf("top bin = %g, want 1", chart.Values[histogramBins-1])
	}
}

func TestBuildLinePairsSeries(t *testing.T) {
	chart := Build(ModeLine, sampleSummary(), "sepal_length", "petal_width")
	if chart == nil {
		t.Fatal("expected chart")
	}
	if len(chart.Series) != 2 {
		t.Fatalf("series = %d, want 2", len(chart.Series))
	}
	if chart.Title != "sepal_length vs petal_width" {
		t.Errorf("title = %q", chart.Title)
	}
	if len(chart.Series[0].Values) != len(chart.Series[1].Values) {
		t.Error("paired series should be truncated to equal length")
	}
}

func TestBuildScatterWithoutSecondColumnUsesRowIndex(t *testing.T) {
	chart := Build(ModeScatter, sampleSummary(), "sepal_length", "")
	if chart == nil {
		t.Fatal("expected chart")
	}
	if chart.Points[0].X != 0 || chart.Points[2].X != 2 {
		t.Errorf("points = %v", chart.Points)
	}
}

func TestBuildHeatmapGrid(t *testing.T) {
	chart := Build(ModeHeatmap, sampleSummary(), "", "")
	if chart == nil {
		t.Fatal("expected chart")
	}
	if len(chart.Grid) != 2 || len(chart.Grid[0]) != 2 {
		t.Fatalf("grid = %v", chart.Grid)
	}
	if chart.Grid[0][0] != 1 || chart.Grid[0][1] != 0.8 {
		t.Errorf("grid = %v", chart.Grid)
	}
	empty := dataset.Summary{Columns: []string{"a"}}
	if Build(ModeHeatmap, empty, "", "") != nil {
		t.Error("heatmap without correlation data should be nil")
	}
}

func TestRenderPieShowsShares(t *testing.T) {
	chart := Build(ModePie, sampleSummary(), "species", "")
	out := Render(chart, 60, 10)
	if !strings.Contains(out, "66.7%") || !strings.Contains(out, "33.3%") {
		t.Errorf("pie render missing shares:\n%s", out)
	}
	if !strings.Contains(out, "(2)") {
		t.Errorf("pie render missing counts:\n%s", out)
	}
}

func TestRenderHeatmapHasLegend(t *testing.T) {
	chart := Build(ModeHeatmap, sampleSummary(), "", "")
	out := Render(chart, 0, 10)
	if !strings.Contains(out, "shade:") {
		t.Errorf("heatmap render missing legend:\n%s", out)
	}
	if !strings.Contains(out, "sepal_length") {
		t.Errorf("heatmap render missing axis label:\n%s", out)
	}
}

func TestRenderNilChart(t *testing.T) {
	if out := Render(nil, 80, 10); out != "" {
		t.Errorf("nil chart rendered %q", out)
	}
}
