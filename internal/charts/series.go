package charts

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mdjaved24/mlplay/internal/dataset"
)

// Mode selects one of the playground visualizations.
type Mode string

// Visualization modes in display order.
const (
	ModePreview   Mode = "preview"
	ModeStats     Mode = "stats"
	ModeHistogram Mode = "histogram"
	ModeBar       Mode = "bar"
	ModeScatter   Mode = "scatter"
	ModePie       Mode = "pie"
	ModeLine      Mode = "line"
	ModeHeatmap   Mode = "heatmap"
)

// Modes lists every visualization in the order the selector shows them.
var Modes = []Mode{ModePreview, ModeStats, ModeHistogram, ModeBar, ModeScatter, ModePie, ModeLine, ModeHeatmap}

const histogramBins = 10

// Point is one scatter sample.
type Point struct {
	X float64
	Y float64
}

// Chart is the mode-specific series data ready for rendering. Only the
// fields of the active mode are populated.
type Chart struct {
	Mode   Mode
	Title  string
	Labels []string  // pie and histogram category labels
	Values []float64 // pie counts or histogram bin counts
	Series []Series  // bar and line series
	Points []Point   // scatter samples
	Grid   [][]float64
	Axes   []string // heatmap row/column labels
}

// ColumnsFor returns the columns selectable under a visualization mode.
func ColumnsFor(mode Mode, sum dataset.Summary) []string {
	switch mode {
	case ModeHistogram:
		return sum.NumericColumns()
	case ModePie:
		return sum.CategoricalColumns()
	default:
		return sum.Columns
	}
}

// Build reshapes already-fetched preview rows and correlation data into the
// chart for a mode. It is pure: identical inputs produce identical output.
// Invalid selections (wrong column type, no numeric data) return nil.
func Build(mode Mode, sum dataset.Summary, col1, col2 string) *Chart {
	switch mode {
	case ModeHeatmap:
		return buildHeatmap(sum)
	case ModePreview, ModeStats:
		return nil
	}
	if col1 == "" || len(sum.Rows) == 0 {
		return nil
	}
	colType := sum.ColumnTypes[col1]
	switch mode {
	case ModePie:
		if colType != dataset.TypeCategorical && colType != dataset.TypeNumericCategorical {
			return nil
		}
		return buildPie(sum, col1)
	case ModeHistogram:
		if colType != dataset.TypeNumeric {
			return nil
		}
		return buildHistogram(sum, col1)
	case ModeBar, ModeLine:
		return buildSeriesChart(mode, sum, col1, col2)
	case ModeScatter:
		return buildScatter(sum, col1, col2)
	default:
		return nil
	}
}

func buildPie(sum dataset.Summary, col string) *Chart {
	labels, counts := dataset.ValueCounts(sum.Rows, col)
	if len(labels) == 0 {
		return nil
	}
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	return &Chart{
		Mode:   ModePie,
		Title:  col + " breakdown",
		Labels: labels,
		Values: values,
	}
}

func buildHistogram(sum dataset.Summary, col string) *Chart {
	values := dataset.NumericValues(sum.Rows, col)
	if len(values) == 0 {
		return nil
	}
	minVal := floats.Min(values)
	maxVal := floats.Max(values)
	span := maxVal - minVal
	counts := make([]float64, histogramBins)
	labels := make([]string, histogramBins)
	for i := range labels {
		low := minVal + span*float64(i)/histogramBins
		high := minVal + span*float64(i+1)/histogramBins
		labels[i] = fmt.Sprintf("%.4g to %.4g", low, high)
	}
	for _, v := range values {
		idx := histogramBins - 1
		if span > 0 {
			idx = int((v - minVal) / span * histogramBins)
			if idx >= histogramBins {
				idx = histogramBins - 1
			}
		}
		counts[idx]++
	}
	return &Chart{
		Mode:   ModeHistogram,
		Title:  fmt.Sprintf("%s histogram (mean %.4g)", col, stat.Mean(values, nil)),
		Labels: labels,
		Values: counts,
	}
}

func buildSeriesChart(mode Mode, sum dataset.Summary, col1, col2 string) *Chart {
	values1 := dataset.NumericValues(sum.Rows, col1)
	if len(values1) == 0 {
		return nil
	}
	series := []Series{{Name: col1, Values: values1}}
	title := col1
	if col2 != "" {
		values2 := dataset.NumericValues(sum.Rows, col2)
		if len(values2) > 0 {
			n := len(values1)
			if len(values2) < n {
				n = len(values2)
			}
			series = []Series{
				{Name: col1, Values: values1[:n]},
				{Name: col2, Values: values2[:n]},
			}
			title = col1 + " vs " + col2
		}
	}
	return &Chart{Mode: mode, Title: title, Series: series}
}

func buildScatter(sum dataset.Summary, col1, col2 string) *Chart {
	values1 := dataset.NumericValues(sum.Rows, col1)
	if len(values1) == 0 {
		return nil
	}
	points := make([]Point, 0, len(values1))
	title := col1
	if col2 != "" {
		values2 := dataset.NumericValues(sum.Rows, col2)
		n := len(values1)
		if len(values2) < n {
			n = len(values2)
		}
		if n == 0 {
			return nil
		}
		for i := 0; i < n; i++ {
			points = append(points, Point{X: values1[i], Y: values2[i]})
		}
		title = col1 + " vs " + col2
	} else {
		for i, v := range values1 {
			points = append(points, Point{X: float64(i), Y: v})
		}
	}
	return &Chart{Mode: ModeScatter, Title: title, Points: points}
}

func buildHeatmap(sum dataset.Summary) *Chart {
	if len(sum.Corr) == 0 {
		return nil
	}
	cols := sum.NumericColumns()
	if len(cols) == 0 {
		return nil
	}
	grid := make([][]float64, len(cols))
	for i, row := range cols {
		grid[i] = make([]float64, len(cols))
		for j, col := range cols {
			grid[i][j] = sum.Corr[row][col]
		}
	}
	return &Chart{
		Mode:  ModeHeatmap,
		Title: "Correlation heatmap",
		Grid:  grid,
		Axes:  cols,
	}
}
