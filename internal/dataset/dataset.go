// Package dataset defines client-side views of backend dataset summaries.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
)

// Column types as the backend reports them.
const (
	TypeNumeric            = "numeric"
	TypeCategorical        = "categorical"
	TypeNumericCategorical = "numeric-categorical"
)

// Target types derived from the target column's type.
const (
	TargetRegression     = "regression"
	TargetClassification = "classification"
	TargetBoth           = "both"
)

// StatNames labels the eight describe() rows in backend order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// DeriveTargetType maps a column type to the problem type it implies.
// Unknown types return "".
func DeriveTargetType(columnType string) string {
	switch columnType {
	case TypeNumeric:
		return TargetRegression
	case TypeCategorical:
		return TargetClassification
	case TypeNumericCategorical:
		return TargetBoth
	default:
		return ""
	}
}

// Summary holds the transient dataset state for one uploaded file.
type Summary struct {
	Path        string
	Name        string
	Columns     []string
	ColumnTypes map[string]string
	Rows        []map[string]any
	Stats       map[string][]float64
	Corr        map[string]map[string]float64
}

// NumericColumns returns the numeric columns in dataset order.
func (s Summary) NumericColumns() []string {
	out := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if s.ColumnTypes[col] == TypeNumeric {
			out = append(out, col)
		}
	}
	return out
}

// CategoricalColumns returns the columns a pie chart may use.
func (s Summary) CategoricalColumns() []string {
	out := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		t := s.ColumnTypes[col]
		if t == TypeCategorical || t == TypeNumericCategorical {
			out = append(out, col)
		}
	}
	return out
}

// NumericValues extracts the parseable numeric values of a column from the
// preview rows, skipping blanks and non-numeric cells.
func NumericValues(rows []map[string]any, column string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := CellFloat(row[column]); ok {
			out = append(out, v)
		}
	}
	return out
}

// CellFloat coerces a preview cell to a float64 when possible.
func CellFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CellString renders a preview cell the way the backend sent it.
func CellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValueCounts tallies the distinct rendered values of a column, returning
// labels in descending count order with ties broken alphabetically.
func ValueCounts(rows []map[string]any, column string) ([]string, []int) {
	counts := map[string]int{}
	for _, row := range rows {
		label := CellString(row[column])
		if label == "" {
			continue
		}
		counts[label]++
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] == counts[labels[j]] {
			return labels[i] < labels[j]
		}
		return counts[labels[i]] > counts[labels[j]]
	})
	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = counts[label]
	}
	return labels, values
}
