package dataset

import (
	"reflect"
	"testing"
)

func TestDeriveTargetType(t *testing.T) {
	cases := []struct {
		columnType string
		want       string
	}{
		{TypeNumeric, TargetRegression},
		{TypeCategorical, TargetClassification},
		{TypeNumericCategorical, TargetBoth},
		{"datetime", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DeriveTargetType(tc.columnType); got != tc.want {
			t.Errorf("DeriveTargetType(%q) = %q, want %q", tc.columnType, got, tc.want)
		}
	}
}

func TestNumericValuesSkipsUnparseable(t *testing.T) {
	rows := []map[string]any{
		{"age": 31.0},
		{"age": "42"},
		{"age": "n/a"},
		{"age": nil},
		{"age": ""},
	}
	got := NumericValues(rows, "age")
	want := []float64{31, 42}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NumericValues = %v, want %v", got, want)
	}
}

func TestValueCounts(t *testing.T) {
	rows := []map[string]any{
		{"c": "x"},
		{"c": "x"},
		{"c": "y"},
	}
	labels, values := ValueCounts(rows, "c")
	if !reflect.DeepEqual(labels, []string{"x", "y"}) {
		t.Fatalf("labels = %v", labels)
	}
	if !reflect.DeepEqual(values, []int{2, 1}) {
		t.Fatalf("values = %v", values)
	}
}

func TestColumnSelectorsFollowTypes(t *testing.T) {
	s := Summary{
		Columns: []string{"a", "b", "c", "d"},
		ColumnTypes: map[string]string{
			"a": TypeNumeric,
			"b": TypeCategorical,
			"c": TypeNumericCategorical,
			"d": TypeNumeric,
		},
	}
	if got := s.NumericColumns(); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("NumericColumns = %v", got)
	}
	if got := s.CategoricalColumns(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("CategoricalColumns = %v", got)
	}
}
