package charts

import (
	"strings"
	"testing"
)

func TestPlotSeriesDimensions(t *testing.T) {
	series := []Series{{Name: "loss", Values: []float64{3, 2.5, 2.1, 1.8, 1.2, 0.9}}}
	out := PlotSeries("loss", series, 20, 5)
	lines := strings.Split(out, "\n")
	// title, one range line per series, then the plot rows
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "loss") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(out, axisSeparator) {
		t.Error("missing axis separator")
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	if out := PlotSeries("empty", nil, 20, 5); out != "" {
		t.Errorf("empty series rendered %q", out)
	}
	if out := PlotSeries("empty", []Series{{Name: "a"}}, 20, 5); out != "" {
		t.Errorf("series without values rendered %q", out)
	}
}

func TestPlotPointsRange(t *testing.T) {
	points := []Point{{X: 0, Y: 1}, {X: 1, Y: 4}, {X: 2, Y: 2}}
	out := PlotPoints("scatter", points, 20, 5)
	if out == "" {
		t.Fatal("expected output")
	}
	if !strings.Contains(out, "scatter") {
		t.Errorf("missing title:\n%s", out)
	}
}

func TestSparkline(t *testing.T) {
	out := Sparkline([]float64{0, 1, 2, 3})
	if len([]rune(out)) != 4 {
		t.Fatalf("sparkline = %q", out)
	}
	runes := []rune(out)
	if runes[0] == runes[3] {
		t.Errorf("min and max map to the same char: %q", out)
	}
	if Sparkline(nil) != "" {
		t.Error("empty input should produce empty sparkline")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("avg[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := resample(values, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	// downsampling averages pairs of neighbors
	if got[0] != 1.5 || got[3] != 7.5 {
		t.Errorf("resample endpoints = %g, %g", got[0], got[3])
	}
}

func TestValueToRowClamps(t *testing.T) {
	if row := valueToRow(10, 0, 5, 4); row != 0 {
		t.Errorf("above max row = %d, want 0", row)
	}
	if row := valueToRow(-1, 0, 5, 4); row != 3 {
		t.Errorf("below min row = %d, want 3", row)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if w := PlotWidthFor(40); w >= 40 {
		t.Errorf("plot width %d should leave room for the axis", w)
	}
	if w := PlotWidthFor(0); w < minPlotWidth {
		t.Errorf("width = %d, want at least %d", w, minPlotWidth)
	}
}
