package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const barChar = "█"

var heatShades = []string{"  ", "░░", "▒▒", "▓▓", "██"}

// Render draws a built chart as plain text sized to totalWidth.
func Render(chart *Chart, totalWidth, plotHeight int) string {
	if chart == nil {
		return ""
	}
	switch chart.Mode {
	case ModePie:
		return renderProportions(chart, totalWidth)
	case ModeHistogram, ModeBar:
		if chart.Mode == ModeBar && len(chart.Series) > 0 {
			return renderBars(chart, totalWidth)
		}
		return renderLabeledBars(chart.Title, chart.Labels, chart.Values, totalWidth)
	case ModeLine:
		return PlotSeries(chart.Title, chart.Series, PlotWidthFor(totalWidth), plotHeight)
	case ModeScatter:
		return PlotPoints(chart.Title, chart.Points, PlotWidthFor(totalWidth), plotHeight)
	case ModeHeatmap:
		return renderHeatmap(chart, totalWidth)
	default:
		return ""
	}
}

// renderProportions draws pie data as percentage bars, one slice per line.
func renderProportions(chart *Chart, totalWidth int) string {
	total := 0.0
	for _, v := range chart.Values {
		total += v
	}
	if total <= 0 {
		return ""
	}
	labelWidth := maxLabelWidth(chart.Labels)
	barWidth := totalWidth - labelWidth - 12
	if barWidth < 5 {
		barWidth = 5
	}
	var b strings.Builder
	b.WriteString(chart.Title)
	b.WriteByte('\n')
	for i, label := range chart.Labels {
		share := chart.Values[i] / total
		filled := int(math.Round(share * float64(barWidth)))
		b.WriteString(fmt.Sprintf("%s %s%s %4.1f%% (%d)\n",
			padLabel(label, labelWidth),
			strings.Repeat(barChar, filled),
			strings.Repeat(" ", barWidth-filled),
			share*100,
			int(chart.Values[i]),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderLabeledBars draws one horizontal bar per label scaled to the max.
func renderLabeledBars(title string, labels []string, values []float64, totalWidth int) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return ""
	}
	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal <= 0 {
		return ""
	}
	labelWidth := maxLabelWidth(labels)
	barWidth := totalWidth - labelWidth - 10
	if barWidth < 5 {
		barWidth = 5
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for i, label := range labels {
		filled := int(math.Round(values[i] / maxVal * float64(barWidth)))
		b.WriteString(fmt.Sprintf("%s %s %g\n",
			padLabel(label, labelWidth),
			strings.Repeat(barChar, filled),
			values[i],
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBars draws per-row bars for one or two numeric series.
func renderBars(chart *Chart, totalWidth int) string {
	labels := make([]string, 0)
	values := make([]float64, 0)
	for si, s := range chart.Series {
		for i, v := range s.Values {
			labels = append(labels, fmt.Sprintf("%s[%d]", s.Name, i+1))
			values = append(values, v)
		}
		if si == 1 {
			break
		}
	}
	return renderLabeledBars(chart.Title, labels, values, totalWidth)
}

// renderHeatmap shades each correlation cell by the magnitude of |r|.
func renderHeatmap(chart *Chart, totalWidth int) string {
	if len(chart.Grid) == 0 {
		return ""
	}
	labelWidth := maxLabelWidth(chart.Axes)
	var b strings.Builder
	b.WriteString(chart.Title)
	b.WriteByte('\n')
	header := strings.Repeat(" ", labelWidth+1)
	for j := range chart.Axes {
		header += fmt.Sprintf("%-3s", shortAxis(chart.Axes[j], j))
	}
	b.WriteString(header)
	b.WriteByte('\n')
	for i, row := range chart.Grid {
		b.WriteString(padLabel(chart.Axes[i], labelWidth))
		b.WriteByte(' ')
		for _, v := range row {
			b.WriteString(shadeFor(v))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString("shade: " + strings.Join(heatShades, " ") + "  (|r| from 0 to 1)")
	out := b.String()
	if totalWidth > 0 {
		lines := strings.Split(out, "\n")
		for i, line := range lines {
			lines[i] = runewidth.Truncate(line, totalWidth, "…")
		}
		out = strings.Join(lines, "\n")
	}
	return out
}

func shadeFor(v float64) string {
	mag := math.Abs(v)
	idx := int(mag * float64(len(heatShades)))
	if idx >= len(heatShades) {
		idx = len(heatShades) - 1
	}
	return heatShades[idx]
}

func shortAxis(label string, idx int) string {
	if label == "" {
		return fmt.Sprintf("c%d", idx)
	}
	return runewidth.Truncate(label, 2, "")
}

func maxLabelWidth(labels []string) int {
	width := 0
	for _, label := range labels {
		if w := runewidth.StringWidth(label); w > width {
			width = w
		}
	}
	return width
}

func padLabel(label string, width int) string {
	w := runewidth.StringWidth(label)
	if w >= width {
		return label
	}
	return label + strings.Repeat(" ", width-w)
}
