package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/storage"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

func vec(v dynamo.Vec3) string {
	return fmt.Sprintf("(%.3e, %.3e, %.3e)", v.X, v.Y, v.Z)
}

// RunSummary renders a stored run as a bordered panel.
func RunSummary(meta storage.RunMetadata) string {
	var s strings.Builder
	s.WriteString(Title.Render(meta.ID) + "\n\n")
	s.WriteString(row("scenario", meta.Scenario))
	s.WriteString(row("seed", fmt.Sprint(meta.Seed)))
	s.WriteString(row("dt", fmt.Sprintf("%g s", meta.Dt)))
	s.WriteString(row("steps", fmt.Sprintf("%d (report every %d)", meta.Steps, meta.ReportFreq)))
	s.WriteString(row("bodies", fmt.Sprintf("%d → %d", meta.NumBodies, meta.FinalBodies)))
	s.WriteString(row("merges", fmt.Sprint(len(meta.Merges))))
	s.WriteString(row("initial L", vec(dynamo.Vec3{X: meta.InitialL[0], Y: meta.InitialL[1], Z: meta.InitialL[2]})))
	s.WriteString(row("final L", vec(dynamo.Vec3{X: meta.FinalL[0], Y: meta.FinalL[1], Z: meta.FinalL[2]})))

	if len(meta.Metrics) > 0 {
		s.WriteString("\n" + Subtle.Render("metrics") + "\n")
		for _, name := range sortedKeys(meta.Metrics) {
			s.WriteString(row(name, fmt.Sprintf("%.6g", meta.Metrics[name])))
		}
	}

	return Panel.Render(strings.TrimRight(s.String(), "\n"))
}

// DistributionSummary renders the per-axis standard deviations the way the
// distribution command prints them.
func DistributionSummary(d *metrics.Distribution) string {
	var s strings.Builder
	s.WriteString(Title.Render(fmt.Sprintf("angular momentum over %d bodies", d.Bodies)) + "\n\n")
	for _, c := range d.Components() {
		s.WriteString(row("std L"+c.Axis, fmt.Sprintf("%.6e", c.StdDev)))
	}
	return Panel.Render(strings.TrimRight(s.String(), "\n"))
}

// Sparkline renders values as a one-line bar chart at most width wide.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)

	var out strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		c := string(chars[min(int(norm*float64(len(chars)-1)), len(chars)-1)])
		switch {
		case norm > 0.7:
			out.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			out.WriteString(SparkMid.Render(c))
		default:
			out.WriteString(SparkLow.Render(c))
		}
	}
	return out.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
