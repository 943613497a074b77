package tui

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

const (
	levelChartHeight = 8
	noLevelLabel     = "(none)"
)

func levelLabel(level string) string {
	if level == "" {
		return noLevelLabel
	}
	return level
}

// renderLevelChart draws one bar per level. It returns a placeholder until
// at least one record has been counted.
func renderLevelChart(counts []LevelCount, width, height int) string {
	var total uint64
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 || len(counts) == 0 || width <= 0 || height <= 0 {
		return statusStyle.Render("Waiting for records...")
	}

	barWidth := (width - (len(counts) - 1)) / len(counts)
	if barWidth < 1 {
		barWidth = 1
	}

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
	)
	for _, c := range counts {
		color := getSeverityColor(c.Level)
		bc.Push(barchart.BarData{
			Label: levelLabel(c.Level),
			Values: []barchart.BarValue{
				{
					Name:  levelLabel(c.Level),
					Value: float64(c.Count),
					Style: lipgloss.NewStyle().Foreground(color).Background(color),
				},
			},
		})
	}
	bc.Draw()
	return bc.View()
}
