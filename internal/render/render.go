// Package render turns a commit history into a visual changelog page:
// a histogram of per-commit magnitudes and a node-count growth line.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/histogram"
)

const (
	chartWidth  = "1100px"
	chartHeight = "450px"

	pageTitle = "Design Changelog"
)

// WritePage renders the full changelog page for the given history to w.
// Charts are drawn chronological, oldest first.
func WritePage(w io.Writer, commits []commit.Commit) error {
	bars := histogram.Project(commits)

	page := components.NewPage()
	page.PageTitle = pageTitle

	page.AddCharts(
		histogramChart(bars),
		growthChart(commits, bars),
	)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render changelog page: %w", err)
	}

	return nil
}

// histogramChart builds the per-commit magnitude bars: feedback volume and
// absolute node-count delta, side by side per version.
func histogramChart(bars []histogram.Bar) *charts.Bar {
	labels := make([]string, len(bars))
	feedback := make([]opts.BarData, len(bars))
	deltas := make([]opts.BarData, len(bars))

	for i, b := range bars {
		labels[i] = b.Version
		feedback[i] = opts.BarData{Value: b.FeedbackCount}
		deltas[i] = opts.BarData{Value: b.NodesDelta}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Commit Activity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("Feedback", feedback)
	bar.AddSeries("Nodes changed", deltas)

	return bar
}

// growthChart builds the total-node-count line across the history.
func growthChart(commits []commit.Commit, bars []histogram.Bar) *charts.Line {
	byID := make(map[string]int, len(commits))
	for i := range commits {
		byID[commits[i].ID] = commits[i].Metrics.TotalNodes
	}

	labels := make([]string, len(bars))
	nodes := make([]opts.LineData, len(bars))

	for i, b := range bars {
		labels[i] = b.Version
		nodes[i] = opts.LineData{Value: byID[b.CommitID]}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "File Growth"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	line.SetXAxis(labels)
	line.AddSeries("Total nodes", nodes,
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))

	return line
}
