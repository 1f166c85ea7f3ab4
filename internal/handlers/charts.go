package handlers

import (
	"feedback-go/internal/shapers"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func generateBinaryChart(points []shapers.BinaryPoint) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Yes / No Answers",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Answers"}),
	)

	labels := make([]string, 0, len(points))
	positives := make([]opts.BarData, 0, len(points))
	negatives := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Label)
		positives = append(positives, opts.BarData{Name: p.Label, Value: p.PositiveCount})
		negatives = append(negatives, opts.BarData{Name: p.Label, Value: p.NegativeCount})
	}

	bar.SetXAxis(labels).
		AddSeries("Positive", positives).
		AddSeries("Negative", negatives)
	return bar
}

// generateNPSChart stacks the promoter, passive and detractor shares of each
// question into one 100% bar, positioned by the record's XPosition.
func generateNPSChart(records []shapers.NPSRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "NPS Distribution",
			Subtitle: "Share of promoters, passives and detractors per question",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "%", Max: 100}),
	)

	labels := make([]string, len(records))
	promoters := make([]opts.BarData, len(records))
	passives := make([]opts.BarData, len(records))
	detractors := make([]opts.BarData, len(records))
	for _, r := range records {
		i := r.XPosition
		labels[i] = r.Label
		promoters[i] = opts.BarData{Name: r.Label, Value: r.PromoterPercentage}
		passives[i] = opts.BarData{Name: r.Label, Value: r.PassivePercentage}
		detractors[i] = opts.BarData{Name: r.Label, Value: r.DetractorPercentage}
	}

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "nps"})
	bar.SetXAxis(labels).
		AddSeries("Promoters", promoters, stack).
		AddSeries("Passives", passives, stack).
		AddSeries("Detractors", detractors, stack)
	return bar
}
