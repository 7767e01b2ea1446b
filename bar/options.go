package bar

import (
	"github.com/fwielstra/vizplugins/chart"
	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/format"
)

type Options struct {
	// Cols is the category column; every other column becomes a series.
	Cols string

	// InvertBars draws horizontal bars with the categories on the y axis.
	InvertBars       bool
	ShowCategoryAxis bool
	XAxisTitle       string
	YAxisTitle       string

	ShowLabels  bool
	LabelFormat format.BarLabelFormat

	Stack bool

	chart.Chrome
}

var LabelFormatChoices = []controls.Choice{
	{Value: string(format.BarValue), Label: "Value"},
	{Value: string(format.BarSeriesCategoryValue), Label: "Series - Category : Value"},
	{Value: string(format.BarCategoryValue), Label: "Category : Value"},
	{Value: string(format.BarSeriesValue), Label: "Series : Value"},
}

// Controls returns the control panel schema of the bar chart.
func Controls() controls.Schema[Options] {
	s := controls.NewSchema(
		controls.Text("cols", "Category column", "",
			func(o *Options) *string { return &o.Cols }),
		controls.Bool("invertBars", "Horizontal bars", false,
			func(o *Options) *bool { return &o.InvertBars }),
		controls.Bool("showCategoryAxis", "Show category axis", true,
			func(o *Options) *bool { return &o.ShowCategoryAxis }),
		controls.Text("xAxisTitle", "X axis title", "",
			func(o *Options) *string { return &o.XAxisTitle }),
		controls.Text("yAxisTitle", "Y axis title", "",
			func(o *Options) *string { return &o.YAxisTitle }),
		controls.Bool("showLabels", "Show labels", false,
			func(o *Options) *bool { return &o.ShowLabels }),
		controls.Select("labelFormat", "Label format", format.BarValue, LabelFormatChoices,
			func(o *Options) *format.BarLabelFormat { return &o.LabelFormat }).
			ShownWhen(func(o Options) bool { return o.ShowLabels }),
		controls.Bool("stack", "Stack series", false,
			func(o *Options) *bool { return &o.Stack }).
			WithDescription("Stack the series of a category on top of each other"),
	)
	s.Controls = append(s.Controls, chart.ChromeControls(func(o *Options) *chart.Chrome { return &o.Chrome })...)
	return s
}
