package pie

import (
	"errors"

	"github.com/fwielstra/vizplugins/chart"
	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/format"
)

// Options configures the pie chart. The zero value is not meaningful; start
// from Controls().Defaults().
type Options struct {
	// Cols is the category column. Only AggregateSlices uses it.
	Cols string

	// AggregateSlices emits one slice per category value instead of one
	// slice per (row, column) pair.
	AggregateSlices bool

	Donut       bool
	InnerRadius float64
	OuterRadius float64

	ShowLabels    bool
	LabelType     format.LabelType
	LabelsOutside bool
	LabelLine     bool
	NumberFormat  string

	chart.Chrome
}

var LabelTypeChoices = []controls.Choice{
	{Value: string(format.LabelKey), Label: "Category Name"},
	{Value: string(format.LabelValue), Label: "Value"},
	{Value: string(format.LabelPercent), Label: "Percentage"},
	{Value: string(format.LabelKeyValue), Label: "Category and Value"},
	{Value: string(format.LabelKeyPercent), Label: "Category and Percentage"},
	{Value: string(format.LabelKeyValuePercent), Label: "Category, Value and Percentage"},
}

func numberFormatChoices() []controls.Choice {
	choices := make([]controls.Choice, len(format.NumberFormats))
	for i, f := range format.NumberFormats {
		choices[i] = controls.Choice{Value: f, Label: f}
	}
	return choices
}

func showLabels(o Options) bool { return o.ShowLabels }

// Controls returns the control panel schema of the pie chart.
func Controls() controls.Schema[Options] {
	s := controls.NewSchema(
		controls.Text("cols", "Category column", "",
			func(o *Options) *string { return &o.Cols }),
		controls.Bool("aggregateSlices", "Aggregate slices", false,
			func(o *Options) *bool { return &o.AggregateSlices }).
			WithDescription("One slice per category value instead of one per row and column").
			ShownWhen(func(o Options) bool { return o.Cols != "" }),
		controls.Bool("donut", "Donut", false,
			func(o *Options) *bool { return &o.Donut }),
		controls.Number("innerRadius", "Inner radius", 30, 0, 100, 1,
			func(o *Options) *float64 { return &o.InnerRadius }).
			ShownWhen(func(o Options) bool { return o.Donut }),
		controls.Number("outerRadius", "Outer radius", 70, 10, 100, 1,
			func(o *Options) *float64 { return &o.OuterRadius }),
		controls.Bool("showLabels", "Show labels", true,
			func(o *Options) *bool { return &o.ShowLabels }),
		controls.Select("labelType", "Label type", format.LabelKey, LabelTypeChoices,
			func(o *Options) *format.LabelType { return &o.LabelType }).
			ShownWhen(showLabels),
		controls.Bool("labelsOutside", "Put labels outside", true,
			func(o *Options) *bool { return &o.LabelsOutside }).
			ShownWhen(showLabels),
		controls.Bool("labelLine", "Label line", false,
			func(o *Options) *bool { return &o.LabelLine }).
			WithDescription("Draw a line from the label to the slice").
			ShownWhen(func(o Options) bool { return o.ShowLabels && o.LabelsOutside }),
		controls.Select("numberFormat", "Number format", format.SmartNumber, numberFormatChoices(),
			func(o *Options) *string { return &o.NumberFormat }),
	)
	s.Controls = append(s.Controls, chart.ChromeControls(func(o *Options) *chart.Chrome { return &o.Chrome })...)

	s.Validate = func(o Options) error {
		if o.Donut && o.InnerRadius >= o.OuterRadius {
			return errors.New("inner radius must be smaller than outer radius")
		}
		return nil
	}
	return s
}
