// Package bar turns a query result into an echarts bar chart bound to a
// dataset.
package bar

import (
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/format"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// stackID is shared by all series when stacking so echarts piles them up.
const stackID = "total"

// Transform builds the bar chart for res: the rows become the dataset and
// every dimension except the category column becomes one series, in
// dimension order. Values a row lacks are null in the dataset, so their
// bars are left out.
func Transform(res domain.Result, o Options) *charts.Bar {
	bar := charts.NewBar()
	scale := o.Scale()

	categoryAxis, valueAxis := "category", "value"
	x := opts.XAxis{Type: categoryAxis, Show: opts.Bool(o.ShowCategoryAxis), Name: o.XAxisTitle}
	y := opts.YAxis{Type: valueAxis, Name: o.YAxisTitle}
	if o.InvertBars {
		x = opts.XAxis{Type: valueAxis, Name: o.XAxisTitle}
		y = opts.YAxis{Type: categoryAxis, Show: opts.Bool(o.ShowCategoryAxis), Name: o.YAxisTitle}
	}

	bar.SetGlobalOptions(
		charts.WithTitleOpts(o.TitleOpts()),
		charts.WithLegendOpts(o.LegendOpts()),
		charts.WithTooltipOpts(o.TooltipOpts("axis", "")),
		charts.WithGridOpts(o.GridOpts()),
		charts.WithColorsOpts(scale.Colors()),
		charts.WithXAxisOpts(x),
		charts.WithYAxisOpts(y),
	)
	bar.AddDataset(opts.Dataset{Source: datasetSource(res)})

	for _, series := range res.Metrics(o.Cols) {
		bar.AddSeries(series, nil, seriesOpts(series, o, scale.Color(series))...)
	}

	return bar
}

// datasetSource fills every row up to the full dimension set. echarts takes
// the dimensions of an object dataset from its first row.
func datasetSource(res domain.Result) []domain.Row {
	dims := res.Dimensions()
	source := make([]domain.Row, len(res.Rows))
	for i, row := range res.Rows {
		full := make(domain.Row, len(dims))
		for _, dim := range dims {
			full[dim] = row[dim]
		}
		source[i] = full
	}
	return source
}

func seriesOpts(series string, o Options, color string) []charts.SeriesOpts {
	encode := opts.Encode{X: o.Cols, Y: series}
	position := "top"
	if o.InvertBars {
		encode = opts.Encode{X: series, Y: o.Cols}
		position = "right"
	}
	if o.Stack {
		position = "inside"
	}

	so := []charts.SeriesOpts{
		// values come from the dataset
		charts.WithSeriesOpts(func(s *charts.SingleSeries) { s.Data = nil }),
		charts.WithEncodeOpts(encode),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(o.ShowLabels),
			Position:  position,
			Formatter: types.FuncStr(format.BarLabelTemplate(o.LabelFormat, series)),
		}),
	}
	if o.Stack {
		so = append(so, charts.WithBarChartOpts(opts.BarChart{Stack: stackID}))
	}
	return so
}
