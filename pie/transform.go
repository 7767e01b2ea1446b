// Package pie turns a query result into an echarts pie chart.
package pie

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/format"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	seriesName      = "pie"
	tooltipTemplate = "{b}: {c} ({d}%)"

	// nullCategory names the slice of rows without a category value.
	nullCategory = "<NULL>"
)

// literal keeps echarts from reading "{b}" or "{style|text}" in label
// text as template variables or rich text: a zero width space after every
// opening brace breaks both patterns without changing what is shown.
var literal = strings.NewReplacer("{", "{\u200b")

// Slices reshapes res into pie slices. Every row contributes one slice per
// dimension, the category column included, so N rows over K dimensions
// yield N*K slices. Absent values count as zero.
//
// With AggregateSlices and a category column, rows are grouped by category
// value instead and each slice sums the numeric metrics of its group.
func Slices(res domain.Result, o Options) []domain.NameValue {
	if o.AggregateSlices && o.Cols != "" {
		return aggregate(res, o.Cols)
	}

	dims := res.Dimensions()
	out := make([]domain.NameValue, 0, len(res.Rows)*len(dims))
	for _, row := range res.Rows {
		for _, dim := range dims {
			v := row[dim]
			if v == nil {
				v = 0
			}
			out = append(out, domain.NameValue{Name: dim, Value: v})
		}
	}
	return out
}

func aggregate(res domain.Result, category string) []domain.NameValue {
	metrics := res.Metrics(category)

	var out []domain.NameValue
	index := make(map[string]int)
	for _, row := range res.Rows {
		name := nullCategory
		if v := row[category]; v != nil {
			name = fmt.Sprint(v)
		}

		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, domain.NameValue{Name: name, Value: 0.0})
		}

		sum := out[i].Value.(float64)
		for _, m := range metrics {
			if n, ok := domain.Float(row[m]); ok {
				sum += n
			}
		}
		out[i].Value = sum
	}
	return out
}

// Transform builds the pie chart for res. It does not validate o; parse
// options through Controls() first.
func Transform(res domain.Result, o Options) *charts.Pie {
	slices := Slices(res, o)
	numberFormat := format.Number(o.NumberFormat)
	scale := o.Scale()

	var total float64
	for _, s := range slices {
		if n, ok := domain.Float(s.Value); ok {
			total += n
		}
	}

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		n, _ := domain.Float(s.Value)
		value, percent := format.Value(s.Value, numberFormat), format.Percent(n, total)
		label := format.PieLabel(o.LabelType, s.Name, value, percent)
		tooltip := format.PieLabel(format.LabelKeyValuePercent, s.Name, value, percent)

		data[i] = opts.PieData{
			Name:      s.Name,
			Value:     s.Value,
			Label:     &opts.Label{Formatter: types.FuncStr(literal.Replace(label))},
			ItemStyle: &opts.ItemStyle{Color: scale.Color(s.Name)},
			Tooltip:   &opts.Tooltip{Formatter: types.FuncStr(literal.Replace(tooltip))},
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(o.TitleOpts()),
		charts.WithLegendOpts(o.LegendOpts()),
		charts.WithTooltipOpts(o.TooltipOpts("item", tooltipTemplate)),
		charts.WithColorsOpts(scale.Colors()),
	)

	position := "inside"
	if o.LabelsOutside {
		position = "outside"
	}

	pie.AddSeries(seriesName, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: Radius(o)}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(o.ShowLabels),
			Position: position,
		}),
		charts.WithLabelLineOpts(opts.LabelLine{
			Show: opts.Bool(o.ShowLabels && o.LabelsOutside && o.LabelLine),
		}),
	)

	return pie
}

// Radius is ["inner%", "outer%"] for a donut and "outer%" otherwise.
func Radius(o Options) any {
	outer := humanize.Ftoa(o.OuterRadius) + "%"
	if !o.Donut {
		return outer
	}
	return []string{humanize.Ftoa(o.InnerRadius) + "%", outer}
}
