package format

// LabelType selects what a pie slice label shows.
type LabelType string

const (
	LabelKey             LabelType = "key"
	LabelValue           LabelType = "value"
	LabelPercent         LabelType = "percent"
	LabelKeyValue        LabelType = "key_value"
	LabelKeyPercent      LabelType = "key_percent"
	LabelKeyValuePercent LabelType = "key_value_percent"
)

// PieLabel renders a slice label. Unknown label types show the name.
func PieLabel(t LabelType, name, value, percent string) string {
	switch t {
	case LabelValue:
		return value
	case LabelPercent:
		return percent
	case LabelKeyValue:
		return name + ": " + value
	case LabelKeyPercent:
		return name + ": " + percent
	case LabelKeyValuePercent:
		return name + ": " + value + " (" + percent + ")"
	default:
		return name
	}
}

// BarLabelFormat selects what a bar label shows.
type BarLabelFormat string

const (
	BarValue               BarLabelFormat = "value"
	BarSeriesCategoryValue BarLabelFormat = "series_category_value"
	BarCategoryValue       BarLabelFormat = "category_value"
	BarSeriesValue         BarLabelFormat = "series_value"
)

// BarLabel renders a bar label. Unknown formats show the value only.
func BarLabel(f BarLabelFormat, series, category, value string) string {
	switch f {
	case BarSeriesCategoryValue:
		return series + " - " + category + " : " + value
	case BarCategoryValue:
		return category + " : " + value
	case BarSeriesValue:
		return series + " : " + value
	default:
		return value
	}
}

// BarLabelTemplate returns the echarts string template for a series bound
// to a dataset: {a} is the series name, {b} the category and {@dim} the
// value of the series dimension in the current row.
func BarLabelTemplate(f BarLabelFormat, series string) string {
	return BarLabel(f, "{a}", "{b}", "{@"+series+"}")
}
