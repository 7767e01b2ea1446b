package bar

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/format"
	"github.com/fwielstra/vizplugins/palette"
)

func defaults(cols string) Options {
	o := Controls().Defaults()
	o.Cols = cols
	return o
}

func TestOneSeriesPerMetric(t *testing.T) {
	tests := []struct {
		name string
		cols string
		rows []domain.Row
		want []string
	}{
		{
			name: "single metric",
			cols: "region",
			rows: []domain.Row{{"region": "A", "sales": 10}},
			want: []string{"sales"},
		},
		{
			name: "several metrics",
			cols: "region",
			rows: []domain.Row{{"region": "A", "sales": 10, "cost": 4, "profit": 6}},
			want: []string{"cost", "profit", "sales"},
		},
		{
			name: "metric seen in a later row only",
			cols: "day",
			rows: []domain.Row{{"day": "mon", "a": 1}, {"day": "tue", "b": 2}},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := domain.Result{Rows: tt.rows}
			bar := Transform(res, defaults(tt.cols))

			if got, want := len(bar.MultiSeries), len(res.Dimensions())-1; got != want {
				t.Fatalf("got %d series, want |dims|-1 = %d", got, want)
			}
			for i, s := range bar.MultiSeries {
				if s.Name != tt.want[i] {
					t.Errorf("series %d = %q, want %q", i, s.Name, tt.want[i])
				}
				if s.Name == tt.cols {
					t.Errorf("category column %q must not become a series", tt.cols)
				}
			}
		})
	}
}

func TestRegionSales(t *testing.T) {
	rows := []domain.Row{{"region": "A", "sales": 10}, {"region": "B", "sales": 20}}
	o, err := Controls().Parse(map[string]any{"cols": "region", "invertBars": false})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	bar := Transform(domain.Result{Rows: rows}, o)

	if len(bar.MultiSeries) != 1 || bar.MultiSeries[0].Name != "sales" {
		t.Fatalf("expected exactly one series named sales, got %+v", bar.MultiSeries)
	}
	if len(bar.DatasetList) != 1 || !reflect.DeepEqual(bar.DatasetList[0].Source, rows) {
		t.Errorf("dataset source = %v, want %v", bar.DatasetList, rows)
	}
	if bar.XAxisList[0].Type != "category" || bar.YAxisList[0].Type != "value" {
		t.Errorf("axes = %q / %q, want category / value", bar.XAxisList[0].Type, bar.YAxisList[0].Type)
	}

	enc := bar.MultiSeries[0].Encode
	if enc == nil || enc.X != "region" || enc.Y != "sales" {
		t.Errorf("encode = %+v, want x=region y=sales", enc)
	}

	raw, err := json.Marshal(bar.JSON())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var spec struct {
		Series  []map[string]any `json:"series"`
		Dataset []struct {
			Source []map[string]any `json:"source"`
		} `json:"dataset"`
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := spec.Series[0]["data"]; ok {
		t.Error("series bound to the dataset should not carry inline data")
	}
	if spec.Series[0]["type"] != "bar" {
		t.Errorf("series type = %v", spec.Series[0]["type"])
	}
	if len(spec.Dataset) != 1 || len(spec.Dataset[0].Source) != 2 || spec.Dataset[0].Source[1]["region"] != "B" {
		t.Errorf("unexpected dataset %s", raw)
	}
}

func TestDatasetCarriesEveryDimension(t *testing.T) {
	res := domain.Result{Rows: []domain.Row{{"day": "mon", "a": 1}, {"day": "tue", "a": 3, "b": 2}}}

	raw, err := json.Marshal(Transform(res, defaults("day")).JSON())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var spec struct {
		Dataset []struct {
			Source []map[string]any `json:"source"`
		} `json:"dataset"`
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(spec.Dataset) != 1 || len(spec.Dataset[0].Source) != 2 {
		t.Fatalf("unexpected dataset %s", raw)
	}

	first := spec.Dataset[0].Source[0]
	if v, ok := first["b"]; !ok || v != nil {
		t.Errorf("first row should carry b as null, got %v (present %v)", v, ok)
	}
	if second := spec.Dataset[0].Source[1]; second["b"] != 2.0 {
		t.Errorf("second row b = %v, want 2", second["b"])
	}
	if len(res.Rows[0]) != 2 {
		t.Errorf("input rows must not be modified, got %v", res.Rows[0])
	}
}

func TestInvertBars(t *testing.T) {
	o := defaults("region")
	o.InvertBars = true
	o.ShowCategoryAxis = false
	o.XAxisTitle, o.YAxisTitle = "Sales", "Region"

	bar := Transform(domain.Result{Rows: []domain.Row{{"region": "A", "sales": 10}}}, o)

	if bar.XAxisList[0].Type != "value" || bar.YAxisList[0].Type != "category" {
		t.Errorf("axes = %q / %q, want value / category", bar.XAxisList[0].Type, bar.YAxisList[0].Type)
	}
	if bar.YAxisList[0].Show == nil || *bar.YAxisList[0].Show {
		t.Error("category axis should be hidden")
	}
	if bar.XAxisList[0].Name != "Sales" || bar.YAxisList[0].Name != "Region" {
		t.Errorf("axis names = %q / %q", bar.XAxisList[0].Name, bar.YAxisList[0].Name)
	}

	enc := bar.MultiSeries[0].Encode
	if enc.X != "sales" || enc.Y != "region" {
		t.Errorf("encode = %+v, want x=sales y=region", enc)
	}
	if bar.MultiSeries[0].Label.Position != "right" {
		t.Errorf("label position = %q", bar.MultiSeries[0].Label.Position)
	}
}

func TestStack(t *testing.T) {
	rows := []domain.Row{{"day": "mon", "a": 1, "b": 2}}

	o := defaults("day")
	for _, s := range Transform(domain.Result{Rows: rows}, o).MultiSeries {
		if s.Stack != "" {
			t.Errorf("series %s stacked without the stack option", s.Name)
		}
	}

	o.Stack = true
	for _, s := range Transform(domain.Result{Rows: rows}, o).MultiSeries {
		if s.Stack != stackID {
			t.Errorf("series %s stack = %q, want %q", s.Name, s.Stack, stackID)
		}
	}
}

func TestLabelFormat(t *testing.T) {
	tests := []struct {
		format format.BarLabelFormat
		want   string
	}{
		{format.BarValue, "{@sales}"},
		{format.BarSeriesCategoryValue, "{a} - {b} : {@sales}"},
		{format.BarCategoryValue, "{b} : {@sales}"},
		{format.BarSeriesValue, "{a} : {@sales}"},
		{"unknown", "{@sales}"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			o := defaults("region")
			o.ShowLabels = true
			o.LabelFormat = tt.format

			label := Transform(domain.Result{Rows: []domain.Row{{"region": "A", "sales": 1}}}, o).MultiSeries[0].Label
			if !*label.Show || string(label.Formatter) != tt.want {
				t.Errorf("label = %v %q, want %q", *label.Show, label.Formatter, tt.want)
			}
		})
	}
}

func TestSeriesColors(t *testing.T) {
	o := defaults("day")
	o.ColorScheme = "bnbColors"
	colors := palette.Lookup("bnbColors").Colors

	bar := Transform(domain.Result{Rows: []domain.Row{{"day": "mon", "a": 1, "b": 2, "c": 3}}}, o)
	for i, s := range bar.MultiSeries {
		if s.ItemStyle.Color != colors[i] {
			t.Errorf("series %s color = %s, want %s", s.Name, s.ItemStyle.Color, colors[i])
		}
	}
}

func TestLegendAndGrid(t *testing.T) {
	o := defaults("day")
	o.LegendOrientation = "left"

	bar := Transform(domain.Result{Rows: []domain.Row{{"day": "mon", "a": 1}}}, o)
	if bar.Legend.Orient != "vertical" || bar.Legend.Left != "5%" {
		t.Errorf("legend = %+v", bar.Legend)
	}
	if len(bar.GridList) != 1 || bar.GridList[0].Left != "15%" {
		t.Errorf("grid = %+v", bar.GridList)
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	res := domain.Result{Rows: []domain.Row{{"region": "A", "sales": 10, "cost": 3}, {"region": "B", "sales": 20}}}
	o := defaults("region")
	o.Stack = true

	first, _ := json.Marshal(Transform(res, o).JSON())
	second, _ := json.Marshal(Transform(res, o).JSON())
	if !bytes.Equal(first, second) {
		t.Errorf("specs differ:\n%s\n%s", first, second)
	}
}
