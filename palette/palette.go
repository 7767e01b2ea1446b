package palette

import (
	"slices"
	"sort"
)

// DefaultScheme is used for unknown scheme ids.
const DefaultScheme = "supersetColors"

type Scheme struct {
	ID     string
	Label  string
	Colors []string
}

var schemes = map[string]Scheme{
	"supersetColors": {
		ID:    "supersetColors",
		Label: "Superset Colors",
		Colors: []string{
			"#1FA8C9", "#454E7C", "#5AC189", "#FF7F44", "#666666",
			"#E04355", "#FCC700", "#A868B7", "#3CCCCB", "#A38F79",
			"#8FD3E4", "#A1A6BD", "#ACE1C4", "#FEC0A1", "#B2B2B2",
			"#EFA1AA", "#FDE380", "#D3B3DA", "#9EE5E5", "#D1C6BC",
		},
	},
	"bnbColors": {
		ID:    "bnbColors",
		Label: "Airbnb Colors",
		Colors: []string{
			"#ff5a5f", "#7b0051", "#007A87", "#00d1c1", "#8ce071",
			"#ffb400", "#b4a76c", "#ff8083", "#cc0086", "#00a1b3",
			"#00ffeb", "#bbedab", "#ffd266", "#cbc29a", "#ff3339",
			"#ff1ab1", "#005c66", "#00b3a5", "#55d12e", "#b37e00",
			"#988b4e",
		},
	},
	"googleCategory10c": {
		ID:    "googleCategory10c",
		Label: "Google Category 10c",
		Colors: []string{
			"#3366cc", "#dc3912", "#ff9900", "#109618", "#990099",
			"#0099c6", "#dd4477", "#66aa00", "#b82e2e", "#316395",
		},
	},
	"d3Category10": {
		ID:    "d3Category10",
		Label: "D3 Category 10",
		Colors: []string{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
		},
	},
	// go-echarts' own default palette
	"echarts": {
		ID:    "echarts",
		Label: "ECharts",
		Colors: []string{
			"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
			"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
		},
	},
}

// Lookup returns the scheme with the given id, or the default scheme.
func Lookup(id string) Scheme {
	if s, ok := schemes[id]; ok {
		return s
	}
	return schemes[DefaultScheme]
}

// Schemes returns all known schemes sorted by id.
func Schemes() []Scheme {
	all := make([]Scheme, 0, len(schemes))
	for _, s := range schemes {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Scale is a categorical color scale: each new key takes the next color
// of the scheme, wrapping around when the scheme runs out. A key keeps its
// color for the lifetime of the scale.
type Scale struct {
	colors   []string
	assigned map[string]string
}

func NewScale(schemeID string) *Scale {
	return &Scale{
		colors:   slices.Clone(Lookup(schemeID).Colors),
		assigned: make(map[string]string),
	}
}

func (s *Scale) Color(key string) string {
	if c, ok := s.assigned[key]; ok {
		return c
	}
	c := s.colors[len(s.assigned)%len(s.colors)]
	s.assigned[key] = c
	return c
}

// Colors returns the scheme's color list.
func (s *Scale) Colors() []string {
	return slices.Clone(s.colors)
}
