// Package chart holds the title, legend, tooltip and color options both
// plugins share.
package chart

import (
	"github.com/fwielstra/vizplugins/palette"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

type LegendOrientation string

const (
	LegendTop    LegendOrientation = "top"
	LegendBottom LegendOrientation = "bottom"
	LegendLeft   LegendOrientation = "left"
	LegendRight  LegendOrientation = "right"
)

// legendOffset is the distance between the legend and the container edge.
const legendOffset = "5%"

var legendLayouts = map[LegendOrientation]opts.Legend{
	LegendTop:    {Orient: "horizontal", Right: legendOffset, Top: legendOffset},
	LegendBottom: {Orient: "horizontal", Bottom: legendOffset},
	LegendLeft:   {Orient: "vertical", Left: legendOffset},
	LegendRight:  {Orient: "vertical", Right: legendOffset, Top: legendOffset},
}

// LegendLayout maps an orientation to the legend anchor. Anything unknown
// is laid out like LegendRight.
func LegendLayout(o LegendOrientation) opts.Legend {
	if l, ok := legendLayouts[o]; ok {
		return l
	}
	return legendLayouts[LegendRight]
}

// Chrome is everything around the plotted data.
type Chrome struct {
	ShowTitle     bool
	Title         string
	Subtitle      string
	TitlePosition string

	ShowLegend        bool
	LegendOrientation LegendOrientation

	ShowTooltip bool
	ColorScheme string
}

func (c Chrome) TitleOpts() opts.Title {
	return opts.Title{
		Show:     opts.Bool(c.ShowTitle),
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Left:     c.TitlePosition,
	}
}

func (c Chrome) LegendOpts() opts.Legend {
	l := LegendLayout(c.LegendOrientation)
	l.Show = opts.Bool(c.ShowLegend)
	l.Type = "scroll"
	return l
}

// TooltipOpts builds the tooltip for the given trigger ("item" or "axis").
// formatter may be empty to keep the echarts default.
func (c Chrome) TooltipOpts(trigger, formatter string) opts.Tooltip {
	t := opts.Tooltip{
		Show:    opts.Bool(c.ShowTooltip),
		Trigger: trigger,
	}
	if formatter != "" {
		t.Formatter = types.FuncStr(formatter)
	}
	return t
}

// GridOpts leaves extra room on the side the legend sits on.
func (c Chrome) GridOpts() opts.Grid {
	g := opts.Grid{Top: "10%", Bottom: "10%", Left: "5%", Right: "5%", ContainLabel: opts.Bool(true)}
	if !c.ShowLegend {
		return g
	}

	switch c.LegendOrientation {
	case LegendTop:
		g.Top = "15%"
	case LegendBottom:
		g.Bottom = "15%"
	case LegendLeft:
		g.Left = "15%"
	default:
		g.Right = "15%"
	}
	return g
}

// Scale returns a fresh color scale for the configured scheme.
func (c Chrome) Scale() *palette.Scale {
	return palette.NewScale(c.ColorScheme)
}
