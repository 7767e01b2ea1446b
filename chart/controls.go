package chart

import (
	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/palette"
)

var LegendChoices = []controls.Choice{
	{Value: string(LegendTop), Label: "Top"},
	{Value: string(LegendBottom), Label: "Bottom"},
	{Value: string(LegendLeft), Label: "Left"},
	{Value: string(LegendRight), Label: "Right"},
}

var TitlePositionChoices = []controls.Choice{
	{Value: "left", Label: "Left"},
	{Value: "center", Label: "Center"},
	{Value: "right", Label: "Right"},
}

// SchemeChoices lists every color scheme the palette package knows.
func SchemeChoices() []controls.Choice {
	var choices []controls.Choice
	for _, s := range palette.Schemes() {
		choices = append(choices, controls.Choice{Value: s.ID, Label: s.Label})
	}
	return choices
}

// ChromeControls declares the shared chrome options for a plugin whose
// configuration embeds a Chrome reachable through field.
func ChromeControls[T any](field func(*T) *Chrome) []controls.Control[T] {
	showTitle := func(cfg T) bool { return field(&cfg).ShowTitle }
	showLegend := func(cfg T) bool { return field(&cfg).ShowLegend }

	scheme := controls.Select("colorScheme", "Color scheme", palette.DefaultScheme, SchemeChoices(),
		func(cfg *T) *string { return &field(cfg).ColorScheme })
	scheme.Kind = controls.KindColorScheme

	return []controls.Control[T]{
		controls.Bool("showTitle", "Show title", false,
			func(cfg *T) *bool { return &field(cfg).ShowTitle }),
		controls.Text("title", "Title", "",
			func(cfg *T) *string { return &field(cfg).Title }).ShownWhen(showTitle),
		controls.Text("subtitle", "Subtitle", "",
			func(cfg *T) *string { return &field(cfg).Subtitle }).ShownWhen(showTitle),
		controls.Select("titlePosition", "Title position", "center", TitlePositionChoices,
			func(cfg *T) *string { return &field(cfg).TitlePosition }).ShownWhen(showTitle),
		controls.Bool("showLegend", "Show legend", true,
			func(cfg *T) *bool { return &field(cfg).ShowLegend }),
		controls.Select("legendOrientation", "Legend orientation", LegendTop, LegendChoices,
			func(cfg *T) *LegendOrientation { return &field(cfg).LegendOrientation }).ShownWhen(showLegend),
		controls.Bool("showTooltip", "Show tooltip", true,
			func(cfg *T) *bool { return &field(cfg).ShowTooltip }),
		scheme,
	}
}
