// Package plugins is the registry of chart plugins the outer surfaces (CLI
// and HTTP API) dispatch to by name.
package plugins

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fwielstra/vizplugins/bar"
	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/pie"
	"github.com/fwielstra/vizplugins/surface"
)

var ErrUnknownPlugin = errors.New("unknown plugin")

// Plugin is a chart type: its control schema plus its transform, working on
// the loosely typed option bag the host sends.
type Plugin interface {
	Name() string

	// Describe lists the controls with their visibility evaluated against
	// values.
	Describe(values map[string]any) ([]controls.Descriptor, error)

	// Transform parses values and builds the chart spec for res.
	Transform(res domain.Result, values map[string]any) (surface.Spec, error)
}

type adapter[T any] struct {
	name      string
	schema    func() controls.Schema[T]
	transform func(domain.Result, T) surface.Spec
}

func (a adapter[T]) Name() string {
	return a.name
}

func (a adapter[T]) Describe(values map[string]any) ([]controls.Descriptor, error) {
	s := a.schema()
	cfg, err := s.Parse(values)
	if err != nil {
		return nil, fmt.Errorf("Describe(): error parsing %s options: %w", a.name, err)
	}
	return s.Describe(cfg), nil
}

func (a adapter[T]) Transform(res domain.Result, values map[string]any) (surface.Spec, error) {
	cfg, err := a.schema().Parse(values)
	if err != nil {
		return nil, fmt.Errorf("Transform(): error parsing %s options: %w", a.name, err)
	}
	return a.transform(res, cfg), nil
}

var registry = map[string]Plugin{
	"pie": adapter[pie.Options]{
		name:      "pie",
		schema:    pie.Controls,
		transform: func(res domain.Result, o pie.Options) surface.Spec { return pie.Transform(res, o) },
	},
	"bar": adapter[bar.Options]{
		name:      "bar",
		schema:    bar.Controls,
		transform: func(res domain.Result, o bar.Options) surface.Spec { return bar.Transform(res, o) },
	},
}

func Lookup(name string) (Plugin, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}
	return p, nil
}

// Names returns the registered plugin names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
