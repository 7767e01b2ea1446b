// Package surface binds chart specs to a single rendering instance with a
// fixed identity and a size that follows its container.
package surface

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
)

var (
	// ErrNoSpec is returned when rendering a surface before any spec was set.
	ErrNoSpec = errors.New("no chart spec set")

	// ErrUnsupportedSpec is returned for charts the surface cannot bind to.
	ErrUnsupportedSpec = errors.New("unsupported chart spec")
)

// Spec is a chart spec as produced by the plugins' transforms.
type Spec interface {
	render.Renderer
	JSON() map[string]interface{}
}

type Option func(*opts.Initialization)

// WithAssetsHost serves the echarts scripts from host instead of the
// public go-echarts CDN.
func WithAssetsHost(host string) Option {
	return func(init *opts.Initialization) {
		init.AssetsHost = host
	}
}

func WithTheme(theme string) Option {
	return func(init *opts.Initialization) {
		init.Theme = theme
	}
}

func WithPageTitle(title string) Option {
	return func(init *opts.Initialization) {
		init.PageTitle = title
	}
}

// Surface owns one chart instance. Setting a spec replaces the previous
// one entirely; the instance keeps its chart id across replacements and
// resizes.
type Surface struct {
	width, height int
	options       []Option

	init *opts.Initialization
	spec Spec
}

func New(width, height int, options ...Option) *Surface {
	return &Surface{width: width, height: height, options: options}
}

// instance returns the initialization shared by every spec bound to the
// surface, creating it on first use.
func (s *Surface) instance() *opts.Initialization {
	if s.init == nil {
		s.init = &opts.Initialization{}
		for _, o := range s.options {
			o(s.init)
		}
		s.init.Validate()
	}
	s.init.Width = fmt.Sprintf("%dpx", s.width)
	s.init.Height = fmt.Sprintf("%dpx", s.height)
	return s.init
}

// SetSpec binds spec to the surface, replacing the current spec.
func (s *Surface) SetSpec(spec Spec) error {
	base, err := baseOf(spec)
	if err != nil {
		return err
	}
	charts.WithInitializationOpts(*s.instance())(base)
	s.spec = spec
	return nil
}

// Resize changes the surface size. Resizing to the current size is a
// no-op.
func (s *Surface) Resize(width, height int) {
	if width == s.width && height == s.height && s.init != nil {
		return
	}
	s.width, s.height = width, height

	init := s.instance()
	if s.spec != nil {
		base, _ := baseOf(s.spec)
		charts.WithInitializationOpts(*init)(base)
	}
}

func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// ID returns the chart id of the instance.
func (s *Surface) ID() string {
	return s.instance().ChartID
}

// Instance returns the spec currently bound to the surface, or nil.
func (s *Surface) Instance() Spec {
	return s.spec
}

// Render writes the surface as a standalone HTML page.
func (s *Surface) Render(w io.Writer) error {
	if s.spec == nil {
		return ErrNoSpec
	}
	return s.spec.Render(w)
}

// Option returns the echarts option object of the current spec as JSON.
func (s *Surface) Option() ([]byte, error) {
	if s.spec == nil {
		return nil, ErrNoSpec
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.spec.JSON()); err != nil {
		return nil, fmt.Errorf("Option(): error encoding spec: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func baseOf(spec Spec) (*charts.BaseConfiguration, error) {
	switch c := spec.(type) {
	case *charts.Pie:
		return &c.BaseConfiguration, nil
	case *charts.Bar:
		return &c.BaseConfiguration, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpec, spec)
	}
}
