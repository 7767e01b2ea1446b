// Package controls describes the user-facing options of a chart plugin:
// their types, defaults and when the control panel should show them. A
// Schema also turns the flat, loosely typed option bag the host sends into
// a typed configuration, validating it once at the boundary.
package controls

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/fwielstra/vizplugins/domain"
)

// Kind is the widget the control panel uses for a control.
type Kind string

const (
	KindCheckbox    Kind = "CheckboxControl"
	KindSelect      Kind = "SelectControl"
	KindSlider      Kind = "SliderControl"
	KindText        Kind = "TextControl"
	KindColorScheme Kind = "ColorSchemeControl"
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Control is a single option of configuration type T.
type Control[T any] struct {
	Name        string
	Label       string
	Kind        Kind
	Default     any
	Description string
	Choices     []Choice

	// Slider bounds, only meaningful for KindSlider.
	Min, Max, Step float64

	// Visible reports whether the control panel shows the control for the
	// current configuration. Nil means always.
	Visible func(T) bool

	apply func(cfg *T, v any) error
}

// ShownWhen returns a copy of c with the given visibility predicate.
func (c Control[T]) ShownWhen(pred func(T) bool) Control[T] {
	c.Visible = pred
	return c
}

// WithDescription returns a copy of c with a help text.
func (c Control[T]) WithDescription(desc string) Control[T] {
	c.Description = desc
	return c
}

func (c Control[T]) IsVisible(cfg T) bool {
	return c.Visible == nil || c.Visible(cfg)
}

// Bool declares a checkbox bound to a bool field.
func Bool[T any](name, label string, def bool, field func(*T) *bool) Control[T] {
	return Control[T]{
		Name:    name,
		Label:   label,
		Kind:    KindCheckbox,
		Default: def,
		apply: func(cfg *T, v any) error {
			b, err := toBool(v)
			if err != nil {
				return err
			}
			*field(cfg) = b
			return nil
		},
	}
}

// Number declares a slider bound to a float64 field, accepting values in
// [lo, hi].
func Number[T any](name, label string, def, lo, hi, step float64, field func(*T) *float64) Control[T] {
	return Control[T]{
		Name:    name,
		Label:   label,
		Kind:    KindSlider,
		Default: def,
		Min:     lo,
		Max:     hi,
		Step:    step,
		apply: func(cfg *T, v any) error {
			n, ok := domain.Float(v)
			if !ok || math.IsNaN(n) {
				return ErrInvalidValue
			}
			if n < lo || n > hi {
				return fmt.Errorf("%w: want %v..%v", ErrOutOfRange, lo, hi)
			}
			*field(cfg) = n
			return nil
		},
	}
}

// Text declares a free text input bound to a string field.
func Text[T any](name, label, def string, field func(*T) *string) Control[T] {
	return Control[T]{
		Name:    name,
		Label:   label,
		Kind:    KindText,
		Default: def,
		apply: func(cfg *T, v any) error {
			s, ok := v.(string)
			if !ok {
				return ErrInvalidValue
			}
			*field(cfg) = s
			return nil
		},
	}
}

// Select declares a dropdown bound to a string-like field. Values outside
// choices are accepted; the consumer decides how to treat them.
func Select[T any, S ~string](name, label string, def S, choices []Choice, field func(*T) *S) Control[T] {
	return Control[T]{
		Name:    name,
		Label:   label,
		Kind:    KindSelect,
		Default: string(def),
		Choices: choices,
		apply: func(cfg *T, v any) error {
			s, ok := v.(string)
			if !ok {
				return ErrInvalidValue
			}
			*field(cfg) = S(s)
			return nil
		},
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, ErrInvalidValue
		}
		return parsed, nil
	default:
		return false, ErrInvalidValue
	}
}

// Schema is the ordered set of controls of a plugin.
type Schema[T any] struct {
	Controls []Control[T]

	// Validate checks combinations of values after parsing.
	Validate func(T) error
}

func NewSchema[T any](controls ...Control[T]) Schema[T] {
	return Schema[T]{Controls: controls}
}

// Defaults returns the configuration with every control at its default.
func (s Schema[T]) Defaults() T {
	var cfg T
	for _, c := range s.Controls {
		if err := c.apply(&cfg, c.Default); err != nil {
			panic(fmt.Sprintf("controls: invalid default for %q: %v", c.Name, err))
		}
	}
	return cfg
}

// Parse builds a configuration from the host's option bag. Missing or nil
// values keep their default and unknown keys are ignored. All invalid
// values are reported together as *ValueError.
func (s Schema[T]) Parse(values map[string]any) (T, error) {
	cfg := s.Defaults()

	var errs []error
	for _, c := range s.Controls {
		v, ok := values[c.Name]
		if !ok || v == nil {
			continue
		}
		if err := c.apply(&cfg, v); err != nil {
			errs = append(errs, &ValueError{Control: c.Name, Value: v, Err: err})
		}
	}

	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}

	if s.Validate != nil {
		if err := s.Validate(cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}

	return cfg, nil
}

// Lookup returns the control with the given name.
func (s Schema[T]) Lookup(name string) (Control[T], bool) {
	for _, c := range s.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control[T]{}, false
}

// Descriptor is the serializable form of a control, with its visibility
// evaluated against a configuration.
type Descriptor struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        Kind     `json:"type"`
	Default     any      `json:"default"`
	Description string   `json:"description,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	Visible     bool     `json:"visible"`
}

func (s Schema[T]) Describe(cfg T) []Descriptor {
	out := make([]Descriptor, len(s.Controls))
	for i, c := range s.Controls {
		d := Descriptor{
			Name:        c.Name,
			Label:       c.Label,
			Type:        c.Kind,
			Default:     c.Default,
			Description: c.Description,
			Choices:     c.Choices,
			Visible:     c.IsVisible(cfg),
		}
		if c.Kind == KindSlider {
			d.Min, d.Max, d.Step = &c.Min, &c.Max, &c.Step
		}
		out[i] = d
	}
	return out
}
