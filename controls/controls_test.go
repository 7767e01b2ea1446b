package controls

import (
	"errors"
	"fmt"
	"testing"
)

type mode string

type testConfig struct {
	Enabled bool
	Size    float64
	Name    string
	Mode    mode
}

func testSchema() Schema[testConfig] {
	s := NewSchema(
		Bool("enabled", "Enabled", true, func(c *testConfig) *bool { return &c.Enabled }),
		Number("size", "Size", 50, 0, 100, 1, func(c *testConfig) *float64 { return &c.Size }).
			ShownWhen(func(c testConfig) bool { return c.Enabled }),
		Text("name", "Name", "x", func(c *testConfig) *string { return &c.Name }).
			WithDescription("display name"),
		Select("mode", "Mode", mode("a"), []Choice{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
			func(c *testConfig) *mode { return &c.Mode }),
	)
	s.Validate = func(c testConfig) error {
		if c.Mode == "b" && c.Size > 90 {
			return fmt.Errorf("mode b supports sizes up to 90")
		}
		return nil
	}
	return s
}

func TestDefaults(t *testing.T) {
	got := testSchema().Defaults()
	want := testConfig{Enabled: true, Size: 50, Name: "x", Mode: "a"}
	if got != want {
		t.Errorf("Defaults() = %+v, want %+v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   testConfig
	}{
		{"empty", nil, testConfig{Enabled: true, Size: 50, Name: "x", Mode: "a"}},
		{"nil values keep default", map[string]any{"size": nil, "name": nil}, testConfig{Enabled: true, Size: 50, Name: "x", Mode: "a"}},
		{"unknown keys ignored", map[string]any{"other": 1}, testConfig{Enabled: true, Size: 50, Name: "x", Mode: "a"}},
		{"typed values", map[string]any{"enabled": false, "size": 12.5, "name": "n", "mode": "b"}, testConfig{Size: 12.5, Name: "n", Mode: "b"}},
		{"string coercion", map[string]any{"enabled": "false", "size": "30"}, testConfig{Size: 30, Name: "x", Mode: "a"}},
		{"integer slider value", map[string]any{"size": 7}, testConfig{Enabled: true, Size: 7, Name: "x", Mode: "a"}},
		{"select outside choices", map[string]any{"mode": "zzz"}, testConfig{Enabled: true, Size: 50, Name: "x", Mode: "zzz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testSchema().Parse(tt.values)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := testSchema().Parse(map[string]any{"size": 101, "enabled": "maybe", "name": 3})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange in %v", err)
	}
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue in %v", err)
	}

	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a *ValueError in %v", err)
	}
	if ve.Control != "enabled" {
		t.Errorf("first error should be for enabled, got %q", ve.Control)
	}
}

func TestParseValidate(t *testing.T) {
	_, err := testSchema().Parse(map[string]any{"mode": "b", "size": 95})
	if !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}

	if _, err := testSchema().Parse(map[string]any{"mode": "b", "size": 90}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestDescribe(t *testing.T) {
	s := testSchema()

	ds := s.Describe(s.Defaults())
	if len(ds) != 4 {
		t.Fatalf("expected 4 descriptors, got %d", len(ds))
	}
	if !ds[1].Visible {
		t.Error("size should be visible while enabled")
	}
	if ds[1].Min == nil || *ds[1].Max != 100 || *ds[1].Step != 1 {
		t.Errorf("size should carry slider bounds, got %+v", ds[1])
	}
	if ds[0].Min != nil {
		t.Error("checkbox should not carry slider bounds")
	}
	if ds[2].Description != "display name" {
		t.Errorf("unexpected description %q", ds[2].Description)
	}
	if ds[3].Default != "a" || len(ds[3].Choices) != 2 {
		t.Errorf("unexpected select descriptor %+v", ds[3])
	}

	ds = s.Describe(testConfig{Enabled: false})
	if ds[1].Visible {
		t.Error("size should be hidden while disabled")
	}
}

func TestLookup(t *testing.T) {
	s := testSchema()
	if c, ok := s.Lookup("mode"); !ok || c.Kind != KindSelect {
		t.Errorf("Lookup(mode) = %+v, %v", c.Kind, ok)
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}
