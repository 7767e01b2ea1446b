package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/plugins"
	"github.com/fwielstra/vizplugins/source"
	"github.com/fwielstra/vizplugins/surface"
)

const (
	formatJSON = "json"
	formatHTML = "html"
)

// chartJob is one chart to render: where the rows come from, which plugin
// draws them and where the result goes. Batch manifests list these.
type chartJob struct {
	Name    string         `json:"name"`
	Plugin  string         `json:"plugin"`
	Source  string         `json:"source"`
	Query   string         `json:"query,omitempty"`
	Sheet   string         `json:"sheet,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Format  string         `json:"format,omitempty"`
	Out     string         `json:"out,omitempty"`
}

func (j chartJob) label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Plugin + ":" + j.Source
}

// chartResult is what rendering a job produced.
type chartResult struct {
	Job      chartJob
	Rows     int
	Bytes    int
	Snapshot domain.Snapshot
	Err      error
}

// renderJob loads the job's rows, runs the plugin and writes the chart to
// the job's output, or to stdout when it has none.
func renderJob(ctx context.Context, j chartJob, cfg config.Config, stdout io.Writer, now time.Time) chartResult {
	result := chartResult{Job: j}

	p, err := plugins.Lookup(j.Plugin)
	if err != nil {
		result.Err = err
		return result
	}

	res, err := source.Load(ctx, j.Source, source.Options{Query: j.Query, Sheet: j.Sheet})
	if err != nil {
		result.Err = fmt.Errorf("renderJob(): error loading %s: %w", j.Source, err)
		return result
	}
	result.Rows = len(res.Rows)

	spec, err := p.Transform(res, j.Options)
	if err != nil {
		result.Err = err
		return result
	}

	var opts []surface.Option
	if cfg.AssetsHost != "" {
		opts = append(opts, surface.WithAssetsHost(cfg.AssetsHost))
	}
	if j.Name != "" {
		opts = append(opts, surface.WithPageTitle(j.Name))
	}
	sf := surface.New(cfg.Width, cfg.Height, opts...)
	if err := sf.SetSpec(spec); err != nil {
		result.Err = err
		return result
	}

	option, err := sf.Option()
	if err != nil {
		result.Err = err
		return result
	}

	encodedOptions, err := json.Marshal(j.Options)
	if err != nil {
		result.Err = fmt.Errorf("renderJob(): error encoding options: %w", err)
		return result
	}
	result.Snapshot = domain.Snapshot{
		Timestamp: now,
		Name:      j.label(),
		Plugin:    p.Name(),
		Options:   string(encodedOptions),
		Spec:      string(option),
	}

	out := stdout
	if j.Out != "" {
		f, err := os.Create(j.Out)
		if err != nil {
			result.Err = fmt.Errorf("renderJob(): error creating %s: %w", j.Out, err)
			return result
		}
		defer f.Close()
		out = f
	}

	cw := &countingWriter{w: out}
	if err := writeChart(sf, j.Format, option, cw); err != nil {
		result.Err = err
		return result
	}
	result.Bytes = cw.n

	if j.Out != "" {
		log.Printf("generated chart at %s", j.Out)
	}

	return result
}

func writeChart(sf *surface.Surface, format string, option []byte, w io.Writer) error {
	switch format {
	case formatHTML:
		return sf.Render(w)
	case formatJSON, "":
		if _, err := w.Write(append(option, '\n')); err != nil {
			return fmt.Errorf("writeChart(): %w", err)
		}
		return nil
	default:
		return fmt.Errorf("writeChart(): unknown format %q, want %s or %s", format, formatJSON, formatHTML)
	}
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += n
	return n, err
}

// parseOptions merges an optional JSON options file with key=value pairs,
// the pairs taking precedence. Values stay strings; the plugin's controls
// coerce them.
func parseOptions(file string, pairs []string) (map[string]any, error) {
	values := make(map[string]any)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("parseOptions(): error reading %s: %w", file, err)
		}
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parseOptions(): error decoding %s: %w", file, err)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parseOptions(): expected key=value, got %q", pair)
		}
		values[key] = value
	}

	return values, nil
}
