package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/sqlite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// if true, only renders the charts and prints the results, does not persist the snapshots
var dontPersist bool

// manifest lists the charts a batch renders.
type manifest struct {
	Jobs []chartJob `json:"jobs"`
}

func NewBatchCmd(db *sql.DB, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <manifest.json>",
		Short: "Renders every chart in a manifest and saves them as snapshots",
		Long: `Renders the charts listed in a JSON manifest of the form

  {"jobs": [{"name": "sales", "plugin": "bar", "source": "sales.csv",
             "options": {"cols": "region"}, "format": "html", "out": "sales.html"}]}

concurrently, then saves every rendered spec as a snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(args[0])
			if err != nil {
				return err
			}
			return runBatch(cmd, db, cfg, m.Jobs)
		},
	}

	cmd.PersistentFlags().BoolVar(&dontPersist, "dont-persist", false, "Render the charts but do not persist the snapshots in the database")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of charts to render at the same time")

	return cmd
}

func loadManifest(path string) (manifest, error) {
	var m manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("loadManifest(): error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("loadManifest(): error decoding %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return m, fmt.Errorf("loadManifest(): %s lists no jobs", path)
	}

	return m, nil
}

func runBatch(cmd *cobra.Command, db *sql.DB, cfg config.Config, jobs []chartJob) error {
	// use one timestamp for all snapshots
	now := time.Now()
	results := renderAll(cmd.Context(), jobs, cfg, cmd.OutOrStdout(), now)

	var snapshots []domain.Snapshot
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Job.label(), res.Err))
			continue
		}
		snapshots = append(snapshots, res.Snapshot)
	}

	if !dontPersist && len(snapshots) > 0 {
		if err := sqlite.SaveSnapshots(db, snapshots); err != nil {
			return fmt.Errorf("error saving snapshots: %w", err)
		}
	}

	writeBatchTable(cmd, fmt.Sprintf("Rendered charts at %s", now.Format("2006-01-02 15:04:05")), results)

	return errors.Join(errs...)
}

// renderAll renders the jobs on cfg.Workers workers. Results come back in
// job order.
func renderAll(ctx context.Context, jobs []chartJob, cfg config.Config, stdout io.Writer, now time.Time) []chartResult {
	type task struct {
		index int
		job   chartJob
	}
	type indexedResult struct {
		index  int
		result chartResult
	}

	// jobs without an output file share stdout
	var stdoutMu sync.Mutex

	worker := func(tasks <-chan task, results chan<- indexedResult, wg *sync.WaitGroup) {
		defer wg.Done()
		for t := range tasks {
			log.Printf("Rendering chart %s...", t.job.label())

			var res chartResult
			if t.job.Out == "" {
				stdoutMu.Lock()
				res = renderJob(ctx, t.job, cfg, stdout, now)
				stdoutMu.Unlock()
			} else {
				res = renderJob(ctx, t.job, cfg, stdout, now)
			}

			results <- indexedResult{index: t.index, result: res}
		}
	}

	tasks := make(chan task, len(jobs))
	results := make(chan indexedResult, len(jobs))
	var wg sync.WaitGroup

	workers := max(1, min(cfg.Workers, len(jobs)))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(tasks, results, &wg)
	}

	go func() {
		for i, j := range jobs {
			tasks <- task{index: i, job: j}
		}
		close(tasks)
	}()

	// Fan-in: Close results channel once all workers complete
	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]chartResult, len(jobs))
	for res := range results {
		ordered[res.index] = res.result
	}

	return ordered
}

func writeBatchTable(cmd *cobra.Command, title string, results []chartResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Name", "Plugin", "Source", "Rows", "Output", "Status"})

	for _, res := range results {
		output := res.Job.Out
		if output == "" {
			output = "stdout"
		}

		status := "ok, " + humanize.Bytes(uint64(res.Bytes))
		if res.Err != nil {
			status = res.Err.Error()
		}

		t.AppendRow(table.Row{res.Job.label(), res.Job.Plugin, res.Job.Source, res.Rows, output, status})
	}
	t.Render()
}
