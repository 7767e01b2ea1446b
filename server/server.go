// Package server exposes the chart plugins over a small JSON API, standing
// in for the dashboard host: it posts rows and options and gets back the
// chart spec or a rendered page.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fwielstra/vizplugins/controls"
	"github.com/fwielstra/vizplugins/domain"
	"github.com/fwielstra/vizplugins/plugins"
	"github.com/fwielstra/vizplugins/sqlite"
	"github.com/fwielstra/vizplugins/surface"
	"github.com/rs/cors"
)

// maxBodySize bounds request bodies; query results are posted whole.
const maxBodySize = 10 << 20

type Options struct {
	Width          int
	Height         int
	AssetsHost     string
	AllowedOrigins []string
}

type Server struct {
	db      *sql.DB
	log     *log.Logger
	options Options
	handler http.Handler
}

// New creates the API server. db may be nil, in which case snapshots are
// neither saved nor listed.
func New(db *sql.DB, logger *log.Logger, o Options) *Server {
	s := &Server{db: db, log: logger, options: o}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/plugins", s.handleListPlugins)
	mux.HandleFunc("GET /api/v1/plugins/{name}/controls", s.handleControls)
	mux.HandleFunc("POST /api/v1/plugins/{name}/controls", s.handleControls)
	mux.HandleFunc("POST /api/v1/plugins/{name}/transform", s.handleTransform)
	mux.HandleFunc("POST /api/v1/plugins/{name}/render", s.handleRender)
	if db != nil {
		mux.HandleFunc("GET /api/v1/snapshots", s.handleSnapshots)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
	})
	s.handler = c.Handler(s.logRequests(mux))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.Printf("Server starting on %s", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		s.log.Print("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// ChartRequest is the body of the controls, transform and render calls.
type ChartRequest struct {
	Columns []string       `json:"columns,omitempty"`
	Rows    []domain.Row   `json:"rows"`
	Options map[string]any `json:"options"`
}

func (req ChartRequest) result() domain.Result {
	return domain.Result{Columns: req.Columns, Rows: req.Rows}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("error writing response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, plugins.ErrUnknownPlugin):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, controls.ErrInvalidValue),
		errors.Is(err, controls.ErrOutOfRange),
		errors.Is(err, controls.ErrInvalidOptions):
		status = http.StatusBadRequest
	default:
		s.log.Printf("internal error: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func decodeRequest(w http.ResponseWriter, r *http.Request) (ChartRequest, error) {
	var req ChartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return req, nil
}

func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"plugins": plugins.Names()})
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	p, err := plugins.Lookup(r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var values map[string]any
	if r.Method == http.MethodPost {
		req, err := decodeRequest(w, r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		values = req.Options
	}

	descriptors, err := p.Describe(values)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"plugin": p.Name(), "controls": descriptors})
}

// buildSurface runs the plugin transform for the request and binds the spec
// to a new surface.
func (s *Server) buildSurface(r *http.Request, req ChartRequest) (*surface.Surface, error) {
	p, err := plugins.Lookup(r.PathValue("name"))
	if err != nil {
		return nil, err
	}

	width, err := dimension(r, "width", s.options.Width)
	if err != nil {
		return nil, err
	}
	height, err := dimension(r, "height", s.options.Height)
	if err != nil {
		return nil, err
	}

	spec, err := p.Transform(req.result(), req.Options)
	if err != nil {
		return nil, err
	}

	var opts []surface.Option
	if s.options.AssetsHost != "" {
		opts = append(opts, surface.WithAssetsHost(s.options.AssetsHost))
	}
	sf := surface.New(width, height, opts...)
	if err := sf.SetSpec(spec); err != nil {
		return nil, err
	}
	return sf, nil
}

func dimension(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, name)
	}
	return n, nil
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sf, err := s.buildSurface(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	option, err := sf.Option()
	if err != nil {
		s.writeError(w, err)
		return
	}

	if name := r.URL.Query().Get("save"); name != "" && s.db != nil {
		if err := s.save(name, r.PathValue("name"), req.Options, option); err != nil {
			s.writeError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(option); err != nil {
		s.log.Printf("error writing response: %v", err)
	}
}

func (s *Server) save(name, plugin string, options map[string]any, spec []byte) error {
	opts, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("save(): error encoding options: %w", err)
	}
	return sqlite.SaveSnapshot(s.db, domain.Snapshot{
		Timestamp: time.Now(),
		Name:      name,
		Plugin:    plugin,
		Options:   string(opts),
		Spec:      string(spec),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sf, err := s.buildSurface(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sf.Render(w); err != nil {
		s.log.Printf("error rendering chart: %v", err)
	}
}

type snapshotResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	Name      string          `json:"name"`
	Plugin    string          `json:"plugin"`
	Options   json.RawMessage `json:"options,omitempty"`
	Spec      json.RawMessage `json:"spec,omitempty"`
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	var snapshots []domain.Snapshot
	var err error
	if name := r.URL.Query().Get("name"); name != "" {
		snapshots, err = sqlite.LoadNamedSnapshots(s.db, name)
	} else {
		snapshots, err = sqlite.LoadSnapshots(s.db)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]snapshotResponse, len(snapshots))
	for i, snap := range snapshots {
		out[i] = snapshotResponse{
			Timestamp: snap.Timestamp,
			Name:      snap.Name,
			Plugin:    snap.Plugin,
			Options:   rawJSON(snap.Options),
			Spec:      rawJSON(snap.Spec),
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"snapshots": out})
}

func rawJSON(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
