package web

// refresher.go keeps the served program in step with the input spreadsheet.
//
// Organizers keep editing the spreadsheet while the server runs, so the
// refresher rebuilds the program once at start and then every interval.
// A failed rebuild is logged and the last good program stays in place; the
// error is kept so /healthz and the pages can explain what went wrong.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/sheet"
)

// ErrNoInput is returned by the loader when no input path is configured.
var ErrNoInput = errors.New("no input file configured")

// ErrNotBuilt is returned by Current before the first refresh has run.
var ErrNotBuilt = errors.New("program not built yet")

// Loader reads the current submission table and names its source.
type Loader func(ctx context.Context) (*core.Table, string, error)

// FileLoader loads the spreadsheet at path on every call.
func FileLoader(path string, opts sheet.Options) Loader {
	return func(ctx context.Context) (*core.Table, string, error) {
		if path == "" {
			return nil, "", ErrNoInput
		}
		table, err := sheet.Load(ctx, path, opts)
		return table, path, err
	}
}

// Refresher owns the latest successfully built program.
type Refresher struct {
	service  *core.Service
	load     Loader
	interval time.Duration
	logger   *slog.Logger

	mu          sync.RWMutex
	program     *core.Program
	lastErr     error
	lastAttempt time.Time
}

// NewRefresher creates a Refresher. An interval of zero or less builds once
// and never again.
func NewRefresher(service *core.Service, load Loader, interval time.Duration) *Refresher {
	return &Refresher{
		service:  service,
		load:     load,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Run refreshes immediately, then every interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("program refresher started", "interval", r.interval.String())

	r.Refresh(ctx)
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("program refresher stopped")
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh loads and builds once. On success the new program replaces the
// old one; on failure the old program is kept and the error returned.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	program, err := r.build(ctx)

	r.mu.Lock()
	r.lastAttempt = start
	r.lastErr = err
	if err == nil {
		r.program = program
	}
	kept := r.program != nil
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("program refresh failed",
			"error", err,
			"code", core.MapError(err).Code,
			"serving_previous", kept,
		)
		return err
	}

	r.logger.Debug("program refreshed",
		"run_id", program.RunID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (r *Refresher) build(ctx context.Context) (*core.Program, error) {
	table, source, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return r.service.Build(ctx, table, source)
}

// Current returns the last good program. Before any build has succeeded it
// returns the most recent error, or ErrNotBuilt if none has run.
func (r *Refresher) Current() (*core.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.program != nil {
		return r.program, nil
	}
	if r.lastErr != nil {
		return nil, r.lastErr
	}
	return nil, ErrNotBuilt
}

// RefreshStatus describes the refresher for /healthz.
type RefreshStatus struct {
	Ready       bool      `json:"ready"`
	RunID       string    `json:"run_id,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Status returns the refresher's current state.
func (r *Refresher) Status() RefreshStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := RefreshStatus{
		Ready:       r.program != nil,
		LastAttempt: r.lastAttempt,
	}
	if r.program != nil {
		st.RunID = r.program.RunID
	}
	if r.lastErr != nil {
		st.LastError = r.lastErr.Error()
	}
	return st
}
