package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

// Program is one classified snapshot of the submission spreadsheet, ready
// for rendering.
type Program struct {
	RunID       string       `json:"run_id"`
	Event       string       `json:"event"`
	Source      string       `json:"source"`
	GeneratedAt time.Time    `json:"generated_at"`
	Talks       []Submission `json:"talks"`
	Posters     []Submission `json:"posters"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Submissions returns the number of talks and posters in the program.
func (p *Program) Submissions() int {
	return len(p.Talks) + len(p.Posters)
}

// Unclassified returns the number of rows reported without a valid type.
func (p *Program) Unclassified() int {
	n := 0
	for _, d := range p.Diagnostics {
		if d.Kind == DiagUnclassified {
			n++
		}
	}
	return n
}

// RunObserver is told about every Build, successful or not.
// err is nil on success; p is nil on failure.
type RunObserver interface {
	ObserveRun(p *Program, elapsed time.Duration, err error)
}

// Service builds programs for one event.
type Service struct {
	days     schedule.DayTable
	event    string
	logger   *slog.Logger
	observer RunObserver
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger that receives run logs and diagnostics.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithObserver registers a RunObserver, typically the metrics recorder.
func WithObserver(o RunObserver) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// WithClock overrides time.Now for GeneratedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service for the event described by days.
func NewService(days schedule.DayTable, event string, opts ...ServiceOption) *Service {
	s := &Service{
		days:   days,
		event:  event,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Days returns the event's day table.
func (s *Service) Days() schedule.DayTable {
	return s.days
}

// Event returns the event name.
func (s *Service) Event() string {
	return s.event
}

// Build validates and classifies a loaded table. source names the input
// (file name or upload name) in logs and in the program.
func (s *Service) Build(ctx context.Context, table *Table, source string) (*Program, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := s.logger.With("run_id", runID, "source", source)

	p, err := s.build(ctx, table, source, runID, logger)
	if s.observer != nil {
		s.observer.ObserveRun(p, time.Since(start), err)
	}
	if err != nil {
		logger.Error("program build failed", "error", err)
		return nil, err
	}

	logger.Info("program built",
		"talks", len(p.Talks),
		"posters", len(p.Posters),
		"diagnostics", len(p.Diagnostics),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return p, nil
}

func (s *Service) build(ctx context.Context, table *Table, source, runID string, logger *slog.Logger) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}
	if _, err := ValidateHeaders(table.Columns); err != nil {
		return nil, err
	}

	collector := &Collector{}
	reporter := MultiReporter(collector, LogReporter{Logger: logger})

	result, err := Classify(table, s.days, reporter)
	if err != nil {
		return nil, err
	}

	diags := collector.Diagnostics()
	if diags == nil {
		diags = []Diagnostic{}
	}
	return &Program{
		RunID:       runID,
		Event:       s.event,
		Source:      source,
		GeneratedAt: s.now(),
		Talks:       result.Talks,
		Posters:     result.Posters,
		Diagnostics: diags,
	}, nil
}
