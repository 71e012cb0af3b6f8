package core

import (
	"fmt"
	"log/slog"
	"sync"
)

// DiagnosticKind identifies a data-quality problem found during classification.
type DiagnosticKind string

const (
	DiagNonIntegerPosterNumbers DiagnosticKind = "non_integer_poster_numbers"
	DiagDuplicatePosterNumber   DiagnosticKind = "duplicate_poster_number"
	DiagUnclassified            DiagnosticKind = "unclassified"
)

// Diagnostic is an advisory message about the input data. It never changes
// the classification result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`

	// Duplicate poster numbers
	Value string `json:"value,omitempty"`
	Count int    `json:"count,omitempty"`

	// Unclassified rows
	Timestamp string `json:"timestamp,omitempty"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title,omitempty"`
}

func nonIntegerDiagnostic() Diagnostic {
	return Diagnostic{
		Kind:    DiagNonIntegerPosterNumbers,
		Message: "poster numbers are not integers, they might be sorted randomly",
	}
}

func duplicateDiagnostic(value string, count int) Diagnostic {
	return Diagnostic{
		Kind:    DiagDuplicatePosterNumber,
		Message: fmt.Sprintf("poster number %s is assigned to %d posters", value, count),
		Value:   value,
		Count:   count,
	}
}

func unclassifiedDiagnostic(s Submission) Diagnostic {
	return Diagnostic{
		Kind:      DiagUnclassified,
		Message:   fmt.Sprintf("entry has no valid type: %s %q %s", s.Timestamp, s.Type, s.Title),
		Timestamp: s.Timestamp,
		Type:      s.Type,
		Title:     s.Title,
	}
}

// Reporter receives diagnostics as Classify finds them.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Collector records diagnostics in the order they were reported.
// Safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// ByKind returns the recorded diagnostics of one kind.
func (c *Collector) ByKind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// LogReporter writes diagnostics as warnings to a structured logger.
type LogReporter struct {
	Logger *slog.Logger
}

// Report implements Reporter.
func (l LogReporter) Report(d Diagnostic) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := []any{"kind", string(d.Kind)}
	switch d.Kind {
	case DiagDuplicatePosterNumber:
		args = append(args, "poster_number", d.Value, "count", d.Count)
	case DiagUnclassified:
		args = append(args, "timestamp", d.Timestamp, "type", d.Type, "title", d.Title)
	}
	logger.Warn(d.Message, args...)
}

// MultiReporter fans each diagnostic out to several reporters.
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range reporters {
			if r != nil {
				r.Report(d)
			}
		}
	})
}
