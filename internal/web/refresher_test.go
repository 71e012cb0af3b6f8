package web

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/confprogram/internal/core"
	"github.com/JonMunkholm/confprogram/internal/schedule"
	"github.com/JonMunkholm/confprogram/internal/sheet"
)

func newTestRefresher(load Loader, interval time.Duration) *Refresher {
	service := core.NewService(schedule.DefaultDayTable(), "Cool Stars 20", core.WithLogger(quietLogger()))
	r := NewRefresher(service, load, interval)
	r.logger = quietLogger()
	return r
}

func TestRefresher_CurrentBeforeRefresh(t *testing.T) {
	r := newTestRefresher(staticLoader(sampleCSV), 0)

	if _, err := r.Current(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Current() error = %v, want ErrNotBuilt", err)
	}
	if st := r.Status(); st.Ready || !st.LastAttempt.IsZero() {
		t.Errorf("Status() = %+v, want zero", st)
	}
}

func TestRefresher_Refresh(t *testing.T) {
	r := newTestRefresher(staticLoader(sampleCSV), 0)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	p, err := r.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if len(p.Talks) != 2 || len(p.Posters) != 1 {
		t.Errorf("talks, posters = %d, %d, want 2, 1", len(p.Talks), len(p.Posters))
	}

	st := r.Status()
	if !st.Ready || st.RunID != p.RunID || st.LastError != "" {
		t.Errorf("Status() = %+v", st)
	}
}

func TestRefresher_FailureKeepsProgram(t *testing.T) {
	var fail atomic.Bool
	load := func(ctx context.Context) (*core.Table, string, error) {
		if fail.Load() {
			return nil, "", sheet.ErrEmptyFile
		}
		return staticLoader(sampleCSV)(ctx)
	}
	r := newTestRefresher(load, 0)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	good, _ := r.Current()

	fail.Store(true)
	if err := r.Refresh(context.Background()); !errors.Is(err, sheet.ErrEmptyFile) {
		t.Fatalf("Refresh() error = %v, want ErrEmptyFile", err)
	}

	p, err := r.Current()
	if err != nil || p != good {
		t.Errorf("Current() = %v, %v, want the previous program", p, err)
	}
	if st := r.Status(); st.LastError != "empty file" {
		t.Errorf("LastError = %q, want empty file", st.LastError)
	}
}

func TestRefresher_FailureWithoutProgram(t *testing.T) {
	r := newTestRefresher(failingLoader(ErrNoInput), 0)
	_ = r.Refresh(context.Background())

	if _, err := r.Current(); !errors.Is(err, ErrNoInput) {
		t.Errorf("Current() error = %v, want ErrNoInput", err)
	}
}

func TestRefresher_RunOnce(t *testing.T) {
	var calls atomic.Int32
	load := func(ctx context.Context) (*core.Table, string, error) {
		calls.Add(1)
		return staticLoader(sampleCSV)(ctx)
	}
	r := newTestRefresher(load, 0)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with interval 0 did not return")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}
}

func TestRefresher_RunPeriodic(t *testing.T) {
	var calls atomic.Int32
	load := func(ctx context.Context) (*core.Table, string, error) {
		calls.Add(1)
		return staticLoader(sampleCSV)(ctx)
	}
	r := newTestRefresher(load, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("loads = %d after 1s, want at least 3", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstracts.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	table, source, err := FileLoader(path, sheet.Options{})(context.Background())
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if source != path || table.Len() != 4 {
		t.Errorf("source, rows = %q, %d, want %q, 4", source, table.Len(), path)
	}

	_, _, err = FileLoader(filepath.Join(t.TempDir(), "missing.csv"), sheet.Options{})(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
	if code := core.MapError(err).Code; code != "FILE006" {
		t.Errorf("missing file code = %q, want FILE006", code)
	}
}
