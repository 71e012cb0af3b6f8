package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/confprogram/internal/schedule"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.MaxConcurrentPreviews != 4 {
		t.Errorf("Server.MaxConcurrentPreviews = %d, want %d", cfg.Server.MaxConcurrentPreviews, 4)
	}
	if cfg.Input.MaxFileSize != 20971520 {
		t.Errorf("Input.MaxFileSize = %d, want %d", cfg.Input.MaxFileSize, 20971520)
	}
	if cfg.Input.RefreshInterval != 5*time.Minute {
		t.Errorf("Input.RefreshInterval = %v, want %v", cfg.Input.RefreshInterval, 5*time.Minute)
	}
	if cfg.Event.UnassignedDay != "Mon" {
		t.Errorf("Event.UnassignedDay = %q, want %q", cfg.Event.UnassignedDay, "Mon")
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EVENT_NAME", "Cool Stars 21")
	t.Setenv("EVENT_DAYS", "Mon=2021-03-01,Tue=2021-03-02")
	t.Setenv("EVENT_UNASSIGNED_DAY", "Tue")
	t.Setenv("INPUT_REFRESH_INTERVAL", "0s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Event.Name != "Cool Stars 21" {
		t.Errorf("Event.Name = %q, want %q", cfg.Event.Name, "Cool Stars 21")
	}
	if cfg.Input.RefreshInterval != 0 {
		t.Errorf("Input.RefreshInterval = %v, want 0", cfg.Input.RefreshInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	days, err := cfg.DayTable()
	if err != nil {
		t.Fatalf("DayTable() error = %v", err)
	}
	d, err := days.Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\") error = %v", err)
	}
	if want := (schedule.Date{Year: 2021, Month: time.March, Day: 2}); d != want {
		t.Errorf("unassigned date = %v, want %v", d, want)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// INPUT_PATH works as fallback for PROGRAM_INPUT
	t.Setenv("PROGRAM_INPUT", "")
	t.Setenv("INPUT_PATH", "/data/abstracts.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.Path != "/data/abstracts.csv" {
		t.Errorf("Input.Path = %q, want %q", cfg.Input.Path, "/data/abstracts.csv")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SERVER_PREVIEW_WAIT", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "SERVER_PREVIEW_WAIT") {
		t.Errorf("error should mention SERVER_PREVIEW_WAIT: %v", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoad_EventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	data := `name: Cool Stars 20.5
timezone: UTC
unassigned_day: Tue
days:
  - code: Mon
    date: 2021-03-01
  - code: Tue
    date: 2021-03-02
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EVENT_FILE", path)
	t.Setenv("EVENT_NAME", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Event.Name != "Cool Stars 20.5" {
		t.Errorf("Event.Name = %q, want file value", cfg.Event.Name)
	}
	if cfg.Event.Days != "Mon=2021-03-01,Tue=2021-03-02" {
		t.Errorf("Event.Days = %q", cfg.Event.Days)
	}

	days, err := cfg.DayTable()
	if err != nil {
		t.Fatalf("DayTable() error = %v", err)
	}
	start, err := days.Parse("", "", false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := time.Date(2021, 3, 2, 19, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("unassigned start = %v, want %v", start, want)
	}
}

func TestLoad_EventFileMissing(t *testing.T) {
	t.Setenv("EVENT_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestParseEventFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "missing name",
			data:    "unassigned_day: Mon\ndays:\n  - code: Mon\n    date: 2018-07-30\n",
			wantMsg: "EventFile.Name is required",
		},
		{
			name:    "bad date",
			data:    "name: x\nunassigned_day: Mon\ndays:\n  - code: Mon\n    date: 30.07.2018\n",
			wantMsg: "EventFile.Days[0].Date must be a date of the form YYYY-MM-DD",
		},
		{
			name:    "long code",
			data:    "name: x\nunassigned_day: Mon\ndays:\n  - code: Monday\n    date: 2018-07-30\n",
			wantMsg: "EventFile.Days[0].Code must be at most 3 characters",
		},
		{
			name:    "no days",
			data:    "name: x\nunassigned_day: Mon\ndays: []\n",
			wantMsg: "EventFile.Days",
		},
		{
			name:    "repeated code",
			data:    "name: x\nunassigned_day: Mon\ndays:\n  - code: Mon\n    date: 2018-07-30\n  - code: Mon\n    date: 2018-07-31\n",
			wantMsg: "EventFile.Days must not repeat a Code",
		},
		{
			name:    "unknown zone",
			data:    "name: x\ntimezone: Mars/Olympus\nunassigned_day: Mon\ndays:\n  - code: Mon\n    date: 2018-07-30\n",
			wantMsg: "EventFile.Timezone must be an IANA time zone name",
		},
		{
			name:    "unknown key",
			data:    "name: x\nvenue: Boston\nunassigned_day: Mon\ndays:\n  - code: Mon\n    date: 2018-07-30\n",
			wantMsg: "venue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEventFile([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseEventFile() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

// validConfig returns a configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second, MaxConcurrentPreviews: 1, PreviewWait: time.Second},
		Input:   InputConfig{MaxFileSize: 1},
		Event:   EventConfig{Days: "Mon=2018-07-30", UnassignedDay: "Mon", Timezone: "UTC"},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, PreviewLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"no preview slots", func(c *Config) { c.Server.MaxConcurrentPreviews = 0 }, "SERVER_MAX_CONCURRENT_PREVIEWS"},
		{"negative refresh", func(c *Config) { c.Input.RefreshInterval = -time.Second }, "INPUT_REFRESH_INTERVAL"},
		{"bad day list", func(c *Config) { c.Event.Days = "Mon" }, "EVENT_DAYS"},
		{"unassigned not listed", func(c *Config) { c.Event.UnassignedDay = "Fri" }, "EVENT_UNASSIGNED_DAY"},
		{"unknown zone", func(c *Config) { c.Event.Timezone = "Mars/Olympus" }, "EVENT_TIMEZONE"},
		{"api key required", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error should mention %s: %v", tt.wantMsg, err)
			}
		})
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"s3cret-key"}

	str := cfg.String()
	if strings.Contains(str, "s3cret") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
