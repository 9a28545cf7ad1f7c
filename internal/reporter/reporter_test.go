package reporter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"sessionprobe/internal/config"
	"sessionprobe/pkg/login"
)

func TestFormatText(t *testing.T) {
	r := New(config.Default())

	tests := []struct {
		name   string
		result *login.Result
		want   string
	}{
		{
			name:   "found",
			result: &login.Result{User: "alice", Found: true, Session: "/org/freedesktop/login1/session/_32"},
			want:   "User alice has an active graphical session.",
		},
		{
			name:   "not found",
			result: &login.Result{User: "bob"},
			want:   "User bob does not have an active graphical session.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Format(tt.result)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	cfg := config.Default()
	cfg.Output.JSON = true
	r := New(cfg)

	out, err := r.Format(&login.Result{
		User:    "alice",
		Found:   true,
		Session: "/org/freedesktop/login1/session/_32",
		Scanned: 2,
		Skipped: []login.Handle{"/org/freedesktop/login1/session/c1"},
	})
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("JSON output spans lines: %q", out)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["user"] != "alice" || decoded["found"] != true {
		t.Errorf("decoded = %v", decoded)
	}
	if decoded["session"] != "/org/freedesktop/login1/session/_32" {
		t.Errorf("session = %v", decoded["session"])
	}
	if decoded["scanned"] != float64(2) {
		t.Errorf("scanned = %v", decoded["scanned"])
	}

	notFound, _ := r.FormatJSON(&login.Result{User: "bob"})
	if strings.Contains(notFound, "session") || strings.Contains(notFound, "skipped") {
		t.Errorf("empty fields not omitted: %s", notFound)
	}
}

func TestExitCode(t *testing.T) {
	found := &login.Result{User: "alice", Found: true}
	missing := &login.Result{User: "alice"}
	queryErr := errors.New("failed to list sessions")

	tests := []struct {
		name   string
		strict bool
		result *login.Result
		err    error
		want   int
	}{
		{"found", false, found, nil, 0},
		{"not found", false, missing, nil, 0},
		{"error", false, nil, queryErr, 1},
		{"strict found", true, found, nil, 0},
		{"strict not found", true, missing, nil, 1},
		{"strict error", true, nil, queryErr, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Output.StrictExit = tt.strict
			if got := New(cfg).ExitCode(tt.result, tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
