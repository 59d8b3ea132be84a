package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testDaemon(t *testing.T) GlobalFlags {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/start", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("POST /api/stop", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"is_running": true, "current_attempt": 3, "last_status": "Trying AD-1...", "log_count": 5,
		})
	})
	mux.HandleFunc("GET /api/logs", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"logs":  []map[string]string{{"timestamp": "2026-01-02 15:04:05", "message": "Attempt 1 - Trying AD-1...", "level": "info"}},
			"total": 1,
		})
	})
	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"configured": map[string]bool{"tenancy_ocid": true}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return GlobalFlags{APIUrl: srv.URL, APITimeout: 2 * time.Second}
}

func TestCmdVerbsAgainstDaemon(t *testing.T) {
	flags := testDaemon(t)
	cmd := command{}
	if err := cmd.Start(flags); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := cmd.Status(flags); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := cmd.Logs(flags, LogsFlags{Since: 0}); err != nil {
		t.Fatalf("logs: %v", err)
	}
	if err := cmd.Config(flags); err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := cmd.Stop(flags); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestCmdStatusUnreachable(t *testing.T) {
	flags := GlobalFlags{APIUrl: "http://127.0.0.1:1", APITimeout: 200 * time.Millisecond}
	err := command{}.Status(flags)
	if err == nil {
		t.Fatal("expected error for unreachable daemon")
	}
	if !strings.Contains(err.Error(), "vmhuntr serve") {
		t.Fatalf("expected hint to start the daemon, got: %v", err)
	}
}

func TestBuildRootWiresSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{"serve": false, "start": false, "stop": false, "status": false, "logs": false, "config": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
	if f := root.PersistentFlags().Lookup("api-url"); f == nil || f.DefValue != "http://localhost:8000" {
		t.Fatalf("unexpected api-url flag: %+v", f)
	}
}

func TestServeFlagDefaults(t *testing.T) {
	root := buildRoot()
	for _, c := range root.Commands() {
		if c.Name() == "serve" {
			if f := c.Flags().Lookup("listen"); f == nil || f.DefValue != ":8000" {
				t.Fatalf("unexpected listen default: %+v", f)
			}
			if f := c.Flags().Lookup("env-file"); f == nil || f.DefValue != ".env" {
				t.Fatalf("unexpected env-file default: %+v", f)
			}
			return
		}
	}
	t.Fatal("serve command not found")
}
