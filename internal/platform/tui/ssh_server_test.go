package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHostKeyPathCreatesDirectory(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "host_key")
	got, err := hostKeyPath(want)
	if err != nil {
		t.Fatalf("hostKeyPath() failed: %v", err)
	}
	if got != want {
		t.Errorf("hostKeyPath() = %s, expected %s", got, want)
	}
	if info, err := os.Stat(filepath.Dir(want)); err != nil || !info.IsDir() {
		t.Errorf("key directory not created: %v", err)
	}
}

func TestSSHServerStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "host_key")
	cfg.DBPath = filepath.Join(dir, "runs.db")
	cfg.Logger = log.New(io.Discard)

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	if srv.store == nil {
		t.Error("run history not opened")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.ListenAndServe(ctx); err != nil {
		t.Errorf("ListenAndServe() = %v after cancel", err)
	}
	if srv.store != nil {
		t.Error("run history still open after shutdown")
	}
	if n := srv.Sessions(); n != 0 {
		t.Errorf("Sessions() = %d", n)
	}
}
