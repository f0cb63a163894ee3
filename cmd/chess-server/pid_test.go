package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestManagePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.pid")

	cleanup, err := managePIDFile(path, true)
	if err != nil {
		t.Fatalf("managePIDFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("PID file contains %q, want %d", got, os.Getpid())
	}

	// Our own live process holds the file
	if _, err := managePIDFile(path, true); err == nil {
		t.Error("second locked managePIDFile() succeeded")
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("PID file not removed: %v", err)
	}
}

func TestManagePIDFileCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := managePIDFile(path, true); err == nil {
		t.Error("managePIDFile() accepted a corrupted PID file")
	}

	// Without locking the file is simply overwritten
	cleanup, err := managePIDFile(path, false)
	if err != nil {
		t.Fatalf("unlocked managePIDFile() error: %v", err)
	}
	cleanup()
}
