package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFiresOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("graphics:\n  width: 1024\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case <-w.Events:
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Close()

	sibling := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(sibling, []byte("unrelated"), 0644); err != nil {
		t.Fatalf("failed to write sibling file: %v", err)
	}

	select {
	case <-w.Events:
		t.Error("unexpected event for sibling file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchCloseTwice(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
