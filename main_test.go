package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunStepsRunsInOrder(t *testing.T) {
	dir := t.TempDir()
	steps := []procConfig{
		{Name: "first", Args: []string{"sh", "-c", "echo $FOLIO_MARK > one.txt"}, Dir: dir, Env: []string{"FOLIO_MARK=one"}},
		{Name: "second", Args: []string{"sh", "-c", "cat one.txt > two.txt"}, Dir: dir},
	}
	if err := runSteps(context.Background(), steps); err != nil {
		t.Fatalf("run steps: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "two.txt"))
	if err != nil {
		t.Fatalf("read two.txt: %v", err)
	}
	if strings.TrimSpace(string(data)) != "one" {
		t.Fatalf("expected second step to see the first's output, got %q", data)
	}
}

func TestRunStepsStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	steps := []procConfig{
		{Name: "broken", Args: []string{"sh", "-c", "exit 3"}, Dir: dir},
		{Name: "after", Args: []string{"sh", "-c", "touch after.txt"}, Dir: dir},
	}
	err := runSteps(context.Background(), steps)
	if err == nil || !strings.HasPrefix(err.Error(), "broken:") {
		t.Fatalf("expected failure naming the step, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "after.txt")); !os.IsNotExist(err) {
		t.Fatalf("later steps must not run after a failure")
	}
	if err := runSteps(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty step list")
	}
}

func TestServeReportsUnexpectedExit(t *testing.T) {
	err := serve(context.Background(), procConfig{Name: "ui-server", Args: []string{"sh", "-c", "exit 2"}})
	if err == nil || !strings.Contains(err.Error(), "ui-server exited") {
		t.Fatalf("expected exit error, got %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, procConfig{Name: "ui-server", Args: []string{"sleep", "30"}})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("interrupted server must not report an error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancellation")
	}
}
