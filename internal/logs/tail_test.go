package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sosi2gpkg/internal/logs"
)

func TestLastReturnsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sosi2gpkg.log")
	content := "a\nb\nc\npartial"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("last returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != int64(len("a\nb\nc\n")) {
		t.Fatalf("offset = %d, want end of last complete line", offset)
	}
}

func TestLastAppliesFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sosi2gpkg.log")
	content := "run=1 start\nrun=2 start\nrun=1 done\nrun=2 done\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	lines, _, err := logs.Last(path, 10, logs.Filter{"run=1"})
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if len(lines) != 2 || lines[0] != "run=1 start" || lines[1] != "run=1 done" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "absent.log"), 5, nil)
	if err != nil || len(lines) != 0 || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sosi2gpkg.log")
	if err := os.WriteFile(path, []byte("start\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatalf("initial last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var (
		mu  sync.Mutex
		got []string
	)
	seen := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			select {
			case seen <- struct{}{}:
			default:
			}
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case <-seen:
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not emit the appended line")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("follow returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected follow lines: %#v", got)
	}
}
