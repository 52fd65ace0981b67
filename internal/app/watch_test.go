package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatchRequiresWrite(t *testing.T) {
	a, _, stderr := newTestApp(Options{})
	if code := a.Watch(context.Background(), []string{t.TempDir()}); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), ErrWatchWithoutWrite.Error()) {
		t.Errorf("stderr = %q, want %q", stderr.String(), ErrWatchWithoutWrite)
	}
}

func TestWatchRequiresPaths(t *testing.T) {
	a, _, stderr := newTestApp(Options{Write: true})
	if code := a.Watch(context.Background(), nil); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), ErrWatchWithoutPaths.Error()) {
		t.Errorf("stderr = %q, want %q", stderr.String(), ErrWatchWithoutPaths)
	}
}

// waitForContent polls path until it holds want or the deadline passes.
func waitForContent(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && string(data) == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	data, _ := os.ReadFile(path)
	t.Fatalf("content of %s = %q, want %q", path, data, want)
}

func TestWatchConvertsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "spawn.mcfunction")
	writeTestFile(t, existing, "say @a[1 2 3]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, _, _ := newTestApp(Options{Write: true})
	done := make(chan int, 1)
	go func() { done <- a.Watch(ctx, []string{dir}) }()

	// The initial pass converts what is already there.
	waitForContent(t, existing, "say @a[x=1,y=2,z=3]\n")

	// Give the watcher a moment to register before dropping a new file in.
	time.Sleep(500 * time.Millisecond)

	added := filepath.Join(dir, "arena.mcfunction")
	writeTestFile(t, added, "tp @e[111 200 333 100 222 300]\n")
	waitForContent(t, added, "tp @e[x=100,y=200,z=300,dx=11,dy=22,dz=33]\n")

	cancel()
	if code := <-done; code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestWatcherCoalescesEvents(t *testing.T) {
	dir := t.TempDir()

	w, err := newWatcher(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("newWatcher: %v", err)
	}
	defer w.close()
	if err := w.add(dir); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	path := filepath.Join(dir, "burst.mcfunction")
	for i := 0; i < 3; i++ {
		writeTestFile(t, path, "say @a[1 2 3]\n")
	}

	select {
	case got := <-w.changes:
		if got != path {
			t.Fatalf("change = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	// The burst of writes lands inside one debounce window.
	select {
	case got := <-w.changes:
		t.Errorf("unexpected second change for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := newWatcher(30 * time.Millisecond)
	if err != nil {
		t.Fatalf("newWatcher: %v", err)
	}
	defer w.close()
	if err := w.add(dir); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	writeTestFile(t, filepath.Join(dir, ".hidden.mcfunction"), "say @a[1 2 3]\n")
	visible := filepath.Join(dir, "visible.mcfunction")
	writeTestFile(t, visible, "say @a[1 2 3]\n")

	select {
	case got := <-w.changes:
		if got != visible {
			t.Errorf("change = %q, want only %q", got, visible)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}
}

func TestWatcherSeesNewDirectories(t *testing.T) {
	dir := t.TempDir()

	w, err := newWatcher(30 * time.Millisecond)
	if err != nil {
		t.Fatalf("newWatcher: %v", err)
	}
	defer w.close()
	if err := w.add(dir); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Let the new directory's watch land before writing into it.
	time.Sleep(300 * time.Millisecond)

	path := filepath.Join(sub, "deep.mcfunction")
	writeTestFile(t, path, "say @a[1 2 3]\n")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-w.changes:
			if got == path {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for change in new directory")
		}
	}
}
