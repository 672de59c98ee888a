package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

func TestNewWithoutFiles(t *testing.T) {
	_, err := New(nil, 0, nil, nil)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("New(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New([]string{"a.xml", "b.xml"}, 0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
	if len(w.dirs) != 1 || len(w.files) != 2 {
		t.Errorf("dirs = %v, files = %v", w.dirs, w.files)
	}
}

func TestRunTriggersHandler(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "translations.xml")
	if err := os.WriteFile(target, []byte("<translations/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := make(chan string, 10)
	w, err := New([]string{target}, 50*time.Millisecond, func(ctx context.Context, path string) error {
		calls <- path
		return errors.New("handler errors are only logged")
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-calls:
		t.Fatalf("handler called for %s", p)
	case <-time.After(300 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("<translations></translations>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case p := <-calls:
		abs, _ := filepath.Abs(target)
		if p != abs {
			t.Errorf("handler path = %q, want %q", p, abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called")
	}

	// Replacing the file by rename is a change too
	tmp := filepath.Join(dir, ".translations.tmp")
	if err := os.WriteFile(tmp, []byte("<translations/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called after rename")
	}

	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Stop")
	}
	w.Stop()
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "gone", "t.xml")}, time.Millisecond, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); !mdwerror.HasCode(err, mdwerror.CodeIO) {
		t.Errorf("Run() error = %v, want IO_ERROR", err)
	}
	select {
	case <-w.Ready():
	default:
		t.Error("Ready() still open after Run failed")
	}
}
