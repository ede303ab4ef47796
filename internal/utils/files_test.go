package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "run", "01_boxplots.png")
	if err := SafeWriteFile(p, []byte("png")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "png" {
		t.Fatalf("unexpected content %q (%v)", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got, err := ExpandInputs([]string{
		filepath.Join(dir, "*.csv"),
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "missing.csv"),
	})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}

	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.xlsx")}); !errors.Is(err, ErrNoInputs) {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}
}
