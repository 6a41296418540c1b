package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ideas.md")

	if err := WriteFile(path, "first\n"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, "second\n"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second\n" {
		t.Errorf("content = %q, want replaced wholesale", data)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "nested", ".nikki-tmp-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteFile_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.md")
	if err := os.WriteFile(path, []byte("old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A directory at the target path makes the final rename fail.
	blocked := filepath.Join(dir, "blocked.md")
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(blocked, "new\n"); err == nil {
		t.Fatal("WriteFile() over a non-empty directory should fail")
	}

	// Parent is a regular file, so nothing can be created.
	if err := WriteFile(filepath.Join(path, "x.md"), "new\n"); err == nil {
		t.Fatal("WriteFile() under a file should fail")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old\n" {
		t.Errorf("previous report changed: %q", data)
	}
}
