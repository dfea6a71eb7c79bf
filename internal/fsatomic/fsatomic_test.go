package fsatomic

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "c.json")
	if err := WriteFile(path, []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != `{"x":1}` {
		t.Fatalf("content = %s, want {\"x\":1}", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected .tmp file to be gone after rename")
	}
}

func TestWriteFileIfAbsentSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob")
	wrote, err := WriteFileIfAbsent(path, []byte("first"), 0o644)
	if err != nil || !wrote {
		t.Fatalf("first write: wrote=%v err=%v", wrote, err)
	}
	wrote, err = WriteFileIfAbsent(path, []byte("second"), 0o644)
	if err != nil || wrote {
		t.Fatalf("second write: wrote=%v err=%v, want wrote=false", wrote, err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "first" {
		t.Fatalf("content = %s, want unchanged \"first\"", got)
	}
}
