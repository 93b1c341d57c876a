package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystemRoundTrip(t *testing.T) {
	osfs := OSFileSystem{}
	dir := t.TempDir()

	nested := filepath.Join(dir, "maps", "archive")
	if err := osfs.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	path := filepath.Join(nested, "session.voxmap")
	payload := []byte("map archive payload")
	if err := osfs.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := osfs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("read back %q, want %q", data, payload)
	}

	if _, err := osfs.ReadFile(filepath.Join(dir, "missing.voxmap")); err == nil {
		t.Error("expected error reading missing file")
	}
}

func TestMemoryFileSystemWriteAndRead(t *testing.T) {
	m := NewMemoryFileSystem()

	payload := []byte("voxel blocks")
	if err := m.WriteFile("maps/run1.voxmap", payload, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := m.ReadFile("maps/run1.voxmap")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("read back %q, want %q", data, payload)
	}
}

func TestMemoryFileSystemReadNonExistent(t *testing.T) {
	m := NewMemoryFileSystem()

	_, err := m.ReadFile("nope.voxmap")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestMemoryFileSystemMkdirAllRecordsParents(t *testing.T) {
	m := NewMemoryFileSystem()

	if err := m.MkdirAll("a/b/c", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, dir := range []string{"a", "a/b", "a/b/c"} {
		if !m.Exists(dir) {
			t.Errorf("expected directory %q to exist", dir)
		}
	}
	if m.Exists("a/b/c/d") {
		t.Error("unexpected directory a/b/c/d")
	}
}

func TestMemoryFileSystemPathCleaning(t *testing.T) {
	m := NewMemoryFileSystem()

	if err := m.WriteFile("./maps/../maps/run1.voxmap", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := m.ReadFile("maps/run1.voxmap"); err != nil {
		t.Errorf("cleaned path not readable: %v", err)
	}
	if !m.Exists("maps/run1.voxmap") {
		t.Error("cleaned path not reported by Exists")
	}
}

func TestMemoryFileSystemDataIsolation(t *testing.T) {
	m := NewMemoryFileSystem()

	original := []byte("archive")
	if err := m.WriteFile("f", original, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	original[0] = 'X'

	data, err := m.ReadFile("f")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "archive" {
		t.Errorf("stored data mutated via caller slice: %q", data)
	}

	data[0] = 'Y'
	again, _ := m.ReadFile("f")
	if string(again) != "archive" {
		t.Errorf("stored data mutated via returned slice: %q", again)
	}
}

func TestMemoryFileSystemWriteFilePerm(t *testing.T) {
	m := NewMemoryFileSystem()

	if err := m.WriteFile("f", []byte("x"), os.FileMode(0o600)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	m.mu.RLock()
	mode := m.files["f"].mode
	m.mu.RUnlock()
	if mode != 0o600 {
		t.Errorf("mode = %v, want 0600", mode)
	}
}
