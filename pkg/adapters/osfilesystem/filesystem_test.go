package osfilesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "run.json")
	testData := []byte(`{"presented":3}`)

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "snapshots", "000001.png")

	if err := fs.WriteFile(testPath, []byte("png")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_Open(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "clip.yuv")
	payload := make([]byte, 3*38016) // three QCIF frames
	for i := range payload {
		payload[i] = byte(i)
	}
	os.WriteFile(testPath, payload, 0644)

	rc, err := fs.Open(testPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != len(payload) || got[1000] != payload[1000] {
		t.Error("streamed content differs from the file")
	}
}

func TestFileSystem_OpenMissing(t *testing.T) {
	if _, err := New().Open(filepath.Join(t.TempDir(), "missing.yuv")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestFileSystem_MkdirAllAndExists(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()
	testPath := filepath.Join(tmpDir, "a", "b", "c")

	if err := fs.MkdirAll(testPath); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if exists, _ := fs.Exists(testPath); !exists {
		t.Error("expected directory to exist")
	}
	if exists, _ := fs.Exists(filepath.Join(tmpDir, "nonexistent")); exists {
		t.Error("expected path to not exist")
	}
}
