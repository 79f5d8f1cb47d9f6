package osfilesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New(0)
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.gif")
	testData := []byte("GIF89a")

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
	fs := New(0)
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "debug", "frames", "frame-0000.png")
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

func TestFileSystem_ReadFileSizeLimit(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "big.png")
	if err := os.WriteFile(path, make([]byte, 64), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name    string
		limit   int64
		wantErr bool
	}{
		{name: "no limit", limit: 0},
		{name: "exact limit", limit: 64},
		{name: "over limit", limit: 63, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := New(tt.limit).ReadFile(path)
			if tt.wantErr {
				if !errors.Is(err, ErrTooLarge) {
					t.Errorf("expected ErrTooLarge, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) != 64 {
				t.Errorf("expected 64 bytes, got %d", len(data))
			}
		})
	}
}

func TestFileSystem_ReadFileMissing(t *testing.T) {
	_, err := New(1024).ReadFile(filepath.Join(t.TempDir(), "missing.gif"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFileSystem_ExistsMissing(t *testing.T) {
	exists, err := New(0).Exists(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected missing path to not exist")
	}
}
