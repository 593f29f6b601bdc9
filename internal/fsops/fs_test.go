package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "exists.txt")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		exists, err := fs.Exists(testFile)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if !exists {
			t.Error("Exists should return true for existing file")
		}
	})

	t.Run("non-existing file", func(t *testing.T) {
		exists, err := fs.Exists(filepath.Join(tmpDir, "does-not-exist.txt"))
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if exists {
			t.Error("Exists should return false for non-existing file")
		}
	})

	t.Run("existing directory", func(t *testing.T) {
		exists, err := fs.Exists(tmpDir)
		if err != nil {
			t.Errorf("Exists returned error: %v", err)
		}
		if !exists {
			t.Error("Exists should return true for existing directory")
		}
	})
}

func TestRealFS_ClearDir(t *testing.T) {
	fs := &RealFS{}

	t.Run("removes visible entries and keeps hidden ones", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"A.BAS", "B.LST", ".gitkeep"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", name, err)
			}
		}
		if err := os.MkdirAll(filepath.Join(dir, "SUB", "DEEP"), 0755); err != nil {
			t.Fatalf("failed to create subdir: %v", err)
		}

		if err := fs.ClearDir(dir); err != nil {
			t.Fatalf("ClearDir failed: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != ".gitkeep" {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("unexpected entries after ClearDir: %v", names)
		}
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		if err := fs.ClearDir(dir); err != nil {
			t.Fatalf("ClearDir failed: %v", err)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory to be created, stat err = %v", err)
		}
	})
}

func TestRealFS_MkdirAll(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("create nested directories", func(t *testing.T) {
		nestedPath := filepath.Join(tmpDir, "a", "b", "c")
		if err := fs.MkdirAll(nestedPath, 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
			t.Error("nested directory was not created")
		}
	})

	t.Run("idempotent operation", func(t *testing.T) {
		dirPath := filepath.Join(tmpDir, "existing")
		if err := fs.MkdirAll(dirPath, 0755); err != nil {
			t.Fatalf("first MkdirAll failed: %v", err)
		}
		if err := fs.MkdirAll(dirPath, 0755); err != nil {
			t.Errorf("second MkdirAll should not fail: %v", err)
		}
	})
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("write to new file in new directory", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "nested", "state.json")
		content := []byte(`{"atr": []}`)

		if err := fs.AtomicWrite(testFile, content, 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		readContent, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(readContent) != string(content) {
			t.Errorf("file content mismatch: got %q, want %q", readContent, content)
		}
	})

	t.Run("overwrite existing file leaves no temp files", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "atomic-overwrite.txt")
		if err := os.WriteFile(testFile, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to create initial file: %v", err)
		}

		if err := fs.AtomicWrite(testFile, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}

		readContent, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(readContent) != "overwritten" {
			t.Errorf("file content not updated: got %q", readContent)
		}

		matches, _ := filepath.Glob(filepath.Join(tmpDir, ".atr2git-tmp-*"))
		if len(matches) != 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	})
}

func TestRealFS_ReadFile(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("read existing file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "read-test.txt")
		if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		readContent, err := fs.ReadFile(testFile)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(readContent) != "test content" {
			t.Errorf("ReadFile content mismatch: got %q", readContent)
		}
	})

	t.Run("read non-existing file", func(t *testing.T) {
		if _, err := fs.ReadFile(filepath.Join(tmpDir, "does-not-exist.txt")); err == nil {
			t.Error("ReadFile should return error for non-existing file")
		}
	})
}

func TestRealFS_Stat(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	info, err := fs.Stat(tmpDir)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("Stat(%s) is not a directory", tmpDir)
	}

	if _, err := fs.Stat(filepath.Join(tmpDir, "missing")); !os.IsNotExist(err) {
		t.Errorf("Stat of missing path: got %v, want not-exist error", err)
	}
}

func TestIsHidden(t *testing.T) {
	tests := map[string]bool{
		".gitkeep": true,
		".":        true,
		"GAME.BAS": false,
		"a.b":      false,
	}
	for name, want := range tests {
		if got := IsHidden(name); got != want {
			t.Errorf("IsHidden(%q) = %v, want %v", name, got, want)
		}
	}
}
