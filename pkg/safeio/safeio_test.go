package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCleanUserPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		hasError bool
	}{
		{"simple path", "file.txt", "file.txt", false},
		{"relative path", "./subdir/file.txt", "subdir/file.txt", false},
		{"absolute path", "/tmp/file.txt", "/tmp/file.txt", false},
		{"path with traversal", "../../../etc/passwd", "", true},
		{"path with traversal in middle", "valid/../../../etc/passwd", "", true},
		{"path with dots but no traversal", "file.with.dots.txt", "file.with.dots.txt", false},
		{"double dots inside a name", "cb..installer", "cb..installer", false},
		{"empty path", "", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CleanUserPath(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("CleanUserPath(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("CleanUserPath(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("CleanUserPath(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestReadFileContained(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "installer")
	if err := os.WriteFile(inside, []byte("content"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFileContained(base, inside)
	if err != nil {
		t.Fatalf("ReadFileContained failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("unexpected content %q", data)
	}

	outside := filepath.Join(t.TempDir(), "other")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFileContained(base, outside); !errors.Is(err, ErrOutsideBase) {
		t.Errorf("expected ErrOutsideBase, got %v", err)
	}
}

func TestWriteFilePreservePerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "installer")
	if err := os.WriteFile(path, []byte("old"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := WriteFilePreservePerms(path, []byte("new")); err != nil {
		t.Fatalf("WriteFilePreservePerms failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("unexpected content %q", data)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode()&0o777 != 0o755 {
		t.Errorf("expected mode 0755, got %o", st.Mode()&0o777)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFilePreservePerms_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh")
	if err := WriteFilePreservePerms(path, []byte("x")); err != nil {
		t.Fatalf("WriteFilePreservePerms failed: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode()&0o777 != 0o644 {
		t.Errorf("expected mode 0644, got %o", st.Mode()&0o777)
	}
}
