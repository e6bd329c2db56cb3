package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := OpenFileInManager(nonExistentFile)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestOpenFileWithDefaultApp_EmptyPath(t *testing.T) {
	if err := OpenFileWithDefaultApp("  "); err == nil {
		t.Error("Expected error for empty path, got nil")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Video - Part_1", "My Video - Part_1"},
		{"What? Why: How/When", "What_ Why_ How_When"},
		{"Привет мир", "Привет мир"},
		{"a.b.c", "a_b_c"},
		{"", UntitledFileName},
		{"   ", UntitledFileName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.expected {
				t.Errorf("SanitizeFileName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTranscriptPath(t *testing.T) {
	got := TranscriptPath("/out", "Talk: Go & You")
	expected := filepath.Join("/out", "Talk_ Go _ You.txt")
	if got != expected {
		t.Errorf("TranscriptPath() = %s, expected %s", got, expected)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talk.txt")

	got, err := UniquePath(path)
	if err != nil || got != path {
		t.Fatalf("UniquePath() on free path = %s, %v", got, err)
	}

	if err := WriteTextFile(path, "one"); err != nil {
		t.Fatalf("WriteTextFile: %v", err)
	}
	got, err = UniquePath(path)
	if err != nil {
		t.Fatalf("UniquePath: %v", err)
	}
	if got != filepath.Join(dir, "talk (1).txt") {
		t.Errorf("UniquePath() = %s, expected talk (1).txt", got)
	}
}

func TestWriteTextFile_CreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	if err := WriteTextFile(path, "héllo"); err != nil {
		t.Fatalf("WriteTextFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "héllo" {
		t.Errorf("content = %q", data)
	}
}
