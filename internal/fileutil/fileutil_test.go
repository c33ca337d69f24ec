package fileutil_test

import (
	"path/filepath"
	"testing"

	"hushcut/internal/fileutil"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"clip.mp4", true},
		{"clip.MKV", true},
		{"clip.webm", true},
		{"clip.wmv", true},
		{"clip.txt", false},
		{"clip.mp3", false},
		{"clip", false},
	}
	for _, tt := range tests {
		if got := fileutil.IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidOutputPath(t *testing.T) {
	if !fileutil.ValidOutputPath("out.mp4") || !fileutil.ValidOutputPath("out.MKV") {
		t.Error("expected mp4 and mkv to be valid output containers")
	}
	if fileutil.ValidOutputPath("out.avi") {
		t.Error("avi must not be a valid output container")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := fileutil.DefaultOutputPath(filepath.Join("some", "dir", "talk.mov"))
	want := filepath.Join("some", "dir", "talk_cleaned.mp4")
	if got != want {
		t.Fatalf("DefaultOutputPath = %q, want %q", got, want)
	}
}

func TestOutputPathInDir(t *testing.T) {
	got := fileutil.OutputPathInDir("/inbox/talk.mkv", "/output")
	want := filepath.Join("/output", "talk_cleaned.mp4")
	if got != want {
		t.Fatalf("OutputPathInDir = %q, want %q", got, want)
	}
}

func TestFreeSpaceOnTempDir(t *testing.T) {
	free, err := fileutil.FreeSpace(t.TempDir())
	if err != nil {
		t.Fatalf("FreeSpace returned error: %v", err)
	}
	if free == 0 {
		t.Fatal("expected non-zero free space on temp filesystem")
	}
}
