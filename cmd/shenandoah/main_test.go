package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/shenandoah/pkg/render"
)

func TestFramePath(t *testing.T) {
	tests := []struct {
		path   string
		frame  int
		frames int
		want   string
	}{
		{"test.txt", 0, 1, "test.txt"},
		{"out/render.png", 3, 24, "out/render_0003.png"},
		{"frames", 12, 100, "frames_0012"},
	}
	for _, tt := range tests {
		if got := framePath(tt.path, tt.frame, tt.frames); got != tt.want {
			t.Errorf("framePath(%q, %d, %d) = %q, want %q", tt.path, tt.frame, tt.frames, got, tt.want)
		}
	}
}

func TestWriteFrame(t *testing.T) {
	f := render.NewFrame(2, 1)
	copy(f.Pix, []int{1, 2, 3, 4, 5, 6})
	dir := t.TempDir()

	text := filepath.Join(dir, "frame.txt")
	if err := writeFrame(f, text, "text"); err != nil {
		t.Fatalf("writeFrame text: %v", err)
	}
	data, err := os.ReadFile(text)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "(1,2,3)\n(4,5,6)\n" {
		t.Errorf("text output = %q", data)
	}

	pngPath := filepath.Join(dir, "frame.png")
	if err := writeFrame(f, pngPath, "png"); err != nil {
		t.Fatalf("writeFrame png: %v", err)
	}
	data, err = os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("png output lacks the PNG signature")
	}

	if err := writeFrame(f, filepath.Join(dir, "frame.gif"), "gif"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
