package debug

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureWritesTimestampedPNG(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "glade")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path, err := sc.Capture(img)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "glade_") {
		t.Errorf("filename %q missing prefix", path)
	}
	if filepath.Ext(path) != ".png" {
		t.Errorf("filename %q not a png", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening screenshot: %v", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("decoded size = %dx%d, want 4x4", b.Dx(), b.Dy())
	}
}

func TestCapturePixels(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "glade")

	pixels := make([]byte, 2*2*4)
	if _, err := sc.CapturePixels(pixels, 2, 2); err != nil {
		t.Fatalf("CapturePixels: %v", err)
	}

	if _, err := sc.CapturePixels(pixels, 3, 3); err == nil {
		t.Fatal("size mismatch accepted")
	}
}

func TestSavePNGCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "shot.png")

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("screenshot missing: %v", err)
	}
}
