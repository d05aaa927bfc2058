package penumbra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCaptureWritesPNGs(t *testing.T) {
	r, target := testRenderer(t)
	defer r.Dispose()
	r.CaptureDir = t.TempDir()
	r.AddLight(NewLight(64, 64, 60))

	r.CaptureLightMap("with-light")
	r.CaptureScene("scene")
	r.Draw(target)

	entries, err := os.ReadDir(r.CaptureDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("wrote %d files, want 2", len(entries))
	}
	var sawLightMap, sawScene bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".png" {
			t.Errorf("unexpected file %s", e.Name())
		}
		if strings.Contains(e.Name(), "lightmap_with-light") {
			sawLightMap = true
		}
		if strings.Contains(e.Name(), "scene_scene") {
			sawScene = true
		}
	}
	if !sawLightMap || !sawScene {
		t.Errorf("missing expected captures, got %v", entries)
	}

	// The queue drains; the next frame writes nothing new.
	r.Draw(target)
	entries, _ = os.ReadDir(r.CaptureDir)
	if len(entries) != 2 {
		t.Errorf("queue not drained: %d files", len(entries))
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  spaced out  ", "spaced_out"},
		{"a/b\\c:d", "a_b_c_d"},
		{"", "unlabeled"},
		{"  ", "unlabeled"},
		{"v1.2-rc", "v1.2-rc"},
	}
	for _, c := range cases {
		if got := sanitizeLabel(c.in); got != c.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
