package penumbra

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"
)

// captureTarget selects which buffer a queued capture reads.
type captureTarget uint8

const (
	captureLightMap captureTarget = iota
	captureScene
)

type captureRequest struct {
	label  string
	target captureTarget
}

// CaptureLightMap queues a labeled capture of the light map at the end of the
// current Draw call. The resulting PNG is written to CaptureDir with a
// timestamped filename. Useful for inspecting shadow geometry offline.
func (r *Renderer) CaptureLightMap(label string) {
	r.captureQueue = append(r.captureQueue, captureRequest{label: label, target: captureLightMap})
}

// CaptureScene queues a labeled capture of the scene buffer at the end of the
// current Draw call.
func (r *Renderer) CaptureScene(label string) {
	r.captureQueue = append(r.captureQueue, captureRequest{label: label, target: captureScene})
}

// flushCaptures writes every queued capture as a PNG file. Called at the end
// of Renderer.Draw.
func (r *Renderer) flushCaptures() {
	if len(r.captureQueue) == 0 {
		return
	}

	dir := r.CaptureDir
	if dir == "" {
		dir = "captures"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logf("capture: mkdir %s: %v", dir, err)
		r.captureQueue = r.captureQueue[:0]
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, req := range r.captureQueue {
		src := r.lightMap
		name := "lightmap"
		if req.target == captureScene {
			src = r.scene
			name = "scene"
		}

		bounds := src.Bounds()
		w, h := bounds.Dx(), bounds.Dy()
		pixels := make([]byte, 4*w*h)
		src.ReadPixels(pixels)

		// Convert premultiplied RGBA to straight-alpha NRGBA.
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < len(pixels); i += 4 {
			red, green, blue, alpha := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
			if alpha > 0 && alpha < 255 {
				red = uint8(min(int(red)*255/int(alpha), 255))
				green = uint8(min(int(green)*255/int(alpha), 255))
				blue = uint8(min(int(blue)*255/int(alpha), 255))
			}
			img.Pix[i] = red
			img.Pix[i+1] = green
			img.Pix[i+2] = blue
			img.Pix[i+3] = alpha
		}

		path := fmt.Sprintf("%s/%s_%s_%s.png", dir, stamp, name, sanitizeLabel(req.label))
		if err := writePNG(path, img); err != nil {
			r.logf("capture: %v", err)
		}
	}

	r.captureQueue = r.captureQueue[:0]
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
