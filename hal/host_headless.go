//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// headlessPanel logs each frame and, with a snapshot directory, writes it
// out as an upright PNG.
type headlessPanel struct {
	mu     sync.Mutex
	logger *slog.Logger
	dir    string
	scale  int
	seq    int
	asleep bool
}

func newHeadlessPanel(cfg Config, logger *slog.Logger) *headlessPanel {
	return &headlessPanel{
		logger: logger,
		dir:    cfg.SnapshotDir,
		scale:  max(cfg.Scale, 1),
	}
}

func (p *headlessPanel) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asleep = false
	if p.dir == "" {
		return nil
	}
	return os.MkdirAll(p.dir, 0o755)
}

func (p *headlessPanel) Size() (w, h int) { return PanelWidth, PanelHeight }

func (p *headlessPanel) Display(frame Bitmap) error {
	if err := checkSize(p, frame); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	p.asleep = false
	p.logger.Info("frame", "seq", p.seq, "ink", inkCount(frame))
	if p.dir == "" {
		return nil
	}
	path := filepath.Join(p.dir, fmt.Sprintf("frame-%04d.png", p.seq))
	return SavePNG(path, frame, p.scale)
}

func (p *headlessPanel) Clear(fill byte) error {
	p.logger.Info("panel cleared", "fill", fmt.Sprintf("%#02x", fill))
	return nil
}

func (p *headlessPanel) Sleep() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asleep = true
	p.logger.Info("panel asleep", "frames", p.seq)
	return nil
}

// SavePNG writes frame upright to path, enlarged by scale.
func SavePNG(path string, frame Bitmap, scale int) error {
	var img image.Image = imaging.Rotate180(ToGray(frame, false))
	if scale > 1 {
		b := img.Bounds()
		img = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("hal: save %s: %w", path, err)
	}
	return nil
}

func inkCount(frame Bitmap) int {
	n := 0
	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			if frame.Ink(x, y) {
				n++
			}
		}
	}
	return n
}
