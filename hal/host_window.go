//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/netnem/waveshare-1.7-epaper-info/internal/buildinfo"
)

// RunWindow opens a desktop window that shows the panel as it would look
// mounted. fn runs on its own goroutine; closing the window cancels its
// context and waits for it to return. It blocks until both are done.
func RunWindow(ctx context.Context, cfg Config, fn func(context.Context, HAL) error) error {
	scale := cfg.Scale
	if scale < 2 {
		scale = 3
	}
	fb := newHostFramebuffer(PanelWidth, PanelHeight)
	h := &hostHAL{logger: console, panel: fb}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fn(runCtx, h) }()

	g := &hostGame{fb: fb, done: done, seq: ^uint64(0)}
	ebiten.SetWindowTitle("epaper-info (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(PanelWidth*scale, PanelHeight*scale)
	ebiten.SetTPS(10)
	err := ebiten.RunGame(g)
	if g.finished {
		return g.result
	}

	cancel()
	fnErr := <-done
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return fnErr
}

type hostGame struct {
	fb   *hostFramebuffer
	img  *ebiten.Image
	pix  []byte
	seq  uint64
	done <-chan error

	finished bool
	result   error
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.finished = true
		g.result = err
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.fb.width, g.fb.height)
		g.pix = make([]byte, len(g.fb.buf))
	}
	if seq := g.fb.snapshotRGBA(g.pix, g.seq); seq != g.seq {
		g.seq = seq
		g.img.WritePixels(g.pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.width, g.fb.height
}
