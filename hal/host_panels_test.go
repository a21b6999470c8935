//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsPanel(t *testing.T) {
	tests := []struct {
		kind string
		want any
	}{
		{PanelHeadless, &headlessPanel{}},
		{"", &headlessPanel{}},
		{PanelTerminal, &terminalPanel{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			h, err := New(Config{Kind: tt.kind}, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, h.Panel())
			assert.NotNil(t, h.Logger())
		})
	}

	_, err := New(Config{Kind: "plasma"}, nil)
	assert.Error(t, err)
	_, err = New(Config{Kind: PanelWindow}, nil)
	assert.Error(t, err)
}

func TestHeadlessPanelSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	var logs bytes.Buffer
	p := newHeadlessPanel(Config{SnapshotDir: dir, Scale: 2}, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, p.Init())

	// Ink at the mounted top-left shows at the upright bottom-right.
	frame := newTestBitmap(PanelWidth, PanelHeight, [2]int{0, 0})
	require.NoError(t, p.Display(frame))
	require.NoError(t, p.Display(newTestBitmap(PanelWidth, PanelHeight)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "frame-0001.png", entries[0].Name())

	img, err := imaging.Open(filepath.Join(dir, "frame-0001.png"))
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, PanelWidth*2, b.Dx())
	assert.Equal(t, PanelHeight*2, b.Dy())

	r, _, _, _ := img.At(b.Max.X-1, b.Max.Y-1).RGBA()
	assert.Zero(t, r)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)

	require.NoError(t, p.Clear(0xFF))
	require.NoError(t, p.Sleep())
	assert.True(t, p.asleep)
	assert.Contains(t, logs.String(), "seq=2")
	assert.Contains(t, logs.String(), "panel asleep")
}

func TestHeadlessPanelWithoutDir(t *testing.T) {
	p := newHeadlessPanel(Config{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, p.Init())
	require.NoError(t, p.Display(newTestBitmap(PanelWidth, PanelHeight)))
	assert.Error(t, p.Display(newTestBitmap(10, 10)))
}

func TestBlockArt(t *testing.T) {
	b := newTestBitmap(4, 3, [2]int{0, 0}, [2]int{1, 1}, [2]int{2, 0}, [2]int{3, 0}, [2]int{0, 2})

	assert.Equal(t, "▚▀\n▘ ", BlockArt(b, false))
	assert.Equal(t, " ▞\n▀▝", BlockArt(b, true))
}

func TestTerminalPanel(t *testing.T) {
	var out bytes.Buffer
	p := newTerminalPanel(&out)
	require.NoError(t, p.Init())
	require.NoError(t, p.Display(newTestBitmap(PanelWidth, PanelHeight, [2]int{10, 10})))

	s := out.String()
	assert.Contains(t, s, "frame 1")
	assert.Contains(t, s, "▗")
	// 61 rows of block art plus the border and header.
	assert.GreaterOrEqual(t, strings.Count(s, "\n"), 61+2)
}

func TestHostFramebuffer(t *testing.T) {
	fb := newHostFramebuffer(PanelWidth, PanelHeight)
	pix := make([]byte, len(fb.buf))

	seq := fb.snapshotRGBA(pix, ^uint64(0))
	assert.Equal(t, byte(0xFF), pix[0])

	require.NoError(t, fb.Display(newTestBitmap(PanelWidth, PanelHeight, [2]int{PanelWidth - 1, PanelHeight - 1})))
	next := fb.snapshotRGBA(pix, seq)
	assert.NotEqual(t, seq, next)
	// Upright: the last mounted pixel is the first shown.
	assert.Equal(t, []byte{0, 0, 0, 0xFF}, pix[:4])

	require.NoError(t, fb.Clear(0xFF))
	fb.snapshotRGBA(pix, next)
	assert.Equal(t, byte(0xFF), pix[0])

	require.NoError(t, fb.Sleep())
	assert.True(t, fb.asleep)
}

type closingPanel struct {
	headlessPanel
	closes int
	err    error
}

func (p *closingPanel) Close() error {
	p.closes++
	return p.err
}

func TestClosePanel(t *testing.T) {
	runErr := errors.New("cycle failed")
	closeErr := errors.New("spi busy")

	p := &closingPanel{}
	h := &hostHAL{logger: console, panel: p}
	assert.NoError(t, closePanel(h, nil))
	assert.ErrorIs(t, closePanel(h, runErr), runErr)
	assert.Equal(t, 2, p.closes)

	p.err = closeErr
	err := closePanel(h, runErr)
	assert.ErrorIs(t, err, runErr)
	assert.ErrorIs(t, err, closeErr)

	plain := &hostHAL{logger: console, panel: newHeadlessPanel(Config{}, nil)}
	assert.ErrorIs(t, closePanel(plain, runErr), runErr)
}
