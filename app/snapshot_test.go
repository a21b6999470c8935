//go:build !tinygo

package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
)

func TestSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := newTestApp(t, 0, &bytes.Buffer{})

	paths, err := a.Snapshot(context.Background(), dir, 1)
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Equal(t, filepath.Join(dir, "1-status.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "4-temperature.png"), paths[3])

	for _, p := range paths {
		img, err := imaging.Open(p)
		require.NoError(t, err, p)
		assert.Equal(t, hal.PanelWidth, img.Bounds().Dx())
		assert.Equal(t, hal.PanelHeight, img.Bounds().Dy())
	}
	assert.Equal(t, uint64(1), a.Monitor().State().Updates)
}
