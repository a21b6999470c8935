package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBitmap is a sparse Bitmap.
type testBitmap struct {
	w, h int
	ink  map[[2]int]bool
}

func newTestBitmap(w, h int, pts ...[2]int) *testBitmap {
	b := &testBitmap{w: w, h: h, ink: map[[2]int]bool{}}
	for _, p := range pts {
		b.ink[p] = true
	}
	return b
}

func (b *testBitmap) Width() int        { return b.w }
func (b *testBitmap) Height() int       { return b.h }
func (b *testBitmap) Ink(x, y int) bool { return b.ink[[2]int{x, y}] }

func TestPackLandscapeBlank(t *testing.T) {
	buf := PackLandscape(newTestBitmap(PanelWidth, PanelHeight))
	require.Len(t, buf, 16*250)
	for i, b := range buf {
		require.Equal(t, byte(0xFF), b, "byte %d", i)
	}
}

func TestPackLandscapeBitLayout(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		index int
		mask  byte
	}{
		// (x, y) -> native column y, row 249-x.
		{"top left", 0, 0, 249 * 16, 0x80},
		{"top right", 249, 0, 0, 0x80},
		{"bottom left", 0, 121, 249*16 + 15, 0x80 >> 1},
		{"bottom right", 249, 121, 15, 0x40},
		{"middle", 100, 9, 149*16 + 1, 0x40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := PackLandscape(newTestBitmap(PanelWidth, PanelHeight, [2]int{tt.x, tt.y}))
			for i, b := range buf {
				if i == tt.index {
					assert.Equal(t, 0xFF&^tt.mask, b, "byte %d", i)
					continue
				}
				require.Equal(t, byte(0xFF), b, "byte %d", i)
			}
		})
	}
}

func TestToGray(t *testing.T) {
	b := newTestBitmap(4, 3, [2]int{0, 0})

	img := ToGray(b, false)
	assert.Equal(t, uint8(0x00), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xFF), img.GrayAt(3, 2).Y)

	up := ToGray(b, true)
	assert.Equal(t, uint8(0xFF), up.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0x00), up.GrayAt(3, 2).Y)
}

type lineRecorder struct {
	lines []string
}

func (r *lineRecorder) WriteLineString(s string) { r.lines = append(r.lines, s) }
func (r *lineRecorder) WriteLineBytes(b []byte)  { r.lines = append(r.lines, string(b)) }

func TestLogWriter(t *testing.T) {
	rec := &lineRecorder{}
	w := LogWriter(rec)

	n, err := w.Write([]byte("one\ntw"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"one"}, rec.lines)

	_, err = w.Write([]byte("o\nthree\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, rec.lines)
}
