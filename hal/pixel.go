package hal

import (
	"image"
	"image/color"
)

// Native controller geometry: 122 columns of 250 rows, each row padded to
// 16 bytes.
const (
	NativeWidth  = 122
	NativeHeight = 250
	NativeStride = (NativeWidth + 7) / 8
)

// PackLandscape converts a PanelWidth x PanelHeight frame into the
// controller's native buffer: MSB first, 1 is white. The landscape pixel
// (x, y) lands on native column y of row PanelWidth-1-x.
func PackLandscape(frame Bitmap) []byte {
	buf := make([]byte, NativeStride*NativeHeight)
	for i := range buf {
		buf[i] = 0xFF
	}
	w := min(frame.Width(), NativeHeight)
	h := min(frame.Height(), NativeWidth)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !frame.Ink(x, y) {
				continue
			}
			nx := y
			ny := NativeHeight - 1 - x
			buf[ny*NativeStride+nx/8] &^= 0x80 >> (nx % 8)
		}
	}
	return buf
}

// ToGray renders frame as black ink on white. With upright set the frame is
// turned 180 degrees, undoing the rotation applied for the mounted panel.
func ToGray(frame Bitmap, upright bool) *image.Gray {
	w, h := frame.Width(), frame.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x, y
			if upright {
				sx, sy = w-1-x, h-1-y
			}
			c := color.Gray{Y: 0xFF}
			if frame.Ink(sx, sy) {
				c.Y = 0x00
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}
