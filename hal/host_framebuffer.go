//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is the panel behind the preview window: it keeps the last
// frame, upright, as RGBA pixels for the window to upload.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	buf    []byte
	seq    uint64
	asleep bool
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{
		width:  width,
		height: height,
		buf:    make([]byte, width*height*4),
	}
	f.fill(0xFF)
	return f
}

func (f *hostFramebuffer) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asleep = false
	return nil
}

func (f *hostFramebuffer) Size() (w, h int) { return f.width, f.height }

func (f *hostFramebuffer) Display(frame Bitmap) error {
	if err := checkSize(f, frame); err != nil {
		return err
	}
	img := ToGray(frame, true)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, y := range img.Pix {
		j := i * 4
		f.buf[j+0] = y
		f.buf[j+1] = y
		f.buf[j+2] = y
		f.buf[j+3] = 0xFF
	}
	f.seq++
	return nil
}

// Clear shows white for 0xFF and black for any other fill.
func (f *hostFramebuffer) Clear(fill byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fill == 0xFF {
		f.fill(0xFF)
	} else {
		f.fill(0x00)
	}
	f.seq++
	return nil
}

func (f *hostFramebuffer) Sleep() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asleep = true
	return nil
}

func (f *hostFramebuffer) fill(v byte) {
	for i := 0; i < len(f.buf); i += 4 {
		f.buf[i+0] = v
		f.buf[i+1] = v
		f.buf[i+2] = v
		f.buf[i+3] = 0xFF
	}
}

// snapshotRGBA copies the pixels into dst when they changed since seq and
// returns the current sequence number.
func (f *hostFramebuffer) snapshotRGBA(dst []byte, seq uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		copy(dst, f.buf)
	}
	return f.seq
}
