package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/telemetry"
)

type quietEnv struct{}

func (quietEnv) WifiSignal(context.Context) (int, error)         { return -61, nil }
func (quietEnv) WifiSSID(context.Context) (string, error)        { return "attic", nil }
func (quietEnv) IPAddress(context.Context) (string, error)       { return "192.168.1.20", nil }
func (quietEnv) Uptime(context.Context) (time.Duration, error)   { return 3 * time.Hour, nil }
func (quietEnv) CPUPercent(context.Context) (float64, error)     { return 7, nil }
func (quietEnv) MemoryPercent(context.Context) (float64, error)  { return 33.3, nil }
func (quietEnv) CPUTemperature(context.Context) (float64, error) { return 0, telemetry.ErrUnsupported }
func (quietEnv) Hostname(context.Context) (string, error)        { return "pi-zero", nil }

type recordingPanel struct {
	mu       sync.Mutex
	inits    int
	displays int
	clears   int
	sleeps   int
	initErr  error
	panicOn  int
}

func (p *recordingPanel) Init() error {
	p.inits++
	return p.initErr
}

func (p *recordingPanel) Display(hal.Bitmap) error {
	p.mu.Lock()
	p.displays++
	n := p.displays
	p.mu.Unlock()
	if n == p.panicOn {
		panic("render exploded")
	}
	return nil
}

func (p *recordingPanel) Clear(byte) error {
	p.clears++
	return nil
}

func (p *recordingPanel) Sleep() error {
	p.sleeps++
	return nil
}

func (p *recordingPanel) Size() (w, h int) { return hal.PanelWidth, hal.PanelHeight }

type lineSink struct{ lines []string }

func (s *lineSink) WriteLineString(l string) { s.lines = append(s.lines, l) }
func (s *lineSink) WriteLineBytes(b []byte)  { s.lines = append(s.lines, string(b)) }

type testHAL struct {
	sink  *lineSink
	panel hal.Panel
}

func (h testHAL) Logger() hal.Logger { return h.sink }
func (h testHAL) Panel() hal.Panel   { return h.panel }

type instantClock struct{ now time.Time }

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func newTestApp(t *testing.T, maxFrames int, logs *bytes.Buffer) *App {
	t.Helper()
	a, err := New(Options{
		Env:       quietEnv{},
		MaxFrames: maxFrames,
		Clock:     &instantClock{now: time.Unix(1_700_000_000, 0)},
		Logger:    slog.New(slog.NewTextHandler(logs, nil)),
	})
	require.NoError(t, err)
	return a
}

func TestNewRequiresEnvironment(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRunShowsEveryPage(t *testing.T) {
	var logs bytes.Buffer
	a := newTestApp(t, 8, &logs)
	panel := &recordingPanel{}

	require.NoError(t, a.Run(context.Background(), testHAL{sink: &lineSink{}, panel: panel}))

	assert.Equal(t, 1, panel.inits)
	assert.Equal(t, 8, panel.displays)
	assert.Zero(t, panel.clears)
	// 8 frames of 10s against a 15s interval sample on every other frame.
	assert.Equal(t, uint64(4), a.Monitor().State().Updates)
	assert.False(t, a.Monitor().State().Temperature.Valid)
	assert.Contains(t, logs.String(), "panel ready")
}

func TestRunCancelledCleansUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestApp(t, 0, &bytes.Buffer{})
	panel := &recordingPanel{}
	require.NoError(t, a.Run(ctx, testHAL{sink: &lineSink{}, panel: panel}))
	assert.Equal(t, 1, panel.clears)
	assert.Equal(t, 1, panel.sleeps)
}

func TestRunInitFailure(t *testing.T) {
	a := newTestApp(t, 1, &bytes.Buffer{})
	wantErr := errors.New("busy line stuck")
	panel := &recordingPanel{initErr: wantErr}

	err := a.Run(context.Background(), testHAL{sink: &lineSink{}, panel: panel})
	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, panel.displays)
}

func TestRunWithoutPanel(t *testing.T) {
	a := newTestApp(t, 1, &bytes.Buffer{})
	err := a.Run(context.Background(), testHAL{sink: &lineSink{}})
	assert.ErrorIs(t, err, hal.ErrNotImplemented)
}

func TestRunReportsPanic(t *testing.T) {
	var logs bytes.Buffer
	a := newTestApp(t, 4, &logs)
	panel := &recordingPanel{panicOn: 2}
	sink := &lineSink{}

	err := a.Run(context.Background(), testHAL{sink: sink, panel: panel})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render exploded")

	// Second frame panicked, third display is the crash page.
	assert.Equal(t, 3, panel.displays)
	require.NotEmpty(t, sink.lines)
	assert.Equal(t, "Panic:", sink.lines[0])
	assert.Equal(t, "panic: render exploded", sink.lines[1])
	assert.Contains(t, logs.String(), "display cycle panicked")
}

func TestCrashLines(t *testing.T) {
	assert.Equal(t,
		[]string{"Panic:", "panic: boom", "stack: unavailable"},
		crashLines("boom", nil))
	assert.Equal(t,
		[]string{"Panic:", "panic: 42", "stack:", "main.go:10", "cycle.go:3"},
		crashLines(42, []byte("main.go:10\n\n\tcycle.go:3\n")))
}

func TestWrapText(t *testing.T) {
	a := newTestApp(t, 1, &bytes.Buffer{})
	face := a.status.Face
	width := face.Width("abcdefghij")

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{""}},
		{"fits", "abc", []string{"abc"}},
		{"exact", "abcdefghij", []string{"abcdefghij"}},
		{"split", "abcdefghijklm", []string{"abcdefghij", "klm"}},
		{"drops continuation spaces", "abcdefghij   xyz", []string{"abcdefghij", "xyz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(face, tt.in, width)
			assert.Equal(t, tt.want, got)
			for _, line := range got {
				assert.LessOrEqual(t, face.Width(line), width)
			}
		})
	}

	// A rune wider than the limit still makes progress.
	assert.Equal(t, []string{"a", "b"}, wrapText(face, "ab", 1))
}
