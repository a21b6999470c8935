package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/canvas"
)

// crashMargin is the horizontal space the status page leaves around text.
const crashMargin = 4

// reportPanic writes the panic and its stack to the HAL log sink and shows
// as much of it as fits on the panel.
func (a *App) reportPanic(h hal.HAL, value any, stack []byte) {
	lines := crashLines(value, stack)

	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}
	a.logger.Error("display cycle panicked", "panic", fmt.Sprint(value))

	panel := h.Panel()
	if panel == nil {
		return
	}
	face := a.status.Face
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrapText(face, line, a.status.Width-crashMargin)...)
	}
	if err := panel.Display(a.status.Render(wrapped)); err != nil {
		a.logger.Warn("crash page not shown", "error", err)
	}
}

func crashLines(value any, stack []byte) []string {
	lines := []string{"Panic:", fmt.Sprintf("panic: %v", value)}
	if len(stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// wrapText splits s into pieces no wider than maxWidth. Each piece holds at
// least one rune; leading spaces of continuation pieces are dropped.
func wrapText(face canvas.Typeface, s string, maxWidth int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for s != "" {
		chunk, rest := takeFitting(face, s, maxWidth)
		out = append(out, chunk)
		s = strings.TrimLeft(rest, " ")
	}
	return out
}

func takeFitting(face canvas.Typeface, s string, maxWidth int) (prefix, rest string) {
	if face.Width(s) <= maxWidth {
		return s, ""
	}
	i := 0
	for i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		if i > 0 && face.Width(s[:i+size]) > maxWidth {
			break
		}
		i += size
	}
	return s[:i], s[i:]
}
