//go:build !tinygo

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/netnem/waveshare-1.7-epaper-info/hal"
	"github.com/netnem/waveshare-1.7-epaper-info/monitor/cycle"
)

// Snapshot samples once and writes every page, upright and enlarged by
// scale, as a PNG in dir. It returns the written paths in display order.
func (a *App) Snapshot(ctx context.Context, dir string, scale int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("app: snapshot dir: %w", err)
	}
	a.monitor.Update(ctx)

	c := cycle.New(cycle.Config{
		Monitor: a.monitor,
		Graph:   a.graph,
		Status:  a.status,
		Logger:  a.logger,
	})
	var paths []string
	for i, p := range cycle.Phases() {
		path := filepath.Join(dir, fmt.Sprintf("%d-%s.png", i+1, p))
		if err := hal.SavePNG(path, c.Frame(ctx, p), scale); err != nil {
			return paths, err
		}
		a.logger.Info("snapshot written", "phase", p.String(), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
