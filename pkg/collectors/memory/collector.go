// Package memory reports Go runtime memory statistics for the debug panel.
package memory

import (
	"context"
	"fmt"
	"runtime"

	"github.com/goliatone/go-debugbar/pkg/assets"
	"github.com/goliatone/go-debugbar/pkg/collector"
	"github.com/goliatone/go-debugbar/pkg/host"
	"github.com/goliatone/go-debugbar/pkg/widgets"
)

// Name is the registry key of the memory collector.
const Name = "memory"

// Collector samples runtime.MemStats on every collection.
type Collector struct {
	read func(*runtime.MemStats)
}

var (
	_ collector.Collector      = (*Collector)(nil)
	_ collector.WidgetProvider = (*Collector)(nil)
	_ collector.AssetProvider  = (*Collector)(nil)
)

// New returns a memory collector. A nil read uses runtime.ReadMemStats.
func New(read func(*runtime.MemStats)) *Collector {
	if read == nil {
		read = runtime.ReadMemStats
	}
	return &Collector{read: read}
}

func (c *Collector) Name() string { return Name }

func (c *Collector) Collect(_ context.Context, _ *host.Scope) (collector.Data, error) {
	var stats runtime.MemStats
	c.read(&stats)
	return collector.Data{
		"heap_alloc":      stats.HeapAlloc,
		"heap_alloc_str":  FormatBytes(stats.HeapAlloc),
		"heap_sys":        stats.HeapSys,
		"heap_sys_str":    FormatBytes(stats.HeapSys),
		"total_alloc":     stats.TotalAlloc,
		"total_alloc_str": FormatBytes(stats.TotalAlloc),
		"sys":             stats.Sys,
		"sys_str":         FormatBytes(stats.Sys),
		"num_gc":          stats.NumGC,
		"goroutines":      runtime.NumGoroutine(),
	}, nil
}

func (c *Collector) Widgets() widgets.Table {
	return widgets.Table{
		"memory": {
			Icon:    "cogs",
			Tooltip: "Heap in use",
			Widget:  widgets.KindText,
			Map:     widgets.Path(Name, "heap_alloc_str"),
			Default: "0B",
		},
	}
}

func (c *Collector) Assets() assets.Descriptor {
	return assets.Descriptor{
		BasePath: "collectors/memory",
		BaseURL:  "collectors/memory",
		JS:       "memory.js",
	}
}

var units = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with a binary unit, e.g. 1536 -> "1.5KB".
func FormatBytes(n uint64) string {
	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d%s", n, units[0])
	}
	return fmt.Sprintf("%.1f%s", value, units[unit])
}
