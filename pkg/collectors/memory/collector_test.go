package memory

import (
	"context"
	"runtime"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1536, "1.5KB"},
		{5 * 1024 * 1024, "5.0MB"},
		{3 << 30, "3.0GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollector_UsesReader(t *testing.T) {
	c := New(func(stats *runtime.MemStats) {
		stats.HeapAlloc = 2048
		stats.NumGC = 7
	})

	data, err := c.Collect(context.Background(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if data["heap_alloc"] != uint64(2048) || data["heap_alloc_str"] != "2.0KB" {
		t.Fatalf("unexpected heap values %#v %#v", data["heap_alloc"], data["heap_alloc_str"])
	}
	if data["num_gc"] != uint32(7) {
		t.Fatalf("unexpected gc count %#v", data["num_gc"])
	}
	if c.Widgets()["memory"].Map != "memory.heap_alloc_str" {
		t.Fatalf("widget should map the formatted heap size")
	}
}
