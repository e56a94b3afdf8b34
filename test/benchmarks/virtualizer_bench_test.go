package benchmarks_test

import (
	"fmt"
	"testing"

	"github.com/rshade/vscroll/internal/activity"
	"github.com/rshade/vscroll/internal/virtualizer"
)

// BenchmarkVirtualizer_Scroll benchmarks a scroll event end to end including
// the activity tracker, on a 100k item list.
// Performance target: well under one frame (16ms) per event.
func BenchmarkVirtualizer_Scroll(b *testing.B) {
	items := make([]virtualizer.Item[int], 100_000)
	for i := range items {
		items[i] = virtualizer.Item[int]{ID: fmt.Sprintf("item-%d", i), Data: i}
	}
	clock := activity.NewManualClock()
	v := virtualizer.New(items, virtualizer.Options{Clock: clock, Overscan: virtualizer.DefaultOverscan})
	defer v.Dispose()
	v.Resize(800)
	maxOffset := v.MaxScrollOffset()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Scroll(float64(i%5000) / 5000 * maxOffset)
		_ = v.Snapshot()
	}
}
