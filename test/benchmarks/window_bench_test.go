package benchmarks_test

import (
	"fmt"
	"testing"

	"github.com/rshade/vscroll/internal/window"
)

var benchSizes = []int{1_000, 100_000, 1_000_000}

// BenchmarkCompute_Uniform benchmarks range computation over uniform heights.
// Performance target: constant time regardless of list length.
func BenchmarkCompute_Uniform(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("items=%d", n), func(b *testing.B) {
			sizes := window.NewUniformSizes(n, window.DefaultItemHeight)
			maxOffset := window.MaxScrollOffset(sizes, 600)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				offset := float64(i%1000) / 1000 * maxOffset
				_ = window.Compute(window.Viewport{ScrollOffset: offset, Size: 600}, sizes, 5)
			}
		})
	}
}

// BenchmarkCompute_Variable benchmarks range computation over measured heights.
// Performance target: logarithmic in list length.
func BenchmarkCompute_Variable(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("items=%d", n), func(b *testing.B) {
			sizes := variableSizes(n)
			maxOffset := window.MaxScrollOffset(sizes, 600)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				offset := float64(i%1000) / 1000 * maxOffset
				_ = window.Compute(window.Viewport{ScrollOffset: offset, Size: 600}, sizes, 5)
			}
		})
	}
}

// BenchmarkSetHeight benchmarks a single height correction, which only
// touches prefix sums from the corrected index onward.
func BenchmarkSetHeight(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("items=%d", n), func(b *testing.B) {
			sizes := variableSizes(n)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sizes.SetHeight(i%n, float64(20+i%80))
			}
		})
	}
}

// BenchmarkNewVariableSizes benchmarks building the size model from scratch.
func BenchmarkNewVariableSizes(b *testing.B) {
	heights := make([]float64, 100_000)
	for i := range heights {
		heights[i] = float64(20 + i%60)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = window.NewVariableSizes(len(heights), window.DefaultItemHeight, heights)
	}
}

func variableSizes(n int) *window.VariableSizes {
	heights := make([]float64, n)
	for i := range heights {
		heights[i] = float64(20 + (i*37)%90)
	}
	return window.NewVariableSizes(n, window.DefaultItemHeight, heights)
}
