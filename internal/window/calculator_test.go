package window_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vscroll/internal/window"
)

// TestCompute_Scenarios tests canonical windowing scenarios.
func TestCompute_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		sizes    window.SizeModel
		viewport window.Viewport
		overscan int
		want     window.VisibleRange
	}{
		{
			name:     "top of uniform list",
			sizes:    window.NewUniformSizes(1000, 50),
			viewport: window.Viewport{ScrollOffset: 0, Size: 300},
			overscan: 2,
			want:     window.VisibleRange{Start: 0, End: 8, RenderOffset: 0, TotalExtent: 50000},
		},
		{
			name:     "scrolled uniform list",
			sizes:    window.NewUniformSizes(1000, 50),
			viewport: window.Viewport{ScrollOffset: 1000, Size: 300},
			overscan: 2,
			want:     window.VisibleRange{Start: 18, End: 28, RenderOffset: 900, TotalExtent: 50000},
		},
		{
			name:     "empty list",
			sizes:    window.NewUniformSizes(0, 50),
			viewport: window.Viewport{ScrollOffset: 400, Size: 300},
			overscan: 2,
			want:     window.VisibleRange{Empty: true},
		},
		{
			name:     "zero viewport keeps extent",
			sizes:    window.NewUniformSizes(1000, 50),
			viewport: window.Viewport{ScrollOffset: 100, Size: 0},
			overscan: 2,
			want:     window.VisibleRange{TotalExtent: 50000, Empty: true},
		},
		{
			name:     "negative overscan clamps to zero",
			sizes:    window.NewUniformSizes(1000, 50),
			viewport: window.Viewport{ScrollOffset: 1000, Size: 300},
			overscan: -4,
			want:     window.VisibleRange{Start: 20, End: 26, RenderOffset: 1000, TotalExtent: 50000},
		},
		{
			name:     "scrolled past the end",
			sizes:    window.NewUniformSizes(10, 50),
			viewport: window.Viewport{ScrollOffset: 9000, Size: 300},
			overscan: 2,
			want:     window.VisibleRange{Start: 7, End: 9, RenderOffset: 350, TotalExtent: 500},
		},
		{
			name:     "negative scroll offset",
			sizes:    window.NewUniformSizes(10, 50),
			viewport: window.Viewport{ScrollOffset: -80, Size: 100},
			overscan: 1,
			want:     window.VisibleRange{Start: 0, End: 3, RenderOffset: 0, TotalExtent: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window.Compute(tt.viewport, tt.sizes, tt.overscan)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCompute_HeightCorrection tests that a corrected height moves later offsets only.
func TestCompute_HeightCorrection(t *testing.T) {
	sizes := window.NewVariableSizes(100, 50, nil)
	vp := window.Viewport{ScrollOffset: 400, Size: 200}

	before := window.Compute(vp, sizes, 0)
	require.Equal(t, 8, before.Start)
	require.Equal(t, 12, before.End)

	sizes.SetHeight(5, 120)
	after := window.Compute(vp, sizes, 0)

	// item 6 now spans [370, 420)
	assert.Equal(t, 6, after.Start)
	assert.Equal(t, 10, after.End)
	assert.InDelta(t, 370.0, after.RenderOffset, 0)
	assert.InDelta(t, 5070.0, after.TotalExtent, 0)
	assert.InDelta(t, 250.0, sizes.PrefixSum(5), 0)
}

// TestCompute_Idempotent tests that repeated calls compare equal.
func TestCompute_Idempotent(t *testing.T) {
	sizes := window.NewVariableSizes(500, 40, []float64{10, 90, 33})
	vp := window.Viewport{ScrollOffset: 1234, Size: 480}

	first := window.Compute(vp, sizes, 3)
	second := window.Compute(vp, sizes, 3)
	assert.True(t, first == second)
}

// TestCompute_Properties tests bounds, coverage, overscan and monotonicity on random lists.
func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for round := 0; round < 50; round++ {
		n := 1 + rng.IntN(300)
		heights := make([]float64, n)
		for i := range heights {
			heights[i] = float64(1 + rng.IntN(60))
		}
		sizes := window.NewVariableSizes(n, 25, heights)
		overscan := rng.IntN(6)
		size := float64(1 + rng.IntN(400))

		var prevStart int
		for offset := 0.0; offset <= sizes.TotalExtent(); offset += float64(1 + rng.IntN(40)) {
			vp := window.Viewport{ScrollOffset: offset, Size: size}
			r := window.Compute(vp, sizes, overscan)

			require.False(t, r.Empty)
			require.GreaterOrEqual(t, r.Start, 0)
			require.LessOrEqual(t, r.Start, r.End)
			require.LessOrEqual(t, r.End, n-1)
			require.InDelta(t, sizes.PrefixSum(r.Start), r.RenderOffset, 0)
			require.GreaterOrEqual(t, r.Start, prevStart, "start must not decrease while scrolling down")
			prevStart = r.Start

			first := sizes.IndexAtOffset(offset)
			last := min(n-1, sizes.IndexAtOffset(offset+size))
			require.GreaterOrEqual(t, r.Start, first-overscan)
			require.LessOrEqual(t, r.End, last+overscan)

			for i := 0; i < n; i++ {
				top := sizes.PrefixSum(i)
				bottom := top + sizes.HeightOf(i)
				if top <= offset+size && bottom > offset {
					require.True(t, r.Contains(i), "index %d intersects viewport [%v,%v]", i, offset, offset+size)
				}
			}
		}

		var sum float64
		for i := 0; i < n; i++ {
			sum += sizes.HeightOf(i)
		}
		require.InDelta(t, sum, sizes.TotalExtent(), 0)
	}
}

// TestCompute_ExtremeOffsets tests that scroll offsets far past the end
// clamp the range to the tail of the list for both size models.
func TestCompute_ExtremeOffsets(t *testing.T) {
	models := map[string]window.SizeModel{
		"uniform":  window.NewUniformSizes(1000, 50),
		"variable": window.NewVariableSizes(1000, 50, nil),
	}

	for name, sizes := range models {
		for _, offset := range []float64{1e30, math.MaxFloat64, math.Inf(1)} {
			t.Run(name, func(t *testing.T) {
				r := window.Compute(window.Viewport{ScrollOffset: offset, Size: 300}, sizes, 2)

				require.False(t, r.Empty)
				assert.Equal(t, 997, r.Start, "offset %v", offset)
				assert.Equal(t, 999, r.End, "offset %v", offset)
				assert.InDelta(t, 49850.0, r.RenderOffset, 0)
				assert.InDelta(t, 50000.0, r.TotalExtent, 0)
			})
		}

		t.Run(name+"/NaN", func(t *testing.T) {
			r := window.Compute(window.Viewport{ScrollOffset: math.NaN(), Size: 300}, sizes, 2)
			want := window.Compute(window.Viewport{ScrollOffset: 0, Size: 300}, sizes, 2)
			assert.Equal(t, want, r)

			r = window.Compute(window.Viewport{ScrollOffset: 100, Size: math.NaN()}, sizes, 2)
			assert.True(t, r.Empty)
		})
	}
}

// TestVisibleRange_Len tests range length helpers.
func TestVisibleRange_Len(t *testing.T) {
	assert.Equal(t, 0, window.VisibleRange{Empty: true}.Len())
	assert.Equal(t, 1, window.VisibleRange{}.Len())
	assert.Equal(t, 9, window.VisibleRange{Start: 0, End: 8}.Len())
	assert.False(t, window.VisibleRange{Empty: true}.Contains(0))
	assert.True(t, window.VisibleRange{Start: 2, End: 4}.Contains(4))
}

// TestScrollToIndex tests minimal scrolling to reveal an item.
func TestScrollToIndex(t *testing.T) {
	sizes := window.NewVariableSizes(10, 50, []float64{50, 50, 50, 400})

	tests := []struct {
		name    string
		index   int
		current float64
		want    float64
	}{
		{name: "already visible", index: 1, current: 0, want: 0},
		{name: "above viewport", index: 0, current: 120, want: 0},
		{name: "below viewport", index: 5, current: 0, want: 450},
		{name: "taller than viewport aligns top", index: 3, current: 0, want: 150},
		{name: "out of range", index: 42, current: 77, want: 77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := window.ScrollToIndex(sizes, tt.index, tt.current, 200)
			assert.InDelta(t, tt.want, got, 0)
		})
	}

	assert.InDelta(t, 650.0, window.MaxScrollOffset(sizes, 200), 0)
	assert.InDelta(t, 0.0, window.MaxScrollOffset(sizes, 1e6), 0)
}
