package window

// Viewport is the visible window into the list's scrollable extent.
type Viewport struct {
	// ScrollOffset is the distance from the top of the list to the top of the viewport.
	ScrollOffset float64

	// Size is the height of the viewport.
	Size float64
}

// VisibleRange is the slice of items a caller should render.
//
// When Empty is false, 0 <= Start <= End < item count and RenderOffset is the
// pixel offset of Start. When Empty is true nothing should be rendered; Start,
// End and RenderOffset are zero and TotalExtent still reports the full list height.
type VisibleRange struct {
	// Start is the first index to render (inclusive).
	Start int

	// End is the last index to render (inclusive).
	End int

	// RenderOffset is the prefix sum at Start.
	RenderOffset float64

	// TotalExtent is the height of the whole collection.
	TotalExtent float64

	// Empty marks a range with no items to render.
	Empty bool
}

// Len returns the number of items in the range.
func (r VisibleRange) Len() int {
	if r.Empty {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index lies within the range.
func (r VisibleRange) Contains(index int) bool {
	return !r.Empty && index >= r.Start && index <= r.End
}

// Compute returns the items of sizes that intersect vp, widened by overscan
// items on each side.
//
// Boundaries are inclusive: an item starting exactly at the bottom edge of the
// viewport is part of the range. Negative or NaN scroll offsets and negative
// overscan are treated as 0. A list with no items or a viewport with no height
// yields an empty range.
func Compute(vp Viewport, sizes SizeModel, overscan int) VisibleRange {
	n := sizes.Len()
	if n == 0 {
		return VisibleRange{Empty: true}
	}

	total := sizes.TotalExtent()
	if !(vp.Size > 0) {
		return VisibleRange{TotalExtent: total, Empty: true}
	}

	if overscan < 0 {
		overscan = 0
	}
	offset := vp.ScrollOffset
	if !(offset > 0) {
		offset = 0
	}

	first := sizes.IndexAtOffset(offset)
	last := sizes.IndexAtOffset(offset + vp.Size)
	if last > n-1 {
		last = n - 1
	}

	start := max(0, first-overscan)
	end := min(n-1, last+overscan)

	return VisibleRange{
		Start:        start,
		End:          end,
		RenderOffset: sizes.PrefixSum(start),
		TotalExtent:  total,
	}
}

// MaxScrollOffset returns the largest scroll offset that still shows content
// at the bottom of the viewport.
func MaxScrollOffset(sizes SizeModel, viewportSize float64) float64 {
	maxOffset := sizes.TotalExtent() - viewportSize
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

// ScrollToIndex returns the scroll offset that brings index fully into view
// while moving as little as possible. If the item is already visible the
// current offset is returned unchanged.
func ScrollToIndex(sizes SizeModel, index int, current, viewportSize float64) float64 {
	if index < 0 || index >= sizes.Len() {
		return current
	}

	top := sizes.PrefixSum(index)
	bottom := top + sizes.HeightOf(index)

	if top < current {
		return top
	}
	if bottom > current+viewportSize {
		target := bottom - viewportSize
		// Items taller than the viewport align to their top edge.
		if target > top {
			return top
		}
		return target
	}
	return current
}
