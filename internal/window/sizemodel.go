package window

import "math/bits"

// DefaultItemHeight is the height used when neither the item nor the caller supplies one.
const DefaultItemHeight = 50

// SizeModel maps between item indexes and pixel offsets.
//
// PrefixSum(i) is the cumulative height of items [0, i) and is monotonically
// non-decreasing in i. TotalExtent() == PrefixSum(Len()).
type SizeModel interface {
	// Len returns the number of items in the model.
	Len() int

	// DefaultHeight returns the height used for items without an explicit height.
	DefaultHeight() float64

	// HeightOf returns the height of the item at index.
	HeightOf(index int) float64

	// PrefixSum returns the cumulative height of items [0, index).
	PrefixSum(index int) float64

	// IndexAtOffset returns the index whose span [PrefixSum(i), PrefixSum(i+1)) contains offset.
	IndexAtOffset(offset float64) int

	// TotalExtent returns the height of the whole collection.
	TotalExtent() float64
}

// sanitizeDefault returns h, or DefaultItemHeight when h is not a usable height.
func sanitizeDefault(h float64) float64 {
	if h <= 0 {
		return DefaultItemHeight
	}
	return h
}

// clampIndex caps index to [0, n].
func clampIndex(index, n int) int {
	switch {
	case index < 0:
		return 0
	case index > n:
		return n
	default:
		return index
	}
}

// UniformSizes is a SizeModel where every item has the same height.
// All lookups are O(1).
type UniformSizes struct {
	count  int
	height float64
}

// NewUniformSizes creates a uniform model of count items.
// A non-positive height falls back to DefaultItemHeight.
func NewUniformSizes(count int, height float64) *UniformSizes {
	if count < 0 {
		count = 0
	}
	return &UniformSizes{count: count, height: sanitizeDefault(height)}
}

// Len returns the number of items.
func (u *UniformSizes) Len() int { return u.count }

// DefaultHeight returns the shared item height.
func (u *UniformSizes) DefaultHeight() float64 { return u.height }

// HeightOf returns the shared item height for every index.
func (u *UniformSizes) HeightOf(int) float64 { return u.height }

// PrefixSum returns index * height, with index clamped to [0, Len()].
func (u *UniformSizes) PrefixSum(index int) float64 {
	return float64(clampIndex(index, u.count)) * u.height
}

// IndexAtOffset divides offset by the item height and clamps to [0, Len()-1].
// NaN maps to 0 and offsets past the end, including +Inf, map to Len()-1.
func (u *UniformSizes) IndexAtOffset(offset float64) int {
	if u.count == 0 || !(offset > 0) {
		return 0
	}
	// Compare before converting: int() of an out-of-range float is undefined.
	q := offset / u.height
	if q >= float64(u.count) {
		return u.count - 1
	}
	return int(q)
}

// TotalExtent returns count * height.
func (u *UniformSizes) TotalExtent() float64 {
	return float64(u.count) * u.height
}

// SetCount changes the number of items.
func (u *UniformSizes) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	u.count = count
}

// VariableSizes is a SizeModel with per-item heights.
//
// Prefix sums live in a Fenwick tree: a single SetHeight touches only the
// O(log n) nodes that cover indexes >= the changed one, and IndexAtOffset walks
// the tree with binary lifting in O(log n). HeightOf reads a flat slice in O(1).
type VariableSizes struct {
	heights []float64
	tree    []float64 // 1-based Fenwick tree over heights
	def     float64
}

// NewVariableSizes creates a model of count items.
//
// heights supplies explicit heights for a prefix of the items. A slice shorter
// than count, or a non-positive entry, leaves the item at the default height.
// Building the model is O(n).
func NewVariableSizes(count int, defaultHeight float64, heights []float64) *VariableSizes {
	if count < 0 {
		count = 0
	}
	v := &VariableSizes{def: sanitizeDefault(defaultHeight)}
	v.heights = make([]float64, count)
	for i := range v.heights {
		v.heights[i] = v.def
		if i < len(heights) && heights[i] > 0 {
			v.heights[i] = heights[i]
		}
	}
	v.rebuild()
	return v
}

// rebuild recomputes the Fenwick tree from heights in O(n).
func (v *VariableSizes) rebuild() {
	n := len(v.heights)
	v.tree = make([]float64, n+1)
	for i := 1; i <= n; i++ {
		v.tree[i] += v.heights[i-1]
		if parent := i + (i & -i); parent <= n {
			v.tree[parent] += v.tree[i]
		}
	}
}

// Len returns the number of items.
func (v *VariableSizes) Len() int { return len(v.heights) }

// DefaultHeight returns the fallback height for unset items.
func (v *VariableSizes) DefaultHeight() float64 { return v.def }

// HeightOf returns the height of the item at index, or the default height when
// index is out of range.
func (v *VariableSizes) HeightOf(index int) float64 {
	if index < 0 || index >= len(v.heights) {
		return v.def
	}
	return v.heights[index]
}

// PrefixSum returns the cumulative height of items [0, index).
func (v *VariableSizes) PrefixSum(index int) float64 {
	var sum float64
	for k := clampIndex(index, len(v.heights)); k > 0; k -= k & -k {
		sum += v.tree[k]
	}
	return sum
}

// IndexAtOffset returns the index of the item whose span contains offset.
// Offsets before the list map to 0, offsets past the end map to Len()-1.
func (v *VariableSizes) IndexAtOffset(offset float64) int {
	n := len(v.heights)
	if n == 0 || !(offset >= 0) {
		return 0
	}

	// Largest pos with PrefixSum(pos) <= offset.
	pos := 0
	remaining := offset
	for step := 1 << (bits.Len(uint(n)) - 1); step > 0; step >>= 1 {
		next := pos + step
		if next <= n && v.tree[next] <= remaining {
			pos = next
			remaining -= v.tree[next]
		}
	}

	if pos >= n {
		return n - 1
	}
	return pos
}

// TotalExtent returns the height of all items.
func (v *VariableSizes) TotalExtent() float64 {
	return v.PrefixSum(len(v.heights))
}

// SetHeight replaces the height of the item at index and reports whether
// anything changed. Only prefix sums from index onward are affected.
// Negative heights are stored as 0; out-of-range indexes are ignored.
func (v *VariableSizes) SetHeight(index int, height float64) bool {
	if index < 0 || index >= len(v.heights) {
		return false
	}
	if height < 0 {
		height = 0
	}
	delta := height - v.heights[index]
	if delta == 0 {
		return false
	}
	v.heights[index] = height
	for k := index + 1; k <= len(v.heights); k += k & -k {
		v.tree[k] += delta
	}
	return true
}

// Resize grows or shrinks the model to count items. Existing heights are kept,
// new items start at the default height. This rebuilds the tree in O(n).
func (v *VariableSizes) Resize(count int) {
	if count < 0 {
		count = 0
	}
	if count == len(v.heights) {
		return
	}
	if count < len(v.heights) {
		v.heights = v.heights[:count]
	} else {
		for len(v.heights) < count {
			v.heights = append(v.heights, v.def)
		}
	}
	v.rebuild()
}
