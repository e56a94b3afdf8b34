// Package virtualizer orchestrates list windowing for a single scroll container.
//
// A Virtualizer owns the viewport state and the item size model. Hosts feed it
// scroll, resize and height-measurement events; after each event it recomputes
// the visible range with window.Compute and exposes the items to render, their
// offsets and the total extent for sizing a scroll spacer.
//
// A Virtualizer is owned by one goroutine. Only its activity tracker is touched
// from timer goroutines and it synchronizes internally.
package virtualizer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/vscroll/internal/activity"
	"github.com/rshade/vscroll/internal/window"
)

// DefaultOverscan is the number of extra items rendered on each side of the viewport.
const DefaultOverscan = 5

// Item is one entry of the virtualized collection.
type Item[T any] struct {
	// ID is stable and unique for the lifetime of the collection.
	ID string

	// Height is the item's height; values <= 0 mean "use the default height".
	Height float64

	// Data is the caller's payload.
	Data T
}

// VisibleItem is an item the caller should render at Offset.
type VisibleItem[T any] struct {
	Item   Item[T]
	Index  int
	Offset float64
}

// Snapshot is everything a render step needs.
type Snapshot[T any] struct {
	VisibleItems []VisibleItem[T]
	TotalExtent  float64
	IsScrolling  bool
	Range        window.VisibleRange
}

// Event is a host notification delivered to Update.
type Event interface {
	isEvent()
}

// ScrollEvent reports a new scroll offset.
type ScrollEvent struct{ Offset float64 }

// ResizeEvent reports a new viewport size.
type ResizeEvent struct{ Size float64 }

// HeightMeasuredEvent reports the rendered height of an item.
type HeightMeasuredEvent struct {
	Index  int
	Height float64
}

// ItemsReplacedEvent swaps the whole collection.
type ItemsReplacedEvent[T any] struct{ Items []Item[T] }

func (ScrollEvent) isEvent() {}

func (ResizeEvent) isEvent() {}

func (HeightMeasuredEvent) isEvent() {}

func (ItemsReplacedEvent[T]) isEvent() {}

// Options configures a Virtualizer. Zero values select defaults, except
// Overscan where 0 disables the margin (config.Default uses DefaultOverscan).
type Options struct {
	// DefaultHeight is used for items without an explicit or measured height.
	DefaultHeight float64

	// Overscan is the number of extra items on each side. Negative values clamp to 0.
	Overscan int

	// ScrollDebounce is the quiet period before IsScrolling turns false.
	ScrollDebounce time.Duration

	// Clock drives the activity tracker. Defaults to activity.RealClock.
	Clock activity.Clock

	// OnRange is called with the new range whenever an update changes it.
	OnRange func(window.VisibleRange)

	// OnScrollingChange is called when IsScrolling flips.
	OnScrollingChange func(scrolling bool)

	// Logger receives debug diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// Virtualizer is the explicit state object behind a virtualized list.
type Virtualizer[T any] struct {
	items    []Item[T]
	measured map[string]float64

	uniform  *window.UniformSizes
	variable *window.VariableSizes
	sizes    window.SizeModel

	viewport      window.Viewport
	overscan      int
	defaultHeight float64

	tracker  *activity.Tracker
	onRange  func(window.VisibleRange)
	current  window.VisibleRange
	changed  bool
	disposed bool

	logger zerolog.Logger
}

// New creates a Virtualizer over items. The viewport starts with zero size, so
// nothing is visible until the first ResizeEvent.
func New[T any](items []Item[T], opts Options) *Virtualizer[T] {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "virtualizer").Logger()
	}

	v := &Virtualizer[T]{
		measured:      make(map[string]float64),
		overscan:      opts.Overscan,
		defaultHeight: opts.DefaultHeight,
		onRange:       opts.OnRange,
		logger:        logger,
	}
	if v.overscan < 0 {
		v.logger.Debug().Int("overscan", v.overscan).Msg("negative overscan clamped to 0")
		v.overscan = 0
	}
	if v.defaultHeight <= 0 {
		v.defaultHeight = window.DefaultItemHeight
	}

	trackerOpts := []activity.Option{
		activity.WithQuietPeriod(opts.ScrollDebounce),
		activity.WithClock(opts.Clock),
		activity.WithLogger(v.logger),
	}
	if opts.OnScrollingChange != nil {
		trackerOpts = append(trackerOpts, activity.WithOnChange(opts.OnScrollingChange))
	}
	v.tracker = activity.NewTracker(trackerOpts...)

	v.setItems(items)
	v.current = window.Compute(v.viewport, v.sizes, v.overscan)
	return v
}

// Update applies a host event and returns the resulting range.
// A disposed Virtualizer ignores events and returns an empty range.
func (v *Virtualizer[T]) Update(ev Event) window.VisibleRange {
	if v.disposed {
		return window.VisibleRange{Empty: true}
	}

	switch e := ev.(type) {
	case ScrollEvent:
		offset := e.Offset
		if offset < 0 {
			offset = 0
		}
		v.viewport.ScrollOffset = offset
		v.tracker.Notify()
	case ResizeEvent:
		size := e.Size
		if size < 0 {
			size = 0
		}
		v.viewport.Size = size
	case HeightMeasuredEvent:
		if !v.measure(e.Index, e.Height) {
			v.changed = false
			return v.current
		}
	case ItemsReplacedEvent[T]:
		v.setItems(e.Items)
	default:
		v.logger.Debug().Str("event", fmt.Sprintf("%T", ev)).Msg("ignoring unknown event")
		v.changed = false
		return v.current
	}

	return v.recompute()
}

// Scroll is shorthand for Update(ScrollEvent{offset}).
func (v *Virtualizer[T]) Scroll(offset float64) window.VisibleRange {
	return v.Update(ScrollEvent{Offset: offset})
}

// Resize is shorthand for Update(ResizeEvent{size}).
func (v *Virtualizer[T]) Resize(size float64) window.VisibleRange {
	return v.Update(ResizeEvent{Size: size})
}

// MeasureHeight is shorthand for Update(HeightMeasuredEvent{index, height}).
// Only prefix sums from index onward change.
func (v *Virtualizer[T]) MeasureHeight(index int, height float64) window.VisibleRange {
	return v.Update(HeightMeasuredEvent{Index: index, Height: height})
}

// SetItems is shorthand for Update(ItemsReplacedEvent{items}).
func (v *Virtualizer[T]) SetItems(items []Item[T]) window.VisibleRange {
	return v.Update(ItemsReplacedEvent[T]{Items: items})
}

// ScrollToIndex scrolls the minimum distance needed to show item index in full.
func (v *Virtualizer[T]) ScrollToIndex(index int) window.VisibleRange {
	if v.disposed {
		return window.VisibleRange{Empty: true}
	}
	target := window.ScrollToIndex(v.sizes, index, v.viewport.ScrollOffset, v.viewport.Size)
	if target == v.viewport.ScrollOffset {
		v.changed = false
		return v.current
	}
	return v.Scroll(target)
}

// recompute runs the calculator and notifies OnRange when the range moved.
func (v *Virtualizer[T]) recompute() window.VisibleRange {
	next := window.Compute(v.viewport, v.sizes, v.overscan)
	v.changed = next != v.current
	v.current = next
	if v.changed && v.onRange != nil {
		v.onRange(next)
	}
	return next
}

// measure records a measured height and reports whether the size model changed.
func (v *Virtualizer[T]) measure(index int, height float64) bool {
	if index < 0 || index >= len(v.items) {
		v.logger.Debug().Int("index", index).Int("items", len(v.items)).Msg("height measurement out of range")
		return false
	}
	if height < 0 {
		height = 0
	}
	if id := v.items[index].ID; id != "" {
		v.measured[id] = height
	}

	if v.variable == nil {
		if height == v.uniform.DefaultHeight() {
			return false
		}
		v.logger.Debug().
			Int("index", index).
			Float64("height", height).
			Msg("switching to variable size model")
		v.variable = window.NewVariableSizes(len(v.items), v.defaultHeight, nil)
		v.uniform = nil
		v.sizes = v.variable
	}
	return v.variable.SetHeight(index, height)
}

// setItems replaces the collection and rebuilds the size model. Measured
// heights are kept for items whose ID survives the replacement.
func (v *Virtualizer[T]) setItems(items []Item[T]) {
	v.items = items

	var heights []float64
	kept := make(map[string]float64, len(v.measured))
	for i, it := range items {
		h, explicit := it.Height, it.Height > 0
		if m, ok := v.measured[it.ID]; ok && it.ID != "" {
			h, explicit = m, true
			kept[it.ID] = m
		}
		if explicit && h != v.defaultHeight {
			if heights == nil {
				heights = make([]float64, len(items))
			}
			heights[i] = h
		}
	}
	v.measured = kept

	if heights == nil {
		v.uniform = window.NewUniformSizes(len(items), v.defaultHeight)
		v.variable = nil
		v.sizes = v.uniform
		return
	}

	v.variable = window.NewVariableSizes(len(items), v.defaultHeight, heights)
	v.uniform = nil
	v.sizes = v.variable
	// NewVariableSizes treats 0 as unset; restore measured zero heights.
	for i, it := range items {
		if m, ok := kept[it.ID]; ok && m == 0 {
			v.variable.SetHeight(i, 0)
		}
	}
}

// Range returns the most recently computed range.
func (v *Virtualizer[T]) Range() window.VisibleRange {
	return v.current
}

// Changed reports whether the last update produced a different range.
func (v *Virtualizer[T]) Changed() bool {
	return v.changed
}

// TotalExtent returns the height of the whole collection for sizing a scroll spacer.
func (v *Virtualizer[T]) TotalExtent() float64 {
	if v.disposed {
		return 0
	}
	return v.sizes.TotalExtent()
}

// MaxScrollOffset returns the largest useful scroll offset for the current viewport.
func (v *Virtualizer[T]) MaxScrollOffset() float64 {
	return window.MaxScrollOffset(v.sizes, v.viewport.Size)
}

// Viewport returns the current viewport state.
func (v *Virtualizer[T]) Viewport() window.Viewport {
	return v.viewport
}

// Sizes returns the active size model.
func (v *Virtualizer[T]) Sizes() window.SizeModel {
	return v.sizes
}

// Len returns the number of items.
func (v *Virtualizer[T]) Len() int {
	return len(v.items)
}

// Item returns the item at index.
func (v *Virtualizer[T]) Item(index int) (Item[T], bool) {
	if index < 0 || index >= len(v.items) {
		return Item[T]{}, false
	}
	return v.items[index], true
}

// IsScrolling reports whether scroll events arrived within the debounce window.
func (v *Virtualizer[T]) IsScrolling() bool {
	return v.tracker.Active()
}

// Snapshot returns the visible items with their offsets.
func (v *Virtualizer[T]) Snapshot() Snapshot[T] {
	r := v.current
	snap := Snapshot[T]{
		TotalExtent: r.TotalExtent,
		IsScrolling: v.IsScrolling(),
		Range:       r,
	}
	if r.Empty || v.disposed {
		return snap
	}

	snap.VisibleItems = make([]VisibleItem[T], 0, r.Len())
	offset := r.RenderOffset
	for i := r.Start; i <= r.End; i++ {
		snap.VisibleItems = append(snap.VisibleItems, VisibleItem[T]{Item: v.items[i], Index: i, Offset: offset})
		offset += v.sizes.HeightOf(i)
	}
	return snap
}

// Dispose cancels the scroll-activity timer and detaches range listeners.
// It is synchronous and idempotent.
func (v *Virtualizer[T]) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.tracker.Dispose()
	v.onRange = nil
	v.current = window.VisibleRange{Empty: true}
	v.changed = false
}

// Disposed reports whether Dispose has been called.
func (v *Virtualizer[T]) Disposed() bool {
	return v.disposed
}

// Render calls fn once per visible item in index order. An error from fn is
// returned wrapped and leaves the Virtualizer untouched.
func Render[T, N any](v *Virtualizer[T], fn func(item Item[T], index int, offset float64) (N, error)) ([]N, error) {
	snap := v.Snapshot()
	nodes := make([]N, 0, len(snap.VisibleItems))
	for _, vi := range snap.VisibleItems {
		node, err := fn(vi.Item, vi.Index, vi.Offset)
		if err != nil {
			return nil, fmt.Errorf("rendering item %d: %w", vi.Index, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
