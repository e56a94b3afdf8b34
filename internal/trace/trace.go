// Package trace replays recorded scroll sessions through a Virtualizer.
//
// A trace is a YAML document describing a list and a time-ordered series of
// scroll, resize and height-measurement events. Replay drives a Virtualizer on
// a manual clock so the scrolling flag is reproducible, and reports the visible
// range after every event.
package trace

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/rshade/vscroll/internal/activity"
	"github.com/rshade/vscroll/internal/virtualizer"
)

// Trace validation errors.
var (
	ErrNoItems       = errors.New("trace declares no items")
	ErrEventOrder    = errors.New("trace events must be in time order")
	ErrNegativeTime  = errors.New("trace event time must be non-negative")
	ErrHeightIndex   = errors.New("trace height index out of range")
	ErrEmptyDocument = errors.New("trace document is empty")
	ErrVersion       = errors.New("unsupported trace format version")
)

// FormatVersion is the trace format written by this package. Documents
// without a version are read as FormatVersion.
const FormatVersion = "1.0.0"

// supportedVersions accepts any 1.x trace.
const supportedVersions = "^1.0.0"

// Trace is a parsed trace document.
type Trace struct {
	// Version is the trace format version (semver).
	Version string `yaml:"version,omitempty"`

	Items ItemsSpec `yaml:"items"`

	// Overscan overrides the configured overscan when set.
	Overscan *int `yaml:"overscan,omitempty"`

	// Viewport is the initial viewport size applied before the first event.
	Viewport float64 `yaml:"viewport"`

	// ScrollDebounce overrides the configured quiet period when positive.
	ScrollDebounce time.Duration `yaml:"scroll_debounce,omitempty"`

	Events []Event `yaml:"events"`
}

// ItemsSpec describes the list being scrolled.
type ItemsSpec struct {
	Count         int             `yaml:"count"`
	DefaultHeight float64         `yaml:"default_height,omitempty"`
	Heights       map[int]float64 `yaml:"heights,omitempty"`
}

// Event is one entry of the trace. Any combination of Resize, Measure and
// Scroll may be present and they apply in that order; an event with none of
// them only advances the clock.
type Event struct {
	At      time.Duration `yaml:"at"`
	Scroll  *float64      `yaml:"scroll,omitempty"`
	Resize  *float64      `yaml:"resize,omitempty"`
	Measure *Measure      `yaml:"measure,omitempty"`
}

// Measure is a height correction for one item.
type Measure struct {
	Index  int     `yaml:"index"`
	Height float64 `yaml:"height"`
}

// Step is the state after one replayed event.
type Step struct {
	Step         int     `json:"step"`
	At           string  `json:"at"`
	Event        string  `json:"event"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	RenderOffset float64 `json:"render_offset"`
	TotalExtent  float64 `json:"total_extent"`
	Empty        bool    `json:"empty"`
	Changed      bool    `json:"changed"`
	Scrolling    bool    `json:"scrolling"`
}

// Parse decodes and validates a trace document.
func Parse(data []byte) (*Trace, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads and parses the trace at path.
func LoadFile(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return t, nil
}

// Validate checks structural constraints that Replay relies on.
func (t *Trace) Validate() error {
	if err := checkVersion(t.Version); err != nil {
		return err
	}
	if t.Items.Count <= 0 {
		return ErrNoItems
	}
	for idx := range t.Items.Heights {
		if idx < 0 || idx >= t.Items.Count {
			return fmt.Errorf("%w: %d", ErrHeightIndex, idx)
		}
	}

	var prev time.Duration
	for i, ev := range t.Events {
		if ev.At < 0 {
			return fmt.Errorf("%w: event %d", ErrNegativeTime, i)
		}
		if ev.At < prev {
			return fmt.Errorf("%w: event %d at %s precedes %s", ErrEventOrder, i, ev.At, prev)
		}
		prev = ev.At
	}
	return nil
}

// checkVersion reports ErrVersion unless v satisfies supportedVersions.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrVersion, v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w: %s (supported %s)", ErrVersion, ver, supportedVersions)
	}
	return nil
}

// buildItems materializes the item list with ULID identifiers.
func (t *Trace) buildItems() []virtualizer.Item[int] {
	items := make([]virtualizer.Item[int], t.Items.Count)
	for i := range items {
		items[i] = virtualizer.Item[int]{ID: ulid.Make().String(), Data: i}
	}

	// Apply explicit heights in index order for deterministic construction.
	indexes := make([]int, 0, len(t.Items.Heights))
	for idx := range t.Items.Heights {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		items[idx].Height = t.Items.Heights[idx]
	}
	return items
}

// Replay runs the trace through a new Virtualizer configured from opts and
// returns one Step for the initial resize plus one per event.
func Replay(t *Trace, opts virtualizer.Options) ([]Step, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	clock := activity.NewManualClock()
	opts.Clock = clock
	if t.Overscan != nil {
		opts.Overscan = *t.Overscan
	}
	if t.Items.DefaultHeight > 0 {
		opts.DefaultHeight = t.Items.DefaultHeight
	}
	if t.ScrollDebounce > 0 {
		opts.ScrollDebounce = t.ScrollDebounce
	}

	v := virtualizer.New(t.buildItems(), opts)
	defer v.Dispose()

	steps := make([]Step, 0, len(t.Events)+1)
	v.Resize(t.Viewport)
	steps = append(steps, snapshotStep(v, 0, 0, fmt.Sprintf("resize %g", t.Viewport), v.Changed()))

	for i, ev := range t.Events {
		clock.AdvanceTo(ev.At)

		label := ""
		changed := false
		if ev.Resize != nil {
			v.Resize(*ev.Resize)
			changed = changed || v.Changed()
			label = join(label, fmt.Sprintf("resize %g", *ev.Resize))
		}
		if ev.Measure != nil {
			v.MeasureHeight(ev.Measure.Index, ev.Measure.Height)
			changed = changed || v.Changed()
			label = join(label, fmt.Sprintf("measure #%d=%g", ev.Measure.Index, ev.Measure.Height))
		}
		if ev.Scroll != nil {
			v.Scroll(*ev.Scroll)
			changed = changed || v.Changed()
			label = join(label, fmt.Sprintf("scroll %g", *ev.Scroll))
		}
		if label == "" {
			label = "tick"
		}

		steps = append(steps, snapshotStep(v, i+1, ev.At, label, changed))
	}

	return steps, nil
}

// snapshotStep captures the virtualizer state as a Step.
func snapshotStep(v *virtualizer.Virtualizer[int], n int, at time.Duration, label string, changed bool) Step {
	r := v.Range()
	return Step{
		Step:         n,
		At:           at.String(),
		Event:        label,
		Start:        r.Start,
		End:          r.End,
		RenderOffset: r.RenderOffset,
		TotalExtent:  r.TotalExtent,
		Empty:        r.Empty,
		Changed:      changed,
		Scrolling:    v.IsScrolling(),
	}
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	return a + ", " + b
}
