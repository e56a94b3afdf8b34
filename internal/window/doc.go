// Package window computes which items of a large list intersect a viewport.
//
// This package holds the pure part of list virtualization: item size models and
// the range calculator. Key features:
//   - Uniform size model with O(1) offset and index lookups
//   - Variable size model backed by a Fenwick tree, O(log n) height corrections
//   - Overscan margin clamped to the collection boundaries
//   - Allocation-free Compute, safe to call on every animation frame
//
// Compute never mutates its inputs. Two calls with the same inputs return values
// that compare equal with ==, so callers can skip re-rendering unchanged ranges.
package window
