// Package lazy provides a publish-once cell for memoized values.
package lazy

import "sync/atomic"

// Value holds a lazily computed *T. Concurrent callers of Get may each run
// the compute function, but only the first result to be stored is ever
// published; every caller observes that same pointer.
type Value[T any] struct {
	p atomic.Pointer[T]
}

// Get returns the published value, computing it with fn if none exists yet.
func (v *Value[T]) Get(fn func() *T) *T {
	if cur := v.p.Load(); cur != nil {
		return cur
	}
	next := fn()
	if v.p.CompareAndSwap(nil, next) {
		return next
	}
	return v.p.Load()
}

// Loaded reports whether a value has been published.
func (v *Value[T]) Loaded() bool {
	return v.p.Load() != nil
}
