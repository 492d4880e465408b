package threadsafe

import "sync"

// Value is a mutex-guarded single slot.
type Value[T any] struct {
	inner T
	mux   *sync.Mutex
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		inner: initial,
		mux:   &sync.Mutex{},
	}
}

func (v *Value[T]) Get() T {
	v.mux.Lock()
	defer v.mux.Unlock()
	return v.inner
}

func (v *Value[T]) Set(value T) {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.inner = value
}

// SetIf overwrites the slot only when condition holds for the current
// value, keeping check and write under one lock acquisition.
func (v *Value[T]) SetIf(value T, condition func(current T) bool) bool {
	v.mux.Lock()
	defer v.mux.Unlock()
	if condition(v.inner) {
		v.inner = value
		return true
	}
	return false
}
