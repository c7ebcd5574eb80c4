package domain

type patchState uint8

const (
	patchUnset patchState = iota
	patchClear
	patchSet
)

// Patch is a field of a partial update: Unset leaves the stored value alone,
// Clear nulls it and Set replaces it.
type Patch[T any] struct {
	state patchState
	value T
}

func Unset[T any]() Patch[T] {
	return Patch[T]{}
}

func Clear[T any]() Patch[T] {
	return Patch[T]{state: patchClear}
}

func Set[T any](v T) Patch[T] {
	return Patch[T]{state: patchSet, value: v}
}

func (p Patch[T]) Present() bool {
	return p.state != patchUnset
}

func (p Patch[T]) IsClear() bool {
	return p.state == patchClear
}

func (p Patch[T]) IsSet() bool {
	return p.state == patchSet
}

// Value returns the set value. ok is false for Unset and Clear.
func (p Patch[T]) Value() (v T, ok bool) {
	return p.value, p.state == patchSet
}

// Nullable returns the value for a column write: nil when cleared.
func (p Patch[T]) Nullable() any {
	if p.state != patchSet {
		return nil
	}
	return p.value
}
