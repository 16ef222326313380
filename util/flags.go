package util

// Per-node search state, reset to a default value between searches.
type Flags[T any] struct {
	flags    Array[T]
	_default T
}

func NewFlags[T any](size int32, default_val T) Flags[T] {
	flags := NewArray[T](int(size))
	for i := range flags {
		flags[i] = default_val
	}
	return Flags[T]{
		flags:    flags,
		_default: default_val,
	}
}

func (self Flags[T]) Get(id int32) *T {
	return &self.flags[id]
}

func (self Flags[T]) Reset() {
	for i := range self.flags {
		self.flags[i] = self._default
	}
}
