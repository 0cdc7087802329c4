package repo

import "sync"

// lazy memoizes the first successful result of a load function. Failed
// loads are not cached so a later call can retry.
type lazy[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

func (l *lazy[T]) get(load func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.value, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	l.value, l.done = v, true
	return v, nil
}

// set stores a value that is already known, unless one was loaded first.
func (l *lazy[T]) set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.value, l.done = v, true
	}
}
