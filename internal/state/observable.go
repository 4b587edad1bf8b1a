// Package state holds the list and detail controllers and the immutable UI
// states they publish.
package state

import "sync"

// Observable holds the latest value of T and fans it out to subscribers.
// Values are replaced wholesale; subscribers always see the newest one.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[int]chan T
	nextID int
}

// NewObservable creates an observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[int]chan T)}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set replaces the value and notifies subscribers.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
	for _, ch := range o.subs {
		deliver(ch, v)
	}
}

// Update replaces the value with fn(current) atomically.
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = fn(o.value)
	for _, ch := range o.subs {
		deliver(ch, o.value)
	}
	return o.value
}

// Subscribe returns a channel receiving every new value. A slow reader
// misses intermediate values but never the latest. cancel closes the channel.
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan T, 1)
	o.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// deliver replaces any unread value in ch with v. Called with o.mu held,
// so ch has a single writer.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
