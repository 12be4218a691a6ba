package engine

import "log/slog"

// ListenerID identifies one registered listener so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id      ListenerID
	fn      func(T)
	removed bool
}

// EventWithArg is a multi-cast event with one argument.
// Listeners run in registration order. Invocation iterates a snapshot, so
// listeners may add or remove listeners (or clear the event) while it fires;
// a listener removed mid-invocation does not run.
type EventWithArg[T any] struct {
	// Name shows up in panic reports.
	Name string
	// OnPanic receives the recovered value when a listener panics. The
	// remaining listeners still run. When nil the panic is logged through slog.
	OnPanic func(name string, recovered any)

	listeners []*listener[T]
	nextID    ListenerID
}

// AddListener adds a callback to be invoked when the event fires.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, &listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener removes the listener registered under id.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) bool {
	for i, l := range e.listeners {
		if l.id == id {
			l.removed = true
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners clears all listeners
func (e *EventWithArg[T]) RemoveAllListeners() {
	for _, l := range e.listeners {
		l.removed = true
	}
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *EventWithArg[T]) Invoke(arg T) {
	e.InvokeWhile(arg, nil)
}

// InvokeWhile calls listeners in order as long as alive reports true.
// alive is checked before every listener; nil means always.
func (e *EventWithArg[T]) InvokeWhile(arg T, alive func() bool) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[T], len(e.listeners))
	copy(snapshot, e.listeners)

	for _, l := range snapshot {
		if alive != nil && !alive() {
			return
		}
		if l.removed {
			continue
		}
		e.call(l, arg)
	}
}

func (e *EventWithArg[T]) call(l *listener[T], arg T) {
	defer func() {
		if r := recover(); r != nil {
			if e.OnPanic != nil {
				e.OnPanic(e.Name, r)
				return
			}
			slog.Error("event listener panicked", slog.String("event", e.Name), slog.Any("panic", r))
		}
	}()
	l.fn(arg)
}

// GetListenerCount returns the number of registered listeners (for debugging)
func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}

// Event is a Unity-style multi-cast event without arguments.
type Event struct {
	EventWithArg[struct{}]
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	return e.EventWithArg.AddListener(func(struct{}) { callback() })
}

// Invoke calls all registered listeners
func (e *Event) Invoke() {
	e.EventWithArg.Invoke(struct{}{})
}

// InvokeWhile calls listeners in order as long as alive reports true.
func (e *Event) InvokeWhile(alive func() bool) {
	e.EventWithArg.InvokeWhile(struct{}{}, alive)
}
