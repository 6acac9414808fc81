package event

import "reflect"

// Bus is a double-buffered event bus. Events emitted during tick N become
// readable after the next SwapBuffers, which RedrawSystem calls in the output
// phase of the same tick. Game loop goroutine only, including Subscribe.
type Bus struct {
	queues map[reflect.Type]*queue
	order  []*queue // dispatch order: first Subscribe or Emit of each type
}

// queue holds both buffers and the subscribers for one event type. Handlers
// are wrapped at Subscribe time so dispatch is a plain call per event.
type queue struct {
	front    []any
	back     []any
	handlers []func(any)
}

func NewBus() *Bus {
	return &Bus{queues: make(map[reflect.Type]*queue)}
}

func queueFor[T any](b *Bus) *queue {
	t := reflect.TypeOf((*T)(nil)).Elem()
	q, ok := b.queues[t]
	if !ok {
		q = &queue{}
		b.queues[t] = q
		b.order = append(b.order, q)
	}
	return q
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	q := queueFor[T](b)
	q.back = append(q.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	q := queueFor[T](b)
	q.handlers = append(q.handlers, func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	for _, q := range b.order {
		q.front, q.back = q.back, q.front[:0]
	}
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	n := 0
	for _, q := range b.order {
		n += len(q.back)
	}
	return n
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
// Event types are visited in the order the bus first saw them; events of one
// type keep emission order.
func (b *Bus) DispatchAll() {
	for _, q := range b.order {
		for _, ev := range q.front {
			for _, h := range q.handlers {
				h(ev)
			}
		}
	}
}
