package audit

import "sync"

// ringBuffer holds pending events. When full the oldest event is dropped.
type ringBuffer struct {
	mu      sync.Mutex
	events  []Event
	head    int
	tail    int
	count   int
	dropped int64
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &ringBuffer{events: make([]Event, capacity)}
}

// enqueue adds event and reports whether an older event was dropped for it.
func (b *ringBuffer) enqueue(event Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := false
	if b.count == len(b.events) {
		b.tail = (b.tail + 1) % len(b.events)
		b.count--
		b.dropped++
		dropped = true
	}
	b.events[b.head] = event
	b.head = (b.head + 1) % len(b.events)
	b.count++
	return dropped
}

// dequeueBatch removes up to n events, oldest first.
func (b *ringBuffer) dequeueBatch(n int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	n = min(n, b.count)
	out := make([]Event, n)
	for i := range out {
		out[i] = b.events[b.tail]
		b.events[b.tail] = Event{}
		b.tail = (b.tail + 1) % len(b.events)
	}
	b.count -= n
	return out
}

// requeue puts events back at the front, oldest first. Events that no longer
// fit are dropped, oldest of them first.
func (b *ringBuffer) requeue(events []Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(events) - 1; i >= 0; i-- {
		if b.count == len(b.events) {
			b.dropped += int64(i + 1)
			return
		}
		b.tail = (b.tail - 1 + len(b.events)) % len(b.events)
		b.events[b.tail] = events[i]
		b.count++
	}
}

func (b *ringBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *ringBuffer) droppedTotal() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
