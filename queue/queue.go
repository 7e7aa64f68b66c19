package queue

// Entry is a pending event waiting for the next tick.
type Entry[K comparable] struct {
	Key      K
	Weight   int
	Sequence uint64
}

// Queue buffers events sent between ticks. It is not safe for concurrent use.
type Queue[K comparable] struct {
	events   []Entry[K]
	sequence uint64
}

func New[K comparable](maybeSize ...int) *Queue[K] {
	var events []Entry[K]
	if len(maybeSize) > 0 {
		events = make([]Entry[K], 0, maybeSize[0])
	}
	return &Queue[K]{events: events}
}

func (q *Queue[K]) Len() int {
	return len(q.events)
}

// Push appends key with weight and returns the stamped entry.
func (q *Queue[K]) Push(key K, weight int) Entry[K] {
	q.sequence++
	entry := Entry[K]{Key: key, Weight: weight, Sequence: q.sequence}
	q.events = append(q.events, entry)
	return entry
}

// Select returns the entry with the highest weight, the earliest sent on ties.
func (q *Queue[K]) Select() (Entry[K], bool) {
	if len(q.events) == 0 {
		return Entry[K]{}, false
	}
	selected := q.events[0]
	for _, entry := range q.events[1:] {
		if entry.Weight > selected.Weight || (entry.Weight == selected.Weight && entry.Sequence < selected.Sequence) {
			selected = entry
		}
	}
	return selected, true
}

// Drain selects an entry and discards the rest of the buffer.
func (q *Queue[K]) Drain() (Entry[K], bool) {
	entry, ok := q.Select()
	q.Clear()
	return entry, ok
}

// Clear drops every pending entry. Sequence numbers keep increasing.
func (q *Queue[K]) Clear() {
	clear(q.events)
	q.events = q.events[:0]
}

func (q *Queue[K]) Entries() []Entry[K] {
	entries := make([]Entry[K], len(q.events))
	copy(entries, q.events)
	return entries
}
