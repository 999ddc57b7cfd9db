/*
fifo.go - Keyed first-in-first-out queues with consume-once cursors

PURPOSE:
  A FIFO hands out the values it was loaded with, in load order, each at
  most once. KeyedFIFO groups many such queues under a comparable key.
  This is the mechanism behind the allocation pool: product attributes are
  pushed in input order and taken one per warranty record.

INVARIANTS:
  - The cursor never exceeds the number of values
  - Every pushed value is returned by Take at most once
  - The N-th Take returns the N-th pushed value
  - Take on an unknown key or an exhausted queue returns (zero, false)

CONCURRENCY:
  Not safe for concurrent use. A queue lives for exactly one run and is
  driven by a single loop.

EXAMPLE:
  q := generic.NewKeyedFIFO[string, string]()
  q.Push("cust-1", "INV-1")
  q.Push("cust-1", "INV-2")
  v, _ := q.Take("cust-1") // "INV-1"
  v, _ = q.Take("cust-1")  // "INV-2"
  _, ok := q.Take("cust-1") // ok == false

SEE ALSO:
  - osg/pool.go: Allocation pool built from three keyed queues
*/
package generic

// FIFO is an append-then-consume queue.
type FIFO[V any] struct {
	values []V
	next   int
}

// Push appends a value. Values pushed after consumption started are still
// handed out in order.
func (q *FIFO[V]) Push(v V) {
	q.values = append(q.values, v)
}

// Take returns the next unconsumed value and advances the cursor.
func (q *FIFO[V]) Take() (V, bool) {
	var zero V
	if q == nil || q.next >= len(q.values) {
		return zero, false
	}
	v := q.values[q.next]
	q.next++
	return v, true
}

// Len returns the number of values ever pushed.
func (q *FIFO[V]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.values)
}

// Remaining returns the number of values not yet taken.
func (q *FIFO[V]) Remaining() int {
	if q == nil {
		return 0
	}
	return len(q.values) - q.next
}

// =============================================================================
// KEYED FIFO
// =============================================================================

// KeyedFIFO owns one FIFO per key, each with an independent cursor.
type KeyedFIFO[K comparable, V any] struct {
	queues map[K]*FIFO[V]
}

func NewKeyedFIFO[K comparable, V any]() *KeyedFIFO[K, V] {
	return &KeyedFIFO[K, V]{queues: make(map[K]*FIFO[V])}
}

// Push appends v to the queue for k, creating it on first use.
func (k *KeyedFIFO[K, V]) Push(key K, v V) {
	q, ok := k.queues[key]
	if !ok {
		q = &FIFO[V]{}
		k.queues[key] = q
	}
	q.Push(v)
}

// Take consumes the next value for key.
func (k *KeyedFIFO[K, V]) Take(key K) (V, bool) {
	return k.queues[key].Take()
}

// Has reports whether any value was ever pushed under key.
func (k *KeyedFIFO[K, V]) Has(key K) bool {
	_, ok := k.queues[key]
	return ok
}

func (k *KeyedFIFO[K, V]) Len(key K) int       { return k.queues[key].Len() }
func (k *KeyedFIFO[K, V]) Remaining(key K) int { return k.queues[key].Remaining() }

// Keys returns the number of distinct keys.
func (k *KeyedFIFO[K, V]) Keys() int { return len(k.queues) }
