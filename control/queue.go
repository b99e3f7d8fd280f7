package control

// queueCapacity is the bounded size of the pending-write set (spec.md §3,
// §5): the backpressure mechanism is simply refusing the 9th distinct
// slot, leaving the caller to drop or retry.
const queueCapacity = 8

// writeEntry is a single pending single-byte overlay (spec.md §3, C5).
type writeEntry struct {
	packetType    byte
	payloadOffset int
	value         byte
	mask          byte
	remaining     int
}

func (w writeEntry) key() (byte, int) {
	return w.packetType, w.payloadOffset
}

// writeQueue is the bounded set of pending writes. It is single-writer for
// appends (the command task) and single-writer for the scan-and-decrement
// pass (the bus/response-engine task); spec.md §5 places the one required
// mutual-exclusion region at the call site that shares it between the two,
// not inside the queue itself.
type writeQueue struct {
	entries []writeEntry
}

// queueWrite appends a new pending write, or replaces the existing entry
// for the same (packetType, payloadOffset) — last-writer wins (spec.md
// §3). Returns ErrNoMem if the queue is full and no matching slot exists.
func (q *writeQueue) queueWrite(packetType byte, payloadOffset int, value, mask byte, count int) error {
	if count < 1 {
		return ErrInvalidArg
	}
	entry := writeEntry{
		packetType:    packetType,
		payloadOffset: payloadOffset,
		value:         value,
		mask:          mask,
		remaining:     count,
	}
	for i, e := range q.entries {
		if e.packetType == packetType && e.payloadOffset == payloadOffset {
			q.entries[i] = entry
			return nil
		}
	}
	if len(q.entries) >= queueCapacity {
		return ErrNoMem
	}
	q.entries = append(q.entries, entry)
	return nil
}

// overlay applies every queued write whose packetType matches onto out,
// treating payload as the reply's payload slice (out[3:len(out)-1]).
// Entries are decremented after a successful overlay and retired —
// removed from the queue — once remaining reaches zero (spec.md §4.4,
// §4.7).
func (q *writeQueue) overlay(packetType byte, payload []byte) {
	live := q.entries[:0]
	for _, e := range q.entries {
		if e.packetType == packetType && e.payloadOffset < len(payload) {
			payload[e.payloadOffset] = (payload[e.payloadOffset] & e.mask) | e.value
			e.remaining--
		}
		if e.remaining > 0 {
			live = append(live, e)
		}
	}
	q.entries = live
}
