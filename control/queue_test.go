package control

import (
	"errors"
	"testing"
)

func TestQueueWriteAcceptsUpToCapacity(t *testing.T) {
	var q writeQueue
	for i := 0; i < queueCapacity; i++ {
		if err := q.queueWrite(0x38, i, byte(i), 0x00, 1); err != nil {
			t.Fatalf("queueWrite #%d: unexpected error %v", i, err)
		}
	}
	if len(q.entries) != queueCapacity {
		t.Fatalf("len(entries) = %d, want %d", len(q.entries), queueCapacity)
	}
}

func TestQueueWriteRejectsNinthDistinctSlot(t *testing.T) {
	var q writeQueue
	for i := 0; i < queueCapacity; i++ {
		if err := q.queueWrite(0x38, i, 0x01, 0x00, 1); err != nil {
			t.Fatalf("queueWrite #%d: unexpected error %v", i, err)
		}
	}
	err := q.queueWrite(0x38, queueCapacity, 0x01, 0x00, 1)
	if !errors.Is(err, ErrNoMem) {
		t.Fatalf("queueWrite on a full queue: got %v, want ErrNoMem", err)
	}
}

func TestQueueWriteSameKeyReplacesRatherThanGrows(t *testing.T) {
	var q writeQueue
	if err := q.queueWrite(0x38, 4, 0x11, 0x00, 3); err != nil {
		t.Fatalf("first queueWrite: %v", err)
	}
	if err := q.queueWrite(0x38, 4, 0x22, 0x0F, 5); err != nil {
		t.Fatalf("replacing queueWrite: %v", err)
	}
	if len(q.entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (last-writer-wins)", len(q.entries))
	}
	if q.entries[0].value != 0x22 || q.entries[0].remaining != 5 {
		t.Errorf("entry = %+v, want value=0x22 remaining=5", q.entries[0])
	}
}

func TestQueueWriteRejectsZeroCount(t *testing.T) {
	var q writeQueue
	err := q.queueWrite(0x38, 0, 0x01, 0x00, 0)
	if !errors.Is(err, ErrInvalidArg) {
		t.Fatalf("queueWrite with count=0: got %v, want ErrInvalidArg", err)
	}
}

func TestOverlayAppliesMatchingTypeOnly(t *testing.T) {
	var q writeQueue
	_ = q.queueWrite(0x38, 2, 0x18, 0x00, 1)
	_ = q.queueWrite(0x3B, 2, 0x99, 0x00, 1)

	payload := make([]byte, 12)
	q.overlay(0x38, payload)

	if payload[2] != 0x18 {
		t.Errorf("payload[2] = %#x, want 0x18", payload[2])
	}
	if len(q.entries) != 1 || q.entries[0].packetType != 0x3B {
		t.Fatalf("expected only the 0x3B entry to remain, got %+v", q.entries)
	}
}

func TestOverlayUsesMaskBeforeOr(t *testing.T) {
	var q writeQueue
	_ = q.queueWrite(0x38, 0, 0x01, 0xFE, 1)

	payload := []byte{0xFF}
	q.overlay(0x38, payload)

	if payload[0] != 0xFF {
		t.Errorf("payload[0] = %#x, want 0xFF (0xFF&0xFE)|0x01", payload[0])
	}
}

func TestOverlayRetiresAfterRetryCountExhausted(t *testing.T) {
	var q writeQueue
	_ = q.queueWrite(0x38, 0, 0x01, 0x00, 1)

	payload := make([]byte, 4)
	q.overlay(0x38, payload)
	if len(q.entries) != 0 {
		t.Fatalf("entry should have retired after its single application, got %+v", q.entries)
	}

	payload[0] = 0x00
	q.overlay(0x38, payload)
	if payload[0] != 0x00 {
		t.Errorf("payload[0] = %#x, want unchanged 0x00 after retirement", payload[0])
	}
}

func TestOverlayAppliesAcrossMultipleRounds(t *testing.T) {
	var q writeQueue
	_ = q.queueWrite(0x38, 0, 0x01, 0x00, 3)

	payload := make([]byte, 4)
	for i := 0; i < 3; i++ {
		q.overlay(0x38, payload)
		if payload[0] != 0x01 {
			t.Fatalf("round %d: payload[0] = %#x, want 0x01", i, payload[0])
		}
	}
	if len(q.entries) != 0 {
		t.Errorf("entries = %+v, want empty after retry count exhausted", q.entries)
	}
}

func TestOverlayIgnoresOffsetOutsidePayload(t *testing.T) {
	var q writeQueue
	_ = q.queueWrite(0x38, 50, 0x01, 0x00, 1)

	payload := make([]byte, 4)
	q.overlay(0x38, payload)

	if len(q.entries) != 1 {
		t.Fatalf("out-of-range entry should survive an overlay it could not apply, got %+v", q.entries)
	}
}
