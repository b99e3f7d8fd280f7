package p1p2

import (
	"fmt"
	"strings"
)

// MaxPacketLen is the largest F-series packet the core handles. 32 bytes
// comfortably covers every documented packet type, including the 22-byte
// 0x3B control reply (header and CRC included).
const MaxPacketLen = 32

// Bus addresses used on the wire (spec.md §4.2, §6).
const (
	AddrMain      byte = 0x00 // main-controller source address
	AddrAuxCtrl   byte = 0xF0 // our address when impersonating the aux controller
	AddrAuxDst    byte = 0x40 // destination byte of a request addressed to the aux controller
	AddrBroadcast byte = 0x80 // destination byte of a broadcast status packet
)

// Packet is an immutable view of a single F-series frame as handed over by
// the bus driver: [src][dst][type][payload...][crc]. The driver has
// already reconstituted bytes from the wire and verified the CRC; Data
// simply carries whatever the driver read, CRC byte included, and HasError
// flags a driver-detected framing or CRC failure. The decoder never
// re-verifies the CRC itself (spec.md §6).
type Packet struct {
	Data     []byte
	HasError bool
}

// NewPacket copies b into a Packet, truncating to MaxPacketLen. The core
// never retains the caller's backing array past construction, keeping
// every downstream operation allocation-free.
func NewPacket(b []byte, hasError bool) Packet {
	if len(b) > MaxPacketLen {
		b = b[:MaxPacketLen]
	}
	data := make([]byte, len(b))
	copy(data, b)
	return Packet{Data: data, HasError: hasError}
}

// Len returns the number of bytes in the packet, CRC included.
func (p Packet) Len() int {
	return len(p.Data)
}

// Type returns the packet-type byte (Data[2]), or 0 if the packet is too
// short to carry one.
func (p Packet) Type() byte {
	if len(p.Data) < 3 {
		return 0
	}
	return p.Data[2]
}

// Payload returns the bytes between the 3-byte header and the trailing
// CRC byte. It is empty if the packet is too short to carry any payload.
func (p Packet) Payload() []byte {
	if len(p.Data) < 4 {
		return nil
	}
	return p.Data[3 : len(p.Data)-1]
}

// String renders a hex dump of the packet followed by its error status,
// e.g. "00 80 10 01 00 02 AA [OK]". Mirrors original_source's
// p1p2_log_packet hex-dump format.
func (p Packet) String() string {
	var b strings.Builder
	for _, by := range p.Data {
		fmt.Fprintf(&b, "%02X ", by)
	}
	status := "OK"
	if p.HasError {
		status = "ERR"
	}
	return fmt.Sprintf("%s[%s]", b.String(), status)
}

// LogFields returns a structured representation of the packet suitable for
// a logrus.Fields conversion at the call site, keeping this package free of
// a logging dependency of its own.
func (p Packet) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"packet": p.String(),
		"type":   fmt.Sprintf("0x%02X", p.Type()),
		"len":    p.Len(),
	}
}
