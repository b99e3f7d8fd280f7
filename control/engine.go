package control

import "github.com/MadAppGang/p1p2aux/p1p2"

// Empty-reply request types: the indoor unit polls these but expects only
// the 3-byte header echoed back, followed by its CRC, regardless of model
// (spec.md §4.2, §4.4). 0x39/0x3A/0x3C are documented only as "minor,
// empty/echo" — this port treats them identically to 0x35/0x36/0x37 since
// nothing in spec.md or original_source distinguishes a different payload
// for them.
var emptyReplyTypes = map[byte]bool{
	0x35: true,
	0x36: true,
	0x37: true,
	0x39: true,
	0x3A: true,
	0x3C: true,
}

// Engine is the auxiliary-controller response engine (C6). It is stateless
// per call except for the write queue it owns: each call to Respond both
// builds a reply and consumes/decrements whatever writes are pending for
// that request type.
type Engine struct {
	model Model
	queue writeQueue
}

// NewEngine constructs an Engine for the given model — the one
// construction site spec.md §9 calls for; there is no later re-init.
func NewEngine(model Model) *Engine {
	return &Engine{model: model}
}

// Model returns the engine's configured HVAC model.
func (e *Engine) Model() Model {
	return e.model
}

// Respond builds the reply for an inbound request addressed to the aux
// controller (spec.md §4.4). req is the full request frame, header and
// CRC included. Respond returns ok=false — and the caller must not
// transmit anything — when the request type is unrecognised or does not
// match the engine's configured model.
func (e *Engine) Respond(req []byte) (resp []byte, ok bool) {
	if len(req) < 3 {
		return nil, false
	}
	reqType := req[2]

	if emptyReplyTypes[reqType] {
		return e.buildHeaderOnly(req), true
	}

	if reqType != e.model.RequestType() {
		return nil, false
	}

	return e.buildControlReply(req), true
}

func (e *Engine) buildHeaderOnly(req []byte) []byte {
	out := make([]byte, 4)
	out[0] = p1p2.AddrAuxCtrl
	out[1] = req[0]
	out[2] = req[2]
	out[3] = p1p2.CRC(out[:3])
	return out
}

// buildControlReply implements the echo-then-overlay sequence of spec.md
// §4.4 for 0x38/0x3B requests. The CRC is appended last so step 4's
// overlay pass is accounted for in the checksum.
func (e *Engine) buildControlReply(req []byte) []byte {
	off := e.model.Offsets()
	replyLen := e.model.ReplyLen()
	payloadLen := replyLen - 3 - 1 // header + CRC excluded

	out := make([]byte, replyLen)
	out[0] = p1p2.AddrAuxCtrl
	out[1] = req[0]
	out[2] = req[2]

	payload := out[3 : 3+payloadLen]
	echoControlPayload(req, payload, off)

	e.queue.overlay(req[2], payload)

	out[len(out)-1] = p1p2.CRC(out[:len(out)-1])
	return out
}

// echoControlPayload copies the subset of the request's decode-layout
// fields (power, mode, both setpoints, both fan speeds, and — for M —
// zones and the extra fan-mode byte) into dst at the response-layout
// offsets. Bytes with no corresponding request field (the DHW slots) are
// left zero-initialised, to be filled only by an overlay.
func echoControlPayload(req []byte, dst []byte, off Offsets) {
	reqPayload := p1p2.Packet{Data: req}.Payload()

	echoByte(reqPayload, dst, 0, off.Power)
	echoByte(reqPayload, dst, 2, off.Mode)
	echoByte(reqPayload, dst, 4, off.CoolTemp)
	echoByte(reqPayload, dst, 6, off.FanCool)
	echoByte(reqPayload, dst, 8, off.HeatTemp)
	echoByte(reqPayload, dst, 10, off.FanHeat)

	if off.Zones >= 0 {
		echoByte(reqPayload, dst, 17, off.Zones)
	}
	if off.FanMode >= 0 {
		echoByte(reqPayload, dst, 18, off.FanMode)
	}
}

func echoByte(src []byte, dst []byte, srcOff, dstOff int) {
	if srcOff < len(src) && dstOff >= 0 && dstOff < len(dst) {
		dst[dstOff] = src[srcOff]
	}
}
