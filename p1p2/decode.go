package p1p2

import (
	"time"

	"github.com/MadAppGang/p1p2aux/p1p2/internal/layout"
)

// Recognised status/telemetry packet types (spec.md §4.2).
const (
	PktStatus10  byte = 0x10
	PktStatus11  byte = 0x11
	PktDateTime  byte = 0x12
	PktStatus13  byte = 0x13
	PktStatus14  byte = 0x14
	PktStatus15  byte = 0x15
	PktStatus16  byte = 0x16
	PktCtrl38    byte = 0x38
	PktCtrl3B    byte = 0x3B
	PktCounterA3 byte = 0xA3
)

// Decode updates state in place from pkt, per spec.md §4.3. It is a pure
// reducer: the decoder owns no state of its own. Packets shorter than 4
// bytes are ignored entirely, including the packet counter. Every other
// packet, recognised or not, advances LastUpdateUs and PacketCount.
func Decode(pkt Packet, state *State) {
	if pkt.Len() < 4 {
		return
	}

	state.LastUpdateUs = nowMicros()
	state.PacketCount++

	payload := pkt.Payload()
	switch pkt.Type() {
	case PktStatus10:
		decodeStatusFields(payload, state)
		state.DataValid = true
	case PktStatus11:
		decodeTemps11(payload, state)
	case PktDateTime:
		// date/time packet: intentionally ignored (spec.md §4.3).
	case PktStatus13:
		decodeErrorCode13(payload, state)
	case PktStatus14:
		decodeCompressor14(payload, state)
	case PktStatus15:
		decodeDHW15(payload, state)
	case PktStatus16:
		decodeErrorCode16(payload, state)
	case PktCtrl38:
		decodeStatusFields(payload, state)
		state.DataValid = true
	case PktCtrl3B:
		decodeStatusFields(payload, state)
		decodeZones3B(payload, state)
		state.DataValid = true
	case PktCounterA3:
		decodeCountersA3(payload, state)
	default:
		// Unrecognised type: counted above, otherwise ignored.
	}
}

// nowMicros returns a monotonic microsecond timestamp. Split out so tests
// can observe that it advances without depending on wall-clock precision.
var nowMicros = func() int64 {
	return time.Since(processStart).Microseconds()
}

// processStart anchors nowMicros; time.Since reads the monotonic clock.
var processStart = time.Now()

// decodeStatusFields extracts the fields shared by 0x10, 0x38 and 0x3B:
// power, mode, both setpoints and both fan speeds (spec.md §4.3).
func decodeStatusFields(payload []byte, state *State) {
	if layout.HasByte(payload, 0) {
		pwr := payload[0]&0x01 != 0
		if pwr != state.Power {
			state.Changed |= ChangedPower
		}
		state.Power = pwr
	}
	if layout.HasByte(payload, 2) {
		m := decodeMode(payload[2])
		if m != state.Mode {
			state.Changed |= ChangedMode
		}
		state.Mode = m
	}
	if layout.HasByte(payload, 4) {
		tc := int16(payload[4]) * 10
		if tc != state.TargetTempCool {
			state.Changed |= ChangedTempCool
		}
		state.TargetTempCool = tc
	}
	if layout.HasByte(payload, 6) {
		fc := decodeFanSpeed(payload[6])
		if fc != state.FanModeCool {
			state.Changed |= ChangedFanCool
		}
		state.FanModeCool = fc
	}
	if layout.HasByte(payload, 8) {
		th := int16(payload[8]) * 10
		if th != state.TargetTempHeat {
			state.Changed |= ChangedTempHeat
		}
		state.TargetTempHeat = th
	}
	if layout.HasByte(payload, 10) {
		fh := decodeFanSpeed(payload[10])
		if fh != state.FanModeHeat {
			state.Changed |= ChangedFanHeat
		}
		state.FanModeHeat = fh
	}
	state.recomputeRunning()
}

func decodeZones3B(payload []byte, state *State) {
	if layout.HasRun(payload, 17, 1) {
		z := payload[17]
		if z != state.ActiveZones {
			state.Changed |= ChangedZones
		}
		state.ActiveZones = z
	}
}

func decodeTemps11(payload []byte, state *State) {
	if layout.HasByte(payload, 0) {
		rt := int16(payload[0]) * 10
		if rt != state.RoomTemp {
			state.Changed |= ChangedRoomTemp
		}
		state.RoomTemp = rt
	}
	if layout.HasByte(payload, 2) {
		ot := int16(int8(payload[2])) * 10
		if ot != state.OutdoorTemp {
			state.Changed |= ChangedOutdoorTemp
		}
		state.OutdoorTemp = ot
	}
}

func decodeErrorCode13(payload []byte, state *State) {
	if !layout.HasByte(payload, 0) {
		return
	}
	var ec uint16
	if layout.HasRun(payload, 0, 3) {
		ec = layout.U16BE(payload, 1)
	} else {
		ec = uint16(payload[0])
	}
	if ec != state.ErrorCode {
		state.Changed |= ChangedErrorCode
	}
	state.ErrorCode = ec
}

func decodeCompressor14(payload []byte, state *State) {
	if layout.HasRun(payload, 0, 2) {
		cf := layout.U16BE(payload, 0)
		if cf != state.CompressorFreq {
			state.Changed |= ChangedCompressor
		}
		state.CompressorFreq = cf
	}
	if layout.HasRun(payload, 2, 2) {
		fr := layout.U16BE(payload, 2)
		if fr != state.FlowRate {
			state.Changed |= ChangedFlowRate
		}
		state.FlowRate = fr
	}
}

func decodeDHW15(payload []byte, state *State) {
	changed := false
	if layout.HasByte(payload, 0) {
		dhw := payload[0]&0x01 != 0
		if dhw != state.DHWActive {
			changed = true
		}
		state.DHWActive = dhw
	}
	if layout.HasByte(payload, 1) {
		dt := int16(payload[1]) * 10
		if dt != state.DHWTarget {
			changed = true
		}
		state.DHWTarget = dt
	}
	if layout.HasByte(payload, 2) {
		da := int16(payload[2]) * 10
		if da != state.DHWTemp {
			changed = true
		}
		state.DHWTemp = da
	}
	if changed {
		state.Changed |= ChangedDHW
	}
	if layout.HasRun(payload, 3, 2) {
		lwt := layout.I16BE(payload, 3)
		if lwt != state.LeavingWaterTemp {
			state.Changed |= ChangedWaterTemps
		}
		state.LeavingWaterTemp = lwt
	}
	if layout.HasRun(payload, 5, 2) {
		rwt := layout.I16BE(payload, 5)
		if rwt != state.ReturnWaterTemp {
			state.Changed |= ChangedWaterTemps
		}
		state.ReturnWaterTemp = rwt
	}
}

func decodeErrorCode16(payload []byte, state *State) {
	if !layout.HasRun(payload, 0, 2) {
		return
	}
	ec := layout.U16BE(payload, 0)
	if ec != state.ErrorCode {
		state.Changed |= ChangedErrorCode
	}
	state.ErrorCode = ec
}

func decodeCountersA3(payload []byte, state *State) {
	if !layout.HasRun(payload, 0, 8) {
		return
	}
	oh := layout.U32BE(payload, 0)
	if oh != state.OperationHours {
		state.Changed |= ChangedOpHours
	}
	state.OperationHours = oh

	cs := layout.U32BE(payload, 4)
	if cs != state.CompressorStarts {
		state.Changed |= ChangedCompStarts
	}
	state.CompressorStarts = cs
}
