package control

// CommandType identifies a high-level command from the smart-home bridge
// (spec.md §4.5, C7).
type CommandType int

const (
	SetPower CommandType = iota
	SetMode
	SetTempCool
	SetTempHeat
	SetFanCool
	SetFanHeat
	SetDHWPower
	SetDHWTemp
)

// Command is a single high-level instruction, as received from the bridge
// (spec.md §6). Value's unit depends on Type: a boolean-ish 0/1 for power
// and DHW power, the raw mode/fan code for mode and fan commands, and
// centidegrees (°C × 10) for the two temperature setpoints.
type Command struct {
	Type  CommandType
	Value int
}

// defaultRetryCount gives each queued write three independent injection
// opportunities, so one missed reply does not lose the command (spec.md
// §4.5).
const defaultRetryCount = 3

// fanBitsMask clears only bits 6-5 of a fan byte, leaving the rest of the
// raw byte untouched — those two bits are the only ones decodeFanSpeed
// inspects (p1p2/types.go).
const fanBitsMask byte = 0x9F

// ApplyCommand translates cmd into one or more queued writes at the
// offsets fixed by the engine's active model, per the translation table in
// spec.md §4.5. It returns ErrInvalidArg for an unknown command type or an
// out-of-range value, and ErrNoMem if the write queue has no room.
func (e *Engine) ApplyCommand(cmd Command) error {
	off := e.model.Offsets()
	reqType := e.model.RequestType()

	switch cmd.Type {
	case SetPower:
		return e.queue.queueWrite(reqType, off.Power, byte(cmd.Value&0x01), 0xFE, defaultRetryCount)

	case SetMode:
		return e.queue.queueWrite(reqType, off.Mode, byte(cmd.Value&0x07), 0xF8, defaultRetryCount)

	case SetTempCool:
		return e.queue.queueWrite(reqType, off.CoolTemp, clampSetpoint(cmd.Value), 0x00, defaultRetryCount)

	case SetTempHeat:
		return e.queue.queueWrite(reqType, off.HeatTemp, clampSetpoint(cmd.Value), 0x00, defaultRetryCount)

	case SetFanCool:
		v, err := encodeFanBits(cmd.Value)
		if err != nil {
			return err
		}
		return e.queue.queueWrite(reqType, off.FanCool, v, fanBitsMask, defaultRetryCount)

	case SetFanHeat:
		v, err := encodeFanBits(cmd.Value)
		if err != nil {
			return err
		}
		return e.queue.queueWrite(reqType, off.FanHeat, v, fanBitsMask, defaultRetryCount)

	case SetDHWPower:
		return e.queue.queueWrite(reqType, off.DHWPower, byte(cmd.Value&0x01), 0xFE, defaultRetryCount)

	case SetDHWTemp:
		return e.queue.queueWrite(reqType, off.DHWTemp, byte(cmd.Value/10), 0x00, defaultRetryCount)

	default:
		return ErrInvalidArg
	}
}

// clampSetpoint converts a centidegree command value to the raw whole-
// degree byte the wire expects, clamped to [16, 50] (spec.md §4.5).
func clampSetpoint(centidegrees int) byte {
	degrees := centidegrees / 10
	switch {
	case degrees < 16:
		degrees = 16
	case degrees > 50:
		degrees = 50
	}
	return byte(degrees)
}

// encodeFanBits re-encodes a p1p2.FanMode-shaped value (0=low, 1=med,
// 2=high, 3=auto) into the raw bits 6-5 pattern the wire expects.
func encodeFanBits(fanMode int) (byte, error) {
	if fanMode < 0 || fanMode > 3 {
		return 0, ErrInvalidArg
	}
	return byte(fanMode) << 5, nil
}
