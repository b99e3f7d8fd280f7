package control

import "github.com/MadAppGang/p1p2aux/p1p2"

// Offsets are the response-payload field positions used by the 0x38/0x3B
// echo-and-overlay builder. They are distinct from the decode-side offsets
// in p1p2.Decode: the request and reply payloads are different, narrower
// encodings of the same fields. Fixed by spec.md's own worked example
// (§8 scenario 4) and by original_source's response-offset constants; see
// SPEC_FULL.md §6 for the full derivation.
type Offsets struct {
	Power    int
	Mode     int
	CoolTemp int
	FanCool  int
	HeatTemp int
	FanHeat  int
	DHWPower int
	DHWTemp  int
	// Zones and FanMode are only meaningful for the M model's 0x3B reply;
	// they are -1 for BCL and P.
	Zones   int
	FanMode int
}

var commonOffsets = Offsets{
	Power:    0,
	Mode:     1,
	CoolTemp: 2,
	FanCool:  4,
	HeatTemp: 6,
	FanHeat:  8,
	DHWPower: 10,
	DHWTemp:  11,
	Zones:    -1,
	FanMode:  -1,
}

// Model distinguishes the three HVAC product families (spec.md §2, §4.6).
// Modelling them as typed variants rather than an integer enum lets each
// variant carry its own request type and offset table, so Engine.Respond
// rejects the unreachable combinations (M speaking 0x38, BCL/P speaking
// 0x3B) with a single comparison instead of branching on the model.
type Model interface {
	// RequestType is the control packet type this model's indoor unit
	// polls the aux controller with: 0x38 for BCL/P, 0x3B for M.
	RequestType() byte
	// ReplyLen is the total wire length of a full control reply,
	// header + payload + CRC.
	ReplyLen() int
	Offsets() Offsets
	name() string
}

// BCL is the compact-body product family: 18-byte 0x38 replies.
type BCL struct{}

func (BCL) RequestType() byte { return p1p2.PktCtrl38 }
func (BCL) ReplyLen() int     { return 18 }
func (BCL) Offsets() Offsets  { return commonOffsets }
func (BCL) name() string      { return "BCL" }

// P is the larger-body product family: 20-byte 0x38 replies, with two
// trailing zero-initialised padding bytes unless a write targets them
// (spec.md §9 open question).
type P struct{}

func (P) RequestType() byte { return p1p2.PktCtrl38 }
func (P) ReplyLen() int     { return 20 }
func (P) Offsets() Offsets  { return commonOffsets }
func (P) name() string      { return "P" }

// M is the zoned product family: 22-byte 0x3B replies carrying an extra
// zone bitmap and fan-mode byte past the shared prefix.
type M struct{}

func (M) RequestType() byte { return p1p2.PktCtrl3B }
func (M) ReplyLen() int     { return 22 }
func (M) Offsets() Offsets {
	o := commonOffsets
	o.Zones = 16
	o.FanMode = 17
	return o
}
func (M) name() string { return "M" }
