package timeline

import "github.com/sarchlab/chartline/hooking"

// Hook positions raised by the managers. The Item of the HookCtx is a Crossing
// for every position except HookPosPayloadFault, whose Item is a Crossing
// describing the callback that panicked and whose Detail is the recovered
// value.
var (
	HookPosEnter        = &hooking.HookPos{Name: "Enter"}
	HookPosLeave        = &hooking.HookPos{Name: "Leave"}
	HookPosTrigger      = &hooking.HookPos{Name: "Trigger"}
	HookPosUndo         = &hooking.HookPos{Name: "Undo"}
	HookPosRetire       = &hooking.HookPos{Name: "Retire"}
	HookPosPayloadFault = &hooking.HookPos{Name: "PayloadFault"}
)

// Direction tells which way the clock was moving when a vertex was crossed.
type Direction int

// Directions of a crossing.
const (
	// Forward crossings happen while the clock advances, or when a vertex is
	// added behind the clock.
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}

	return "forward"
}

// Crossing describes one vertex passing the clock.
type Crossing struct {
	Manager    string
	ID         int
	VertexTime int64
	Direction  Direction

	// Progress is the boundary progress reported to a segment payload. It is
	// zero for triggers.
	Progress float64
}
