package register

import "fmt"

// Phase is the transaction lifecycle state.
type Phase int

const (
	// PhaseIdle: cart empty, no invoice shown.
	PhaseIdle Phase = iota
	// PhaseBuilding: cart has at least one item.
	PhaseBuilding
	// PhaseCompleted: cart empty, last invoice shown.
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBuilding:
		return "building"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
