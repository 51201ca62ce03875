package events

import "time"

// Phase identifies a step of a baseline calculation.
type Phase int

const (
	PhaseInitialization Phase = iota
	PhaseCalendar
	PhaseMatrix
	PhaseFinancial
	PhaseFinalization
)

var phaseNames = [...]string{
	"initialization",
	"calendar",
	"matrix-generation",
	"financial-calculation",
	"finalization",
}

var phaseProgress = [...]int{0, 20, 40, 80, 100}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Progress returns the completion percentage reached when the phase starts.
func (p Phase) Progress() int {
	if p < 0 || int(p) >= len(phaseProgress) {
		return 0
	}
	return phaseProgress[p]
}

// PhaseEvent is published when a calculation enters a phase. Elapsed is the
// time spent since the calculation started.
type PhaseEvent struct {
	CalculationID string
	Phase         Phase
	Elapsed       time.Duration
	Time          time.Time
}
