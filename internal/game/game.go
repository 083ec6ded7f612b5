package game

// Phase is the authoritative round phase. Transitions are one-directional:
// Betting -> StartingRound -> Running -> Crashed -> Ended -> Betting.
type Phase string

const (
	PhaseBetting       Phase = "betting"
	PhaseStartingRound Phase = "starting_round"
	PhaseRunning       Phase = "running"
	PhaseCrashed       Phase = "crashed"
	PhaseEnded         Phase = "ended"
)

// Bet is the single wager of the current round. CashedOutAt is set at most
// once, while the round is running, and never exceeds the round's crash point.
type Bet struct {
	Amount      float64  `json:"amount"`
	CashedOutAt *float64 `json:"cashed_out_at,omitempty"`
}
