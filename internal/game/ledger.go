package game

import (
	"errors"
	"math"
	"sync"
)

// Rejection reasons surfaced to the presentation layer.
var (
	ErrBetProcessing     = errors.New("bet placement already in progress")
	ErrBetAlreadyPlaced  = errors.New("bet already placed this round")
	ErrInvalidAmount     = errors.New("bet amount must be a positive number")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNoActiveBet       = errors.New("no active bet to cash out")
	ErrCashOutProcessing = errors.New("cash-out already in progress")
	ErrAlreadyCashedOut  = errors.New("bet already cashed out")
)

type betStatus int

const (
	betStatusNone betStatus = iota
	betStatusPlacing
	betStatusPlaced
	betStatusCashingOut
	betStatusCashedOut
)

// Ledger tracks the single bet of the current round. Admission is a guarded
// status transition: a second call while the first is still completing is
// rejected, never queued, so exactly one bet and at most one cash-out commit
// per round.
type Ledger struct {
	mu     sync.Mutex
	status betStatus
	bet    Bet
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// BeginPlace admits a bet placement, or reports why it cannot be admitted.
func (l *Ledger) BeginPlace() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.status {
	case betStatusNone:
		l.status = betStatusPlacing

		return nil
	case betStatusPlacing:
		return ErrBetProcessing
	default:
		return ErrBetAlreadyPlaced
	}
}

func (l *Ledger) CommitPlace(amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.bet = Bet{Amount: amount}
	l.status = betStatusPlaced
}

func (l *Ledger) AbortPlace() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == betStatusPlacing {
		l.status = betStatusNone
	}
}

// BeginCashOut admits a cash-out for the placed bet.
func (l *Ledger) BeginCashOut() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.status {
	case betStatusPlaced:
		l.status = betStatusCashingOut

		return nil
	case betStatusCashingOut:
		return ErrCashOutProcessing
	case betStatusCashedOut:
		return ErrAlreadyCashedOut
	default:
		return ErrNoActiveBet
	}
}

func (l *Ledger) CommitCashOut(multiplier float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := multiplier
	l.bet.CashedOutAt = &m
	l.status = betStatusCashedOut
}

func (l *Ledger) AbortCashOut() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == betStatusCashingOut {
		l.status = betStatusPlaced
	}
}

// Bet returns a copy of the committed bet, if one exists.
func (l *Ledger) Bet() (Bet, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status < betStatusPlaced {
		return Bet{}, false
	}

	bet := l.bet
	if l.bet.CashedOutAt != nil {
		v := *l.bet.CashedOutAt
		bet.CashedOutAt = &v
	}

	return bet, true
}

// Reset clears the ledger for a new round.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.bet = Bet{}
	l.status = betStatusNone
}

// ValidateAmount checks a wager against the admission rules: finite, positive
// and covered by the current balance.
func ValidateAmount(amount, balance float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}

	if amount > balance {
		return ErrInsufficientFunds
	}

	return nil
}
