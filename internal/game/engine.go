package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go-crashout/internal/config"
	"go-crashout/internal/event"
	"go-crashout/internal/job"
	"go-crashout/internal/lib/logger/sl"
	"go-crashout/internal/oracle"
	"go-crashout/internal/stats"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var (
	ErrBettingClosed   = errors.New("betting window is closed")
	ErrRoundNotRunning = errors.New("round is not running")
	ErrEngineStopped   = errors.New("engine is stopped")
)

const (
	oracleHistorySize = 10
	potFactor         = 5
	defaultAvgCashout = 2.0
)

// Snapshot is the engine state exposed to the presentation layer.
type Snapshot struct {
	Phase          Phase    `json:"phase"`
	Multiplier     float64  `json:"multiplier"`
	Countdown      int      `json:"countdown"`
	CrashedAt      *float64 `json:"crashed_at,omitempty"`
	LastCrashPoint *float64 `json:"last_crash_point,omitempty"`
	Balance        float64  `json:"balance"`
	Bet            *Bet     `json:"bet,omitempty"`
	LastBetAmount  float64  `json:"last_bet_amount,omitempty"`
}

type placeBetCmd struct {
	amount float64
	reply  chan error
}

type cashOutCmd struct {
	reply chan error
}

type snapshotCmd struct {
	reply chan Snapshot
}

type oracleResult struct {
	round      int64
	prediction *oracle.Prediction
	err        error
}

// Engine owns one table's round lifecycle. All state transitions, timer fires
// and oracle results are consumed serially on the Run goroutine, so no two of
// them interleave; public methods communicate with that goroutine through the
// inbox.
type Engine struct {
	log       *slog.Logger
	cfg       config.Crash
	predictor oracle.Predictor
	store     stats.Store
	publisher event.Publisher
	jobs      job.Queue
	playerKey string
	rng       *rand.Rand

	inbox   chan any
	oracleC chan oracleResult
	done    chan struct{}

	// state below is owned by the Run goroutine
	phase      Phase
	round      int64
	countdown  int
	multiplier float64
	crashPoint float64
	balance    float64
	lastBet    float64
	ledger     *Ledger
	history    *History

	countdownInterval time.Duration

	phaseTimer  *time.Timer
	phaseTimerC <-chan time.Time
	ticker      *time.Ticker
	tickerC     <-chan time.Time
}

func New(
	log *slog.Logger,
	cfg config.Crash,
	predictor oracle.Predictor,
	store stats.Store,
	publisher event.Publisher,
	jobs job.Queue,
	playerKey string,
) *Engine {
	return &Engine{
		log:               log,
		cfg:               cfg,
		predictor:         predictor,
		store:             store,
		publisher:         publisher,
		jobs:              jobs,
		playerKey:         playerKey,
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		inbox:             make(chan any),
		oracleC:           make(chan oracleResult, 1),
		done:              make(chan struct{}),
		round:             1,
		multiplier:        1.0,
		balance:           cfg.StartingBalance,
		ledger:            NewLedger(),
		history:           NewHistory(cfg.HistorySize),
		countdownInterval: time.Second,
	}
}

// Run drives the round lifecycle until ctx is cancelled. Teardown stops all
// timers; a round that has not crashed is never settled afterwards.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	defer e.stopTimers()

	e.enterBetting()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped",
				slog.String("phase", string(e.phase)),
				slog.Int64("round", e.round))

			return
		case msg := <-e.inbox:
			e.handleCommand(msg)
		case <-e.phaseTimerC:
			e.phaseTimer = nil
			e.phaseTimerC = nil
			e.handlePhaseTimer(ctx)
		case res := <-e.oracleC:
			e.handleOracleResult(res)
		case <-e.tickerC:
			e.handleTick()
		}
	}
}

// PlaceBet wagers amount in the current betting window. The stake is debited
// immediately; any payout is realized at settlement.
func (e *Engine) PlaceBet(ctx context.Context, amount float64) error {
	cmd := placeBetCmd{amount: amount, reply: make(chan error, 1)}

	if err := e.send(ctx, cmd); err != nil {
		return err
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineStopped
	}
}

// CashOut locks in the current multiplier for the active bet. No money moves
// until settlement, so a near-simultaneous crash cannot double-credit.
func (e *Engine) CashOut(ctx context.Context) error {
	cmd := cashOutCmd{reply: make(chan error, 1)}

	if err := e.send(ctx, cmd); err != nil {
		return err
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineStopped
	}
}

// Snapshot returns a consistent view of the table state.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	cmd := snapshotCmd{reply: make(chan Snapshot, 1)}

	if err := e.send(ctx, cmd); err != nil {
		return Snapshot{}, err
	}

	select {
	case s := <-cmd.reply:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-e.done:
		return Snapshot{}, ErrEngineStopped
	}
}

// History returns the bounded result feed, newest first.
func (e *Engine) History() []Outcome {
	return e.history.All()
}

func (e *Engine) send(ctx context.Context, msg any) error {
	select {
	case e.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineStopped
	}
}

func (e *Engine) handleCommand(msg any) {
	switch cmd := msg.(type) {
	case placeBetCmd:
		cmd.reply <- e.placeBet(cmd.amount)
	case cashOutCmd:
		cmd.reply <- e.cashOut()
	case snapshotCmd:
		cmd.reply <- e.snapshot()
	}
}

func (e *Engine) placeBet(amount float64) error {
	const op = "game.Engine.placeBet"

	if e.phase != PhaseBetting {
		return ErrBettingClosed
	}

	if err := e.ledger.BeginPlace(); err != nil {
		return err
	}

	if err := ValidateAmount(amount, e.balance); err != nil {
		e.ledger.AbortPlace()

		return err
	}

	e.balance = Round2(e.balance - amount)
	e.ledger.CommitPlace(amount)
	e.lastBet = amount

	e.log.Info("bet placed",
		slog.String("op", op),
		slog.Int64("round", e.round),
		slog.Float64("amount", amount),
		slog.Float64("balance", e.balance))

	e.publish(event.EventBetPlaced, map[string]any{
		"round":   e.round,
		"amount":  amount,
		"balance": e.balance,
	})

	return nil
}

func (e *Engine) cashOut() error {
	const op = "game.Engine.cashOut"

	if e.phase != PhaseRunning {
		return ErrRoundNotRunning
	}

	if err := e.ledger.BeginCashOut(); err != nil {
		return err
	}

	e.ledger.CommitCashOut(e.multiplier)

	e.log.Info("cashed out",
		slog.String("op", op),
		slog.Int64("round", e.round),
		slog.Float64("multiplier", e.multiplier))

	e.publish(event.EventCashOut, map[string]any{
		"round":      e.round,
		"multiplier": e.multiplier,
	})

	return nil
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Phase:         e.phase,
		Multiplier:    e.multiplier,
		Countdown:     e.countdown,
		Balance:       e.balance,
		LastBetAmount: e.lastBet,
	}

	if bet, ok := e.ledger.Bet(); ok {
		b := bet
		s.Bet = &b
	}

	if e.phase == PhaseCrashed || e.phase == PhaseEnded {
		v := e.crashPoint
		s.CrashedAt = &v
	}

	if last, ok := e.history.LastCrashPoint(); ok {
		v := last
		s.LastCrashPoint = &v
	}

	return s
}

func (e *Engine) handlePhaseTimer(ctx context.Context) {
	switch e.phase {
	case PhaseBetting:
		if e.countdown > 1 {
			e.countdown--
			e.armPhaseTimer(e.countdownInterval)

			return
		}

		e.countdown = 0
		e.enterStartingRound(ctx)
	case PhaseCrashed:
		e.settleRound()
		e.enterEnded()
	case PhaseEnded:
		e.resetForNewRound()
	}
}

func (e *Engine) enterBetting() {
	e.phase = PhaseBetting
	e.countdown = e.cfg.BettingSeconds
	e.armPhaseTimer(e.countdownInterval)
	e.publishPhase()
}

func (e *Engine) enterStartingRound(ctx context.Context) {
	e.stopPhaseTimer()
	e.phase = PhaseStartingRound
	e.publishPhase()

	input := e.predictionInput()
	round := e.round

	// the oracle is the only unbounded-latency collaborator; it runs off the
	// engine goroutine and reports back through the inbox select
	go func() {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.OracleTimeout)
		defer cancel()

		prediction, err := e.predictor.Predict(callCtx, input)

		select {
		case e.oracleC <- oracleResult{round: round, prediction: prediction, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (e *Engine) handleOracleResult(res oracleResult) {
	const op = "game.Engine.handleOracleResult"

	if res.round != e.round || e.phase != PhaseStartingRound {
		e.log.Debug("dropping stale oracle result", slog.Int64("round", res.round))

		return
	}

	log := e.log.With(slog.String("op", op), slog.Int64("round", e.round))

	switch {
	case res.err != nil:
		e.crashPoint = e.fallbackCrashPoint()

		log.Warn("oracle call failed, using fallback crash point", sl.Err(res.err))

		e.publish(event.EventOracleWarning, map[string]any{
			"round":    e.round,
			"fallback": e.crashPoint,
			"error":    res.err.Error(),
		})
	case res.prediction.PredictedCrashPoint <= 1.0:
		e.crashPoint = e.fallbackCrashPoint()

		log.Warn("oracle prediction invalid, using fallback crash point",
			slog.Float64("predicted", res.prediction.PredictedCrashPoint),
			sl.String("reasoning", res.prediction.Reasoning))

		e.publish(event.EventOracleWarning, map[string]any{
			"round":     e.round,
			"fallback":  e.crashPoint,
			"predicted": res.prediction.PredictedCrashPoint,
			"reasoning": res.prediction.Reasoning,
		})
	default:
		e.crashPoint = res.prediction.PredictedCrashPoint

		log.Info("crash point resolved")
	}

	e.enterRunning()
}

func (e *Engine) enterRunning() {
	e.phase = PhaseRunning
	e.multiplier = 1.0
	e.ticker = time.NewTicker(e.cfg.TickInterval)
	e.tickerC = e.ticker.C
	e.publishPhase()
}

func (e *Engine) handleTick() {
	if e.phase != PhaseRunning {
		return
	}

	next, crashed := Step(e.multiplier, e.crashPoint)
	e.multiplier = next

	e.publish(event.EventMultiplier, map[string]any{
		"round":      e.round,
		"multiplier": e.multiplier,
	})

	if crashed {
		e.enterCrashed()
	}
}

func (e *Engine) enterCrashed() {
	e.stopTicker()
	e.phase = PhaseCrashed
	e.armPhaseTimer(e.cfg.CrashPause)
	e.publishPhase()
}

// settleRound fires exactly once per round, on the Crashed -> Ended
// transition.
func (e *Engine) settleRound() {
	const op = "game.Engine.settleRound"

	log := e.log.With(slog.String("op", op), slog.Int64("round", e.round))

	var betSnapshot *Bet

	if bet, ok := e.ledger.Bet(); ok {
		b := bet
		betSnapshot = &b
	}

	result := Settle(betSnapshot, e.crashPoint)

	if result.CashedOut {
		e.balance = Round2(e.balance + result.Payout)
	}

	outcome := Outcome{
		ID:         uuid.New(),
		CrashPoint: e.crashPoint,
		Bet:        betSnapshot,
		Profit:     result.Profit,
		Timestamp:  time.Now(),
	}
	e.history.Append(outcome)

	log.Info("round settled",
		slog.Float64("crash_point", e.crashPoint),
		slog.Float64("profit", result.Profit),
		slog.Float64("balance", e.balance))

	e.publish(event.EventRoundResult, map[string]any{
		"round":       e.round,
		"crash_point": e.crashPoint,
		"profit":      result.Profit,
		"balance":     e.balance,
	})

	if betSnapshot == nil || e.playerKey == "" || e.store == nil || e.jobs == nil {
		return
	}

	roundResult := stats.RoundResult{
		Wagered:   betSnapshot.Amount,
		Payout:    result.Payout,
		CashedOut: result.CashedOut,
		PlayedAt:  outcome.Timestamp,
	}
	if result.CashedOut {
		roundResult.CashedOutAt = *betSnapshot.CashedOutAt
	}

	e.jobs.Dispatch(&statsUpdateJob{
		log:    e.log,
		store:  e.store,
		key:    e.playerKey,
		result: roundResult,
	}, 0)
}

func (e *Engine) enterEnded() {
	e.phase = PhaseEnded
	e.armPhaseTimer(e.cfg.EndPause)
	e.publishPhase()
}

// resetForNewRound clears round-scoped state; balance, history and the last
// bet amount survive across rounds.
func (e *Engine) resetForNewRound() {
	e.round++
	e.multiplier = 1.0
	e.crashPoint = 0
	e.ledger.Reset()
	e.enterBetting()
}

func (e *Engine) predictionInput() oracle.PredictionInput {
	recent := e.history.Recent(oracleHistorySize)
	rounds := make([]oracle.RoundData, 0, len(recent))

	for _, o := range recent {
		rounds = append(rounds, oracle.RoundData{
			FinalMultiplier: o.CrashPoint,
			Timestamp:       o.Timestamp,
		})
	}

	pot := 0.0
	if bet, ok := e.ledger.Bet(); ok {
		pot = bet.Amount * potFactor
	}

	avg := defaultAvgCashout
	if v, ok := e.history.AvgCrashPoint(); ok {
		avg = v
	}

	return oracle.PredictionInput{
		RoundHistory:             rounds,
		CurrentPot:               pot,
		AverageCashoutMultiplier: avg,
	}
}

// fallbackCrashPoint draws uniformly from [FallbackMin, FallbackMin+FallbackSpan).
func (e *Engine) fallbackCrashPoint() float64 {
	return Round2(e.cfg.FallbackMin + e.rng.Float64()*e.cfg.FallbackSpan)
}

func (e *Engine) armPhaseTimer(d time.Duration) {
	e.stopPhaseTimer()
	e.phaseTimer = time.NewTimer(d)
	e.phaseTimerC = e.phaseTimer.C
}

// stopPhaseTimer cancels and drains the phase timer so a stale fire can never
// reach a later phase.
func (e *Engine) stopPhaseTimer() {
	if e.phaseTimer == nil {
		return
	}

	if !e.phaseTimer.Stop() {
		select {
		case <-e.phaseTimer.C:
		default:
		}
	}

	e.phaseTimer = nil
	e.phaseTimerC = nil
}

func (e *Engine) stopTicker() {
	if e.ticker == nil {
		return
	}

	e.ticker.Stop()
	e.ticker = nil
	e.tickerC = nil
}

func (e *Engine) stopTimers() {
	e.stopPhaseTimer()
	e.stopTicker()
}

func (e *Engine) publish(name string, data map[string]any) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(name, data); err != nil {
		e.log.Error("failed to publish event", sl.Err(err), sl.String("event", name))
	}
}

func (e *Engine) publishPhase() {
	e.publish(event.EventPhase, map[string]any{
		"round":     e.round,
		"phase":     string(e.phase),
		"countdown": e.countdown,
	})
}
