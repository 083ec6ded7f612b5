package game

import (
	"errors"
	"sync"
	"testing"
)

func TestLedgerPlaceFlow(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if _, ok := l.Bet(); ok {
		t.Fatal("fresh ledger should not hold a bet")
	}

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}

	if err := l.BeginPlace(); !errors.Is(err, ErrBetProcessing) {
		t.Errorf("unexpected error while placing, want: %v, got: %v", ErrBetProcessing, err)
	}

	l.CommitPlace(2.00)

	if err := l.BeginPlace(); !errors.Is(err, ErrBetAlreadyPlaced) {
		t.Errorf("unexpected error after commit, want: %v, got: %v", ErrBetAlreadyPlaced, err)
	}

	bet, ok := l.Bet()
	if !ok {
		t.Fatal("committed bet not visible")
	}
	if bet.Amount != 2.00 {
		t.Errorf("unexpected amount, want: 2.00, got: %v", bet.Amount)
	}
	if bet.CashedOutAt != nil {
		t.Error("fresh bet should not be cashed out")
	}
}

func TestLedgerAbortPlace(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}

	l.AbortPlace()

	if err := l.BeginPlace(); err != nil {
		t.Errorf("placement after abort should be admitted, got: %v", err)
	}
}

func TestLedgerCashOutFlow(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if err := l.BeginCashOut(); !errors.Is(err, ErrNoActiveBet) {
		t.Errorf("unexpected error without a bet, want: %v, got: %v", ErrNoActiveBet, err)
	}

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}
	l.CommitPlace(5.00)

	if err := l.BeginCashOut(); err != nil {
		t.Fatalf("failed to admit cash-out: %v", err)
	}

	if err := l.BeginCashOut(); !errors.Is(err, ErrCashOutProcessing) {
		t.Errorf("unexpected error while cashing out, want: %v, got: %v", ErrCashOutProcessing, err)
	}

	l.CommitCashOut(2.50)

	if err := l.BeginCashOut(); !errors.Is(err, ErrAlreadyCashedOut) {
		t.Errorf("unexpected error after cash-out, want: %v, got: %v", ErrAlreadyCashedOut, err)
	}

	bet, ok := l.Bet()
	if !ok {
		t.Fatal("cashed-out bet not visible")
	}
	if bet.CashedOutAt == nil || *bet.CashedOutAt != 2.50 {
		t.Errorf("unexpected cash-out multiplier: %v", bet.CashedOutAt)
	}
}

func TestLedgerAbortCashOut(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}
	l.CommitPlace(1.00)

	if err := l.BeginCashOut(); err != nil {
		t.Fatalf("failed to admit cash-out: %v", err)
	}

	l.AbortCashOut()

	if err := l.BeginCashOut(); err != nil {
		t.Errorf("cash-out after abort should be admitted, got: %v", err)
	}
}

func TestLedgerReset(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}
	l.CommitPlace(3.00)
	l.Reset()

	if _, ok := l.Bet(); ok {
		t.Error("reset ledger should not hold a bet")
	}
	if err := l.BeginPlace(); err != nil {
		t.Errorf("placement after reset should be admitted, got: %v", err)
	}
}

func TestLedgerConcurrentPlaceAdmitsOne(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	const workers = 8

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- l.BeginPlace()
		}()
	}

	wg.Wait()
	close(errs)

	admitted := 0
	for err := range errs {
		if err == nil {
			admitted++
		}
	}

	if admitted != 1 {
		t.Errorf("expected exactly one admitted placement, got: %d", admitted)
	}
}

func TestLedgerConcurrentCashOutAdmitsOne(t *testing.T) {
	t.Parallel()

	l := NewLedger()

	if err := l.BeginPlace(); err != nil {
		t.Fatalf("failed to admit placement: %v", err)
	}
	l.CommitPlace(2.00)

	const workers = 8

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- l.BeginCashOut()
		}()
	}

	wg.Wait()
	close(errs)

	admitted := 0
	for err := range errs {
		if err == nil {
			admitted++
		}
	}

	if admitted != 1 {
		t.Errorf("expected exactly one admitted cash-out, got: %d", admitted)
	}
}

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		name    string
		amount  float64
		balance float64
		wantErr error
	}{
		{name: "Success", amount: 2.00, balance: 10.00},
		{name: "FullBalance", amount: 10.00, balance: 10.00},
		{name: "Zero", amount: 0, balance: 10.00, wantErr: ErrInvalidAmount},
		{name: "Negative", amount: -1.00, balance: 10.00, wantErr: ErrInvalidAmount},
		{name: "OverBalance", amount: 10.01, balance: 10.00, wantErr: ErrInsufficientFunds},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAmount(tc.amount, tc.balance)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("unexpected error, want: %v, got: %v", tc.wantErr, err)
			}
		})
	}
}
