package game

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func outcomeWithCrashPoint(cp float64) Outcome {
	return Outcome{
		ID:         uuid.New(),
		CrashPoint: cp,
		Timestamp:  time.Now(),
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)

	h.Append(outcomeWithCrashPoint(1.50))
	h.Append(outcomeWithCrashPoint(2.75))
	h.Append(outcomeWithCrashPoint(4.00))

	all := h.All()
	if len(all) != 3 {
		t.Fatalf("unexpected length, want: 3, got: %d", len(all))
	}

	want := []float64{4.00, 2.75, 1.50}
	for i, cp := range want {
		if all[i].CrashPoint != cp {
			t.Errorf("entry %d: want crash point %v, got %v", i, cp, all[i].CrashPoint)
		}
	}

	last, ok := h.LastCrashPoint()
	if !ok || last != 4.00 {
		t.Errorf("unexpected last crash point: %v, ok: %v", last, ok)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)

	for i := 1; i <= 21; i++ {
		h.Append(outcomeWithCrashPoint(float64(i)))
	}

	if h.Len() != 20 {
		t.Fatalf("unexpected length, want: 20, got: %d", h.Len())
	}

	all := h.All()
	if all[0].CrashPoint != 21 {
		t.Errorf("newest entry lost, got crash point %v", all[0].CrashPoint)
	}
	if all[19].CrashPoint != 2 {
		t.Errorf("oldest surviving entry should be 2, got %v", all[19].CrashPoint)
	}
}

func TestHistoryRecent(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)

	for i := 1; i <= 5; i++ {
		h.Append(outcomeWithCrashPoint(float64(i)))
	}

	recent := h.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("unexpected length, want: 3, got: %d", len(recent))
	}
	if recent[0].CrashPoint != 5 || recent[2].CrashPoint != 3 {
		t.Errorf("unexpected window: %v .. %v", recent[0].CrashPoint, recent[2].CrashPoint)
	}

	if got := h.Recent(100); len(got) != 5 {
		t.Errorf("oversized window should return all entries, got: %d", len(got))
	}
}

func TestHistoryAvgCrashPoint(t *testing.T) {
	t.Parallel()

	h := NewHistory(20)

	if _, ok := h.AvgCrashPoint(); ok {
		t.Error("empty history should report no average")
	}

	h.Append(outcomeWithCrashPoint(2.00))
	h.Append(outcomeWithCrashPoint(4.00))
	h.Append(outcomeWithCrashPoint(6.00))

	avg, ok := h.AvgCrashPoint()
	if !ok {
		t.Fatal("expected an average")
	}
	if math.Abs(avg-4.00) > 1e-9 {
		t.Errorf("unexpected average, want: 4.00, got: %v", avg)
	}
}

func TestHistoryDefaultSize(t *testing.T) {
	t.Parallel()

	h := NewHistory(0)

	for i := 0; i < DefaultHistorySize+5; i++ {
		h.Append(outcomeWithCrashPoint(1.10))
	}

	if h.Len() != DefaultHistorySize {
		t.Errorf("unexpected length, want: %d, got: %d", DefaultHistorySize, h.Len())
	}
}
