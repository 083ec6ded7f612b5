package game

import (
	"math"
	"testing"
)

func TestStep(t *testing.T) {
	cases := []struct {
		name        string
		prev        float64
		crashPoint  float64
		want        float64
		wantCrashed bool
	}{
		{
			name:       "BaseSpeed",
			prev:       1.00,
			crashPoint: 10.0,
			want:       1.01,
		},
		{
			name:       "ReachesFirstThreshold",
			prev:       2.99,
			crashPoint: 10.0,
			want:       3.00,
		},
		{
			name:       "AcceleratedSpeed",
			prev:       3.00,
			crashPoint: 10.0,
			want:       3.05,
		},
		{
			name:       "ReachesSecondThreshold",
			prev:       9.95,
			crashPoint: 20.0,
			want:       10.00,
		},
		{
			name:       "FastSpeed",
			prev:       10.00,
			crashPoint: 20.0,
			want:       10.15,
		},
		{
			name:        "ClampsAtCrashPoint",
			prev:        2.49,
			crashPoint:  2.50,
			want:        2.50,
			wantCrashed: true,
		},
		{
			name:        "ClampsWhenStepWouldOvershoot",
			prev:        9.99,
			crashPoint:  10.02,
			want:        10.02,
			wantCrashed: true,
		},
		{
			name:        "CrashPointJustAboveStart",
			prev:        1.00,
			crashPoint:  1.01,
			want:        1.01,
			wantCrashed: true,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, crashed := Step(tc.prev, tc.crashPoint)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("unexpected multiplier, want: %v, got: %v", tc.want, got)
			}
			if crashed != tc.wantCrashed {
				t.Errorf("unexpected crashed flag, want: %v, got: %v", tc.wantCrashed, crashed)
			}
		})
	}
}

func TestStepSequenceIsMonotonicAndBounded(t *testing.T) {
	const crashPoint = 27.32

	multiplier := 1.00
	crashed := false

	for i := 0; i < 10000; i++ {
		next, done := Step(multiplier, crashPoint)

		if next < multiplier {
			t.Fatalf("multiplier decreased: %v -> %v", multiplier, next)
		}
		if next > crashPoint {
			t.Fatalf("multiplier %v exceeded crash point %v", next, crashPoint)
		}

		multiplier = next

		if done {
			crashed = true

			break
		}
	}

	if !crashed {
		t.Fatal("sequence never reached the crash point")
	}
	if multiplier != crashPoint {
		t.Errorf("final multiplier not clamped to crash point, got: %v", multiplier)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "AlreadyRounded", in: 2.50, want: 2.50},
		{name: "BinaryNoise", in: 1.01 + 0.05, want: 1.06},
		{name: "Negative", in: -2.005, want: -2.00},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Round2(tc.in); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("unexpected result, want: %v, got: %v", tc.want, got)
			}
		})
	}
}
