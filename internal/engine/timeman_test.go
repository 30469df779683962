package engine

import (
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

func TestAllocateTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		clock  Clock
		side   board.Color
		want   time.Duration
		wantOK bool
	}{
		{"no clock", Clock{}, board.White, 0, false},
		{"default moves to go", Clock{Time: [2]time.Duration{30 * time.Second, time.Second}}, board.White, 950 * time.Millisecond, true},
		{"black clock", Clock{Time: [2]time.Duration{30 * time.Second, 60 * time.Second}}, board.Black, 1950 * time.Millisecond, true},
		{"increment", Clock{Time: [2]time.Duration{30 * time.Second}, Inc: [2]time.Duration{2 * time.Second}}, board.White, 2950 * time.Millisecond, true},
		{"moves to go", Clock{Time: [2]time.Duration{10 * time.Second}, MovesToGo: 5}, board.White, 1950 * time.Millisecond, true},
		{"move time", Clock{Time: [2]time.Duration{time.Minute}, MoveTime: time.Second}, board.White, 950 * time.Millisecond, true},
		{"floor", Clock{Time: [2]time.Duration{100 * time.Millisecond}}, board.White, 10 * time.Millisecond, true},
		{"other side only", Clock{Time: [2]time.Duration{0, time.Minute}}, board.White, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deadline, ok := AllocateTime(tc.clock, tc.side, now)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				if !deadline.IsZero() {
					t.Errorf("deadline %v without a clock", deadline)
				}
				return
			}
			if got := deadline.Sub(now); got != tc.want {
				t.Errorf("budget %v, want %v", got, tc.want)
			}
		})
	}
}
