package roster

import "testing"

func TestTransferCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		made       int
		free       int
		penalty    int
		activeChip ChipKind
		want       int
	}{
		{name: "within allowance", made: 1, free: 1, penalty: 4, want: 0},
		{name: "no transfers", made: 0, free: 1, penalty: 4, want: 0},
		{name: "one over", made: 2, free: 1, penalty: 4, want: 4},
		{name: "three swaps one free", made: 3, free: 1, penalty: 4, want: 8},
		{name: "wildcard active", made: 5, free: 1, penalty: 4, activeChip: ChipWildcard, want: 0},
		{name: "free hit active", made: 5, free: 1, penalty: 4, activeChip: ChipFreeHit, want: 0},
		{name: "triple captain does not waive cost", made: 2, free: 1, penalty: 4, activeChip: ChipTripleCaptain, want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TransferCost(tc.made, tc.free, tc.penalty, tc.activeChip)
			if got != tc.want {
				t.Fatalf("TransferCost(%d, %d, %d, %q) = %d, want %d", tc.made, tc.free, tc.penalty, tc.activeChip, got, tc.want)
			}
		})
	}
}

func TestTransferState_ApplySwap(t *testing.T) {
	t.Parallel()

	state := TransferState{FreeTransfers: 1}

	state = state.ApplySwap(4, ChipNone)
	if state.Made != 1 || state.Cost != 0 {
		t.Fatalf("first swap should be free, got made=%d cost=%d", state.Made, state.Cost)
	}

	state = state.ApplySwap(4, ChipNone)
	if state.Made != 2 || state.Cost != 4 {
		t.Fatalf("second swap should cost 4, got made=%d cost=%d", state.Made, state.Cost)
	}

	state = state.ApplySwap(4, ChipNone)
	if state.Made != 3 || state.Cost != 8 {
		t.Fatalf("third swap should cost 8 total, got made=%d cost=%d", state.Made, state.Cost)
	}
}

func TestTransferState_RecostOnChipChange(t *testing.T) {
	t.Parallel()

	state := TransferState{FreeTransfers: 1}
	state = state.ApplySwap(4, ChipNone)
	state = state.ApplySwap(4, ChipNone)
	if state.Cost != 4 {
		t.Fatalf("expected cost 4 before wildcard, got %d", state.Cost)
	}

	state = state.Recost(4, ChipWildcard)
	if state.Cost != 0 {
		t.Fatalf("wildcard should zero the accumulated cost, got %d", state.Cost)
	}

	// Cancelling the wildcard reinstates the cost for the transfers made.
	state = state.Recost(4, ChipNone)
	if state.Cost != 4 {
		t.Fatalf("cancelling wildcard should restore cost 4, got %d", state.Cost)
	}
}

func TestTransferState_Rollover(t *testing.T) {
	t.Parallel()

	state := TransferState{FreeTransfers: 0, Made: 3, Cost: 8}
	state = state.Rollover(1)

	if state.FreeTransfers != 1 || state.Made != 0 || state.Cost != 0 {
		t.Fatalf("rollover should reset counters, got %+v", state)
	}

	// The allowance does not accumulate across unused weeks.
	state = state.Rollover(1)
	if state.FreeTransfers != 1 {
		t.Fatalf("free transfers must not accumulate, got %d", state.FreeTransfers)
	}
}
