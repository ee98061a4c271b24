package roster

// TransferState tracks per-gameweek transfer accounting for one roster.
type TransferState struct {
	FreeTransfers int
	Made          int
	Cost          int
}

// TransferCost is the accumulated point cost for the week: each transfer beyond
// the free allowance costs the fixed penalty. While Wildcard or Free Hit is
// active the whole week is free regardless of how many transfers were made.
func TransferCost(made, freeTransfers, penalty int, activeChip ChipKind) int {
	if activeChip == ChipWildcard || activeChip == ChipFreeHit {
		return 0
	}

	over := made - freeTransfers
	if over <= 0 {
		return 0
	}

	return over * penalty
}

// ApplySwap records one committed buy/sell pair and recomputes the cost.
func (t TransferState) ApplySwap(penalty int, activeChip ChipKind) TransferState {
	next := t
	next.Made++
	next.Cost = TransferCost(next.Made, next.FreeTransfers, penalty, activeChip)

	return next
}

// Recost recomputes the accumulated cost after the active chip changed, e.g.
// when a Wildcard is activated or cancelled mid-week.
func (t TransferState) Recost(penalty int, activeChip ChipKind) TransferState {
	next := t
	next.Cost = TransferCost(next.Made, next.FreeTransfers, penalty, activeChip)

	return next
}

// Rollover resets the weekly counters. The free allowance does not accumulate
// across unused weeks; it resets to the configured default every gameweek.
func (t TransferState) Rollover(defaultFreeTransfers int) TransferState {
	return TransferState{FreeTransfers: defaultFreeTransfers}
}
