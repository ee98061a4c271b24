package roster

import "fmt"

// SquadValue sums the current prices of the given picks.
func SquadValue(starters, bench []Pick) int64 {
	var total int64
	for _, pick := range starters {
		total += pick.Price
	}
	for _, pick := range bench {
		total += pick.Price
	}

	return total
}

// CheckAffordable authorizes a swap against the budget cap. Selling credits the
// outgoing player's current price and buying debits the incoming player's
// current price; both legs settle together or not at all.
func CheckAffordable(currentValue, outgoingPrice, incomingPrice, cap int64) error {
	next := currentValue - outgoingPrice + incomingPrice
	if next > cap {
		return fmt.Errorf("%w: cap=%d value_after_swap=%d", ErrBudgetExceeded, cap, next)
	}

	return nil
}
