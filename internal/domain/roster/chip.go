package roster

import "fmt"

// ChipKind identifies one of the four one-time-per-season modifiers.
type ChipKind string

const (
	ChipNone          ChipKind = ""
	ChipWildcard      ChipKind = "wildcard"
	ChipTripleCaptain ChipKind = "triple_captain"
	ChipBenchBoost    ChipKind = "bench_boost"
	ChipFreeHit       ChipKind = "free_hit"
)

var AllChips = map[ChipKind]struct{}{
	ChipWildcard:      {},
	ChipTripleCaptain: {},
	ChipBenchBoost:    {},
	ChipFreeHit:       {},
}

// ChipState holds the per-season one-shot flags plus the single active slot.
// The controller only gates activation; Wildcard/Free Hit effects are read by
// the transfer accounting and Triple Captain/Bench Boost by the scoring engine.
type ChipState struct {
	WildcardUsed      bool
	TripleCaptainUsed bool
	BenchBoostUsed    bool
	FreeHitUsed       bool

	Active         ChipKind
	ActiveGameweek int
}

// ActiveFor returns the chip in force for the given gameweek, if any.
func (c ChipState) ActiveFor(gameweek int) ChipKind {
	if c.Active == ChipNone || c.ActiveGameweek != gameweek {
		return ChipNone
	}
	return c.Active
}

func (c ChipState) used(kind ChipKind) bool {
	switch kind {
	case ChipWildcard:
		return c.WildcardUsed
	case ChipTripleCaptain:
		return c.TripleCaptainUsed
	case ChipBenchBoost:
		return c.BenchBoostUsed
	case ChipFreeHit:
		return c.FreeHitUsed
	default:
		return false
	}
}

func (c ChipState) withUsed(kind ChipKind, used bool) ChipState {
	next := c
	switch kind {
	case ChipWildcard:
		next.WildcardUsed = used
	case ChipTripleCaptain:
		next.TripleCaptainUsed = used
	case ChipBenchBoost:
		next.BenchBoostUsed = used
	case ChipFreeHit:
		next.FreeHitUsed = used
	}
	return next
}

// Activate marks the chip used for the season and active for the gameweek.
// Each kind can be used at most once per season and only one chip may be
// active for any given gameweek.
func (c ChipState) Activate(kind ChipKind, gameweek int) (ChipState, error) {
	if _, ok := AllChips[kind]; !ok {
		return c, fmt.Errorf("unknown chip kind: %s", kind)
	}
	if c.used(kind) {
		return c, fmt.Errorf("%w: %s", ErrChipAlreadyUsed, kind)
	}
	if c.Active != ChipNone && c.ActiveGameweek == gameweek {
		return c, fmt.Errorf("%w: %s", ErrChipConflict, c.Active)
	}

	next := c.withUsed(kind, true)
	next.Active = kind
	next.ActiveGameweek = gameweek

	return next, nil
}

// Cancel clears the active slot and restores the season flag. Only permitted
// while the gameweek is still unlocked; the caller enforces the window.
func (c ChipState) Cancel(gameweek int) (ChipState, error) {
	if c.Active == ChipNone || c.ActiveGameweek != gameweek {
		return c, ErrNoActiveChip
	}

	next := c.withUsed(c.Active, false)
	next.Active = ChipNone
	next.ActiveGameweek = 0

	return next, nil
}

// Expire clears the active slot at rollover without touching the used flags.
func (c ChipState) Expire() ChipState {
	next := c
	next.Active = ChipNone
	next.ActiveGameweek = 0

	return next
}
