package roster

// MergeSnapshot rebuilds the squad from the Free Hit snapshot. A snapshot
// player reported unavailable (sold during the chip week and claimed by
// another roster) stays out; the vacated slot falls to an in-week signing of
// the same position, or the same positional type for a bench slot. Reports
// false when no formation-preserving merge exists, in which case the caller
// keeps the current squad.
func (r Roster) MergeSnapshot(snapshot *Snapshot, unavailable func(playerID string) bool) (starters, bench []Pick, ok bool) {
	if snapshot == nil || unavailable == nil {
		return nil, nil, false
	}

	inSnapshot := make(map[string]struct{}, len(snapshot.Starters)+len(snapshot.Bench))
	for _, pick := range append(clonePicks(snapshot.Starters), snapshot.Bench...) {
		inSnapshot[pick.PlayerID] = struct{}{}
	}

	spares := make([]Pick, 0, len(r.Starters)+len(r.Bench))
	for _, pick := range append(clonePicks(r.Starters), r.Bench...) {
		if _, kept := inSnapshot[pick.PlayerID]; !kept {
			spares = append(spares, pick)
		}
	}
	takeSpare := func(match func(Pick) bool) (Pick, bool) {
		for i, spare := range spares {
			if match(spare) {
				spares = append(spares[:i], spares[i+1:]...)
				return spare, true
			}
		}
		return Pick{}, false
	}

	starters = make([]Pick, 0, len(snapshot.Starters))
	for _, pick := range snapshot.Starters {
		if !unavailable(pick.PlayerID) {
			starters = append(starters, pick)
			continue
		}
		position := pick.Position
		replacement, found := takeSpare(func(p Pick) bool { return p.Position == position })
		if !found {
			return nil, nil, false
		}
		starters = append(starters, replacement)
	}

	bench = make([]Pick, 0, len(snapshot.Bench))
	for _, pick := range snapshot.Bench {
		if !unavailable(pick.PlayerID) {
			bench = append(bench, pick)
			continue
		}
		defensive := pick.Position.Defensive()
		replacement, found := takeSpare(func(p Pick) bool { return p.Position.Defensive() == defensive })
		if !found {
			return nil, nil, false
		}
		bench = append(bench, replacement)
	}

	if err := ValidateFormation(starters, bench); err != nil {
		return nil, nil, false
	}

	return starters, bench, true
}

// ResolveCaptaincy picks the first captain candidate that starts, then the
// first vice candidate that starts and differs from the captain, falling
// back to starter order so the armbands always land on current starters.
func ResolveCaptaincy(starters []Pick, captainCandidates, viceCandidates []string) (captain, vice string) {
	isStarter := func(playerID string) bool {
		for _, pick := range starters {
			if pick.PlayerID == playerID {
				return true
			}
		}
		return false
	}

	for _, candidate := range captainCandidates {
		if candidate != "" && isStarter(candidate) {
			captain = candidate
			break
		}
	}
	if captain == "" && len(starters) > 0 {
		captain = starters[0].PlayerID
	}

	for _, candidate := range viceCandidates {
		if candidate != "" && candidate != captain && isStarter(candidate) {
			vice = candidate
			break
		}
	}
	if vice == "" {
		for _, pick := range starters {
			if pick.PlayerID != captain {
				vice = pick.PlayerID
				break
			}
		}
	}

	return captain, vice
}
