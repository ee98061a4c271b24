package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pitchside/fiveside/internal/domain/gameweek"
)

// GameweekClock is an in-process schedule of rounds. A round flips from open
// to locked purely by the wall clock passing LockAt; scored and archived are
// explicit transitions driven by the scoring batch.
type GameweekClock struct {
	mu       sync.Mutex
	schedule []gameweek.Gameweek
	index    int
	scored   bool
	now      func() time.Time
}

func NewGameweekClock(schedule []gameweek.Gameweek) *GameweekClock {
	return &GameweekClock{
		schedule: append([]gameweek.Gameweek(nil), schedule...),
		now:      time.Now,
	}
}

// WithNow swaps the time source. Tests use it to steer lock transitions.
func (c *GameweekClock) WithNow(now func() time.Time) *GameweekClock {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
	return c
}

func (c *GameweekClock) Current(_ context.Context) (gameweek.Gameweek, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current()
}

func (c *GameweekClock) current() (gameweek.Gameweek, error) {
	if c.index >= len(c.schedule) {
		return gameweek.Gameweek{}, gameweek.ErrNoNextRound
	}

	gw := c.schedule[c.index]
	switch {
	case c.scored:
		gw.State = gameweek.StateScored
	case !c.now().Before(gw.LockAt):
		gw.State = gameweek.StateLocked
	default:
		gw.State = gameweek.StateOpen
	}

	return gw, nil
}

func (c *GameweekClock) MarkScored(_ context.Context, number int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	gw, err := c.current()
	if err != nil {
		return err
	}
	if gw.Number != number {
		return fmt.Errorf("%w: %d", gameweek.ErrUnknownRound, number)
	}
	if gw.State != gameweek.StateLocked {
		return fmt.Errorf("%w: gameweek=%d state=%s", gameweek.ErrNotLocked, gw.Number, gw.State)
	}

	c.scored = true
	return nil
}

func (c *GameweekClock) HasNext(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.index+1 < len(c.schedule), nil
}

func (c *GameweekClock) Advance(_ context.Context) (gameweek.Gameweek, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gw, err := c.current()
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if gw.State != gameweek.StateScored {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d state=%s", gameweek.ErrNotScored, gw.Number, gw.State)
	}
	if c.index+1 >= len(c.schedule) {
		return gameweek.Gameweek{}, gameweek.ErrNoNextRound
	}

	c.index++
	c.scored = false

	return c.current()
}

// WeeklySchedule builds a round-per-week schedule starting at firstLock.
func WeeklySchedule(rounds int, firstLock time.Time) []gameweek.Gameweek {
	schedule := make([]gameweek.Gameweek, 0, rounds)
	for i := 0; i < rounds; i++ {
		schedule = append(schedule, gameweek.Gameweek{
			Number: i + 1,
			LockAt: firstLock.Add(time.Duration(i) * 7 * 24 * time.Hour),
		})
	}

	return schedule
}
