package roster

import "errors"

var (
	ErrFormationInvalid     = errors.New("formation invalid")
	ErrBudgetExceeded       = errors.New("budget cap exceeded")
	ErrChipAlreadyUsed      = errors.New("chip already used this season")
	ErrChipConflict         = errors.New("another chip is already active this gameweek")
	ErrNoActiveChip         = errors.New("no chip is active this gameweek")
	ErrTransferWindowLocked = errors.New("transfer window is locked")
	ErrAlreadyExists        = errors.New("roster already exists for user")
	ErrVersionConflict      = errors.New("roster was modified concurrently")
)
