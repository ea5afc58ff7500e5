package apperror

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidProfile    = errors.New("profile name must not be empty")
	ErrInvalidSlot       = errors.New("invalid player slot")
	ErrInvalidMatchID    = errors.New("invalid match id")
	ErrInvalidWinner     = errors.New("invalid winner")
	ErrInvalidMovesCount = errors.New("moves count must be between 0 and 9")
	ErrInvalidBoard      = errors.New("invalid board")
	ErrCorruptBoard      = errors.New("stored board is corrupt")
	ErrMatchNotSaved     = errors.New("match result was not saved")
)
