package ledger

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrProtectedAccount  = errors.New("protected account")
	ErrNotAManager       = errors.New("not a manager")
	ErrUnknownToken      = errors.New("unknown token")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrOperationDisabled = errors.New("operation disabled")
)
