package domain

import (
	"errors"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageNotAuthenticated     = "sign in required"

	ErrTokenNotFound   = errors.New("failed to token not found")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionMismatch = errors.New("token belongs to another user than the signed-in one")
	ErrInvalidDate     = errors.New("date must be formatted as yyyy-MM-dd")
	ErrInvalidMonth    = errors.New("month must be formatted as yyyy-MM")
)
