package coupon

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrAlreadyUsed    = errors.New("already_used")
	ErrExpired        = errors.New("expired")
	ErrForbidden      = errors.New("forbidden")
	ErrNotEligible    = errors.New("not_eligible")
	ErrAlreadyIssued  = errors.New("already_issued")
)
