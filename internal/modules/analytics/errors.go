package analytics

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrBusinessNotFound = errors.New("business_not_found")
)
