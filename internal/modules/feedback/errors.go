package feedback

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrInvalidRating    = errors.New("invalid_rating")
	ErrBusinessNotFound = errors.New("business_not_found")
	ErrNotFound         = errors.New("not_found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidStatus    = errors.New("invalid_status")
)
