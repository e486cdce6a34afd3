package business

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInvalidSlug    = errors.New("invalid_slug")
	ErrSlugTaken      = errors.New("slug_taken")
	ErrNotFound       = errors.New("not_found")
	ErrForbidden      = errors.New("forbidden")
)
