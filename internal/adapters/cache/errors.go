package cache

import "errors"

// Sentinel kinds for cache codec errors. Callers treat any decode
// failure as "no usable cache" and re-bootstrap from the live source.
var (
	ErrTruncated   = errors.New("cache truncated")
	ErrInvalidName = errors.New("invalid name bytes")
	ErrNameTooLong = errors.New("name too long")
	ErrEntryCount  = errors.New("wrong snapshot entry count")
)
