package dataset

import "errors"

// Common errors.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrLabelOutOfRange = errors.New("label out of range")
	ErrPixelOutOfRange = errors.New("pixel out of range")
	ErrInvalidMagic    = errors.New("invalid IDX magic number")
	ErrCountMismatch   = errors.New("image and label counts differ")
	ErrEmpty           = errors.New("dataset is empty")
)
