package utils

import "errors"

var (
	ErrorRecordNotFound    = errors.New("record not found")
	ErrorInsufficientStock = errors.New("insufficient stock")
	ErrorQuotaExceeded     = errors.New("no product records available on current plan")
)

// InvalidInputError marks domain validation failures the caller can correct.
// Anything else bubbling out of the model layer is treated as internal.
type InvalidInputError string

func (e InvalidInputError) Error() string { return string(e) }
