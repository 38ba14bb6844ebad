package domain

import "errors"

var (
	// ErrInvalidFormat indicates the input token cannot be parsed as a number
	// in either canonical form.
	ErrInvalidFormat = errors.New("invalid number format")
	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("range end precedes start")
	// ErrRangeTooLarge indicates a range expansion exceeding the safety cap.
	ErrRangeTooLarge = errors.New("range too large")
)
