package flexlabel

import "errors"

var (
	ErrUnknownValue = errors.New("unknown value")
	ErrInvalidColor = errors.New("invalid color")
)
