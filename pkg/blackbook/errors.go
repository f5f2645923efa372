package blackbook

import "errors"

var (
	ErrUnknownMaterial     = errors.New("unknown material")
	ErrInvalidToolDiameter = errors.New("invalid tool diameter")
	ErrInvalidEngagement   = errors.New("invalid engagement")
	ErrCalculation         = errors.New("calculation error")
)
