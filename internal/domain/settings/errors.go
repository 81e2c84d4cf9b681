package settings

import "errors"

var (
	ErrMissingConfig      = errors.New("work hours configuration is missing")
	ErrInvalidConfig      = errors.New("work hours configuration is invalid")
	ErrHolidayNotFound    = errors.New("holiday not found")
	ErrInvalidHolidayFile = errors.New("invalid holiday file")
)
