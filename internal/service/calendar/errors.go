package calendar

import "errors"

var (
	ErrInvalidWindow  = errors.New("window end must be after start")
	ErrWindowTooLarge = errors.New("window exceeds the maximum number of days")
)
