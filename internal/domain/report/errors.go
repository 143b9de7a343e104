package report

import "errors"

var (
	ErrInvalidFormat = errors.New("unsupported report format, use pdf or excel")
	ErrInvalidDate   = errors.New("invalid report date, use YYYY-MM-DD")
)
