package notification

import "errors"

var (
	ErrJobNotFound      = errors.New("notification job not found")
	ErrEmptyComposition = errors.New("content generator returned an empty message")
)
