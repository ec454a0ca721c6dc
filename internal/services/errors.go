package services

import "errors"

var (
	ErrNotConfigured   = errors.New("external service credential is not configured")
	ErrEmptyPayload    = errors.New("message has no usable content")
	ErrEmptyCompletion = errors.New("completion has no usable text")
	ErrForbidden       = errors.New("not allowed")
	ErrServerUnknown   = errors.New("server has no configuration")
)
