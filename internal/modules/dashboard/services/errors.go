package services

import "errors"

var (
	// ErrUpstream wraps failures of the data store, LLM or vector store
	ErrUpstream = errors.New("upstream unavailable")
	// ErrNoData is returned when an operation needs rows and there are none
	ErrNoData = errors.New("no data")
	// ErrInvalidRequest is returned for bad caller input
	ErrInvalidRequest = errors.New("invalid request")
)
