package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrRoundNotFound  = errors.New("round not found")
	ErrRoundNotPlayed = errors.New("round not played yet")
	ErrMemberNotFound = errors.New("member not found")
)
