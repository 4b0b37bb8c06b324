package domain

import "errors"

// Dashboard errors
var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrInvalidYear     = errors.New("invalid year")
	ErrUnknownChampion = errors.New("unknown champion")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidTheme    = errors.New("theme must be light or dark")
)

// Proxy errors
var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrChampionMissing = errors.New("champion is not in the local cache")
)
