package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidID       = errors.New("invalid ID format")
	ErrSeasonRequired  = errors.New("season is required")
	ErrInvalidRiskTier = errors.New("invalid risk tier")
)
