package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been opened.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrPoolNotFound indicates the question pool could not be loaded.
	ErrPoolNotFound = errors.New("question pool not found")
	// ErrInvalidPoolSize is returned when question count options are requested for an empty pool.
	ErrInvalidPoolSize = errors.New("pool size must be a positive number")
	// ErrInvalidQuestionCountOptions is returned when a candidate option is not positive.
	ErrInvalidQuestionCountOptions = errors.New("question count options must contain only positive numbers")
	// ErrUnknownCommand indicates an inbound command type the service does not handle.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidDifficulty indicates a difficulty outside NORMAL/DIFFICULT.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)
