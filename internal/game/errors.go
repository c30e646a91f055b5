package game

import "errors"

// Error taxonomy shared by the registry, engine, storage and HTTP layers.
// Callers wrap these with context and test them with errors.Is.
var (
	ErrNotFound            = errors.New("game not found")
	ErrInvalidGuessLength  = errors.New("invalid guess length")
	ErrNotAWord            = errors.New("not in word list")
	ErrGameAlreadyComplete = errors.New("game finished")
	ErrEmptyVocabulary     = errors.New("word list is empty")
	ErrPersistence         = errors.New("persistence failure")
)
