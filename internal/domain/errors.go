package domain

import "errors"

var (
	// ErrQuestionUnavailable is returned when the question source has no
	// eligible breeds for the requested filter.
	ErrQuestionUnavailable = errors.New("no question available for filter")
	// ErrInvalidInput indicates a malformed grading or request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionNotFound is returned when a game session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionFinished indicates the session reached its question target.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrCatalogNotFound indicates the breed catalog could not be loaded.
	ErrCatalogNotFound = errors.New("breed catalog not found")
)
