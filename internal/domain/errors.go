package domain

import "errors"

var (
	// ErrInvalidTransition is returned when a workflow event arrives while its precondition is unmet.
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrMalformedIdentity indicates a blank display name or a malformed contact.
	ErrMalformedIdentity = errors.New("malformed identity")
	// ErrInvalidScore is returned when a score falls outside [0, total] or total is not positive.
	ErrInvalidScore = errors.New("invalid quiz score")
	// ErrDomainNotFound indicates the selected domain is not in the catalog.
	ErrDomainNotFound = errors.New("domain not found")
	// ErrTopicNotFound indicates the selected topic is not in the catalog.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrNoQuestions indicates the catalog has no questions for a topic.
	ErrNoQuestions = errors.New("no questions for topic")
	// ErrOptionOutOfRange indicates an answer index outside the question's options.
	ErrOptionOutOfRange = errors.New("answer option out of range")
)
