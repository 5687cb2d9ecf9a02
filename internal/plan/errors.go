package plan

import "errors"

var (
	// ErrEmptyName is returned when a person is added without a name.
	ErrEmptyName = errors.New("person name is empty")

	// ErrDuplicatePerson is returned when the roster already has someone with that name.
	ErrDuplicatePerson = errors.New("person already on the roster")

	// ErrEmptyDescription is returned when a work item is added without a description.
	ErrEmptyDescription = errors.New("work item description is empty")

	// ErrDuplicateWorkItem is returned when a work item with that description exists.
	ErrDuplicateWorkItem = errors.New("work item already exists")

	// ErrNegativeDays is returned for negative availability, effort or sprint length.
	ErrNegativeDays = errors.New("days must not be negative")

	// ErrInvalidColor is returned when a work item color is not a hex color.
	ErrInvalidColor = errors.New("color must be a hex value like #1f77b4")

	// ErrBadInput is returned by the Parse* helpers for malformed text.
	ErrBadInput = errors.New("malformed input")
)
