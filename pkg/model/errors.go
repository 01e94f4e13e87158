package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrEmptyContent is returned when save_memory is called without content.
	// No row is written when this is returned.
	ErrEmptyContent = goerr.New("content must be a non-empty string")

	// ErrInvalidLocator is returned when a database locator cannot be parsed.
	ErrInvalidLocator = goerr.New("invalid database locator")
)
