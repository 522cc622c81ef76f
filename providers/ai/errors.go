package ai

import "errors"

var (
	// ErrUnknownProvider is returned by Registry.Acquire when no factory is
	// registered for the requested provider.
	ErrUnknownProvider = errors.New("unknown model provider")

	// ErrEmptyResponse is returned by backends when the provider answered
	// without any content.
	ErrEmptyResponse = errors.New("empty response from model provider")
)
