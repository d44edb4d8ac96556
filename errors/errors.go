package errors

import "errors"

// Sentinel errors shared across the reasoning pipeline and its ports.
var (
	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrClassificationParse indicates the classifier output was not a valid classification record
	ErrClassificationParse = errors.New("classification output could not be parsed")

	// ErrProviderUnavailable indicates an auxiliary knowledge provider returned nothing usable
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrGeneration indicates a language-generation call failed
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyResponse indicates a provider answered with no content
	ErrEmptyResponse = errors.New("empty response")

	// ErrInvalidTransition indicates an illegal task state change
	ErrInvalidTransition = errors.New("invalid task state transition")

	// ErrRateLimited indicates the request was rejected by the rate limiter
	ErrRateLimited = errors.New("rate limit exceeded")
)
