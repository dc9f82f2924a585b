package advisor

import "errors"

// Common errors returned by recommendation generators
var (
	// ErrGenerationFailed is returned when recommendation generation fails
	// for any general reason
	ErrGenerationFailed = errors.New("failed to generate recommendation")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed
	// or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to
	// safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors such as network
	// failures or model overload
	ErrTransientFailure = errors.New("transient error during recommendation generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyResource is returned when the resource passed to the generator
	// is nil or carries no data to analyze
	ErrEmptyResource = errors.New("resource data cannot be empty")
)
