package scrape

import "fmt"

// NavigationError indicates a search page failed to load or render.
type NavigationError struct {
	Message string
	Cause   error
}

func (e *NavigationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// ExtractionError indicates rendered HTML could not be parsed into
// listings.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
