package llm

import (
	"errors"
	"fmt"
)

// ErrMessageRequired is returned when the inbound message is missing or blank.
var ErrMessageRequired = errors.New("message is required")

// ProviderError is a non-2xx answer from the completion provider. Body is
// the raw response text.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}
