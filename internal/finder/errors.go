package finder

import (
	"errors"
	"fmt"

	"bizfinder/internal/models"
)

// ErrAllProvidersFailed is returned when not a single provider answered.
var ErrAllProvidersFailed = errors.New("all providers failed")

// ProviderError wraps the failure of one provider during a search. It is
// logged and the provider contributes no results; the search goes on.
type ProviderError struct {
	Provider models.Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
