package models

import (
	"errors"
	"strings"
	"time"
)

// SearchRequest asks for one search. Location is either "lat,lon" or an
// address to geocode.
type SearchRequest struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Query    string `json:"query"`
	// Strict asks for the single closest match instead of the full list.
	Strict bool `json:"strict,omitempty"`
}

func (r SearchRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Location) == "" {
		errs = append(errs, errors.New("location is required"))
	}
	if strings.TrimSpace(r.Query) == "" {
		errs = append(errs, errors.New("query is required"))
	}
	return errors.Join(errs...)
}

// SearchResult is the outcome of a SearchRequest as it is stored and
// published.
type SearchResult struct {
	SearchID   string      `json:"search_id"`
	Query      string      `json:"query"`
	Location   string      `json:"location"`
	Strict     bool        `json:"strict,omitempty"`
	Businesses []*Business `json:"businesses"`
	Error      string      `json:"error,omitempty"`
	FinishedAt time.Time   `json:"finished_at"`
}
