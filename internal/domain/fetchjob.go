package domain

import (
	"github.com/google/uuid"
)

// FetchMode declares how a source's content must be retrieved.
type FetchMode string

const (
	// FetchModeLightweight retrieves content with a plain HTTP GET.
	FetchModeLightweight FetchMode = "lightweight"
	// FetchModeRendered retrieves content through a headless browser so
	// script-generated markup is present.
	FetchModeRendered FetchMode = "rendered"
)

// String returns the string representation of the fetch mode.
func (m FetchMode) String() string {
	return string(m)
}

// FetchJob is one unit of work for the resolution engine: an item-page URL
// that must be visited to resolve leaf asset URLs. A job is discarded after
// success or after its retries are exhausted; a permanently failed job never
// aborts the batch.
type FetchJob struct {
	ID       string
	URL      string
	Mode     FetchMode
	Attempts int
}

// NewFetchJob creates a fetch job for the given URL.
func NewFetchJob(url string, mode FetchMode) *FetchJob {
	return &FetchJob{
		ID:   uuid.NewString(),
		URL:  url,
		Mode: mode,
	}
}
