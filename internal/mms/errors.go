package mms

import "fmt"

// NotFoundError reports that a period, table, constraint or generic
// function is absent from the published archive.
type NotFoundError struct {
	Op       string // operation attempted, e.g. "FetchTable"
	Resource string // what kind of thing was missing, e.g. "constraint"
	Key      string // the missing identifier or period
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q not found in archive", e.Op, e.Resource, e.Key)
}

// ParseError reports archive content that is present but malformed
// relative to the expected MMS report shape.
type ParseError struct {
	Table  string
	Line   int // 1-based line in the report, 0 if not line-specific
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed report %s (line %d): %s", e.Table, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed report %s: %s", e.Table, e.Reason)
}

// TransportError reports that the archive could not be reached or
// answered with an unexpected status.
type TransportError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("archive request %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("archive request %s returned status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }
