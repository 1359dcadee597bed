package domain

import "fmt"

// AuthError signals missing or rejected tracker credentials.
type AuthError struct {
    Reason string
}

func (e *AuthError) Error() string { return "unauthenticated: " + e.Reason }

// BadRequestError signals a malformed aggregation request.
type BadRequestError struct {
    Reason string
}

func (e *BadRequestError) Error() string { return "bad request: " + e.Reason }

// UpstreamError is a non-2xx tracker response after the fallback sequence
// has been exhausted.
type UpstreamError struct {
    Status int
    Body   string
}

func (e *UpstreamError) Error() string {
    return fmt.Sprintf("jira api status=%d body=%s", e.Status, e.Body)
}

// NetworkError wraps a transport-level failure reaching the tracker.
type NetworkError struct {
    Err error
}

func (e *NetworkError) Error() string { return "jira transport: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }
