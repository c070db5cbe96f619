package report

import "fmt"

// ErrorKind classifies why a fetch failed.
type ErrorKind int

const (
	// UpstreamRejected means the service answered with an error status.
	UpstreamRejected ErrorKind = iota + 1
	// UpstreamUnreachable means the request was sent but no answer came back.
	UpstreamUnreachable
	// RequestFailure means the request could not be built or sent.
	RequestFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UpstreamRejected:
		return "upstream_rejected"
	case UpstreamUnreachable:
		return "upstream_unreachable"
	case RequestFailure:
		return "request_failure"
	default:
		return "unknown"
	}
}

// FetchError is returned by Client.Fetch for every failure.
type FetchError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case UpstreamRejected:
		return fmt.Sprintf("attendance service rejected request: status %d: %s", e.Status, e.remoteMessage())
	case UpstreamUnreachable:
		return fmt.Sprintf("no response from attendance service: %v", e.Err)
	default:
		return fmt.Sprintf("attendance request failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage never includes transport details.
func (e *FetchError) UserMessage() string {
	switch e.Kind {
	case UpstreamRejected:
		return fmt.Sprintf("API Error: %d - %s", e.Status, e.remoteMessage())
	case UpstreamUnreachable:
		return "No response from attendance service. Please try again later."
	default:
		return "Failed to connect to attendance service."
	}
}

func (e *FetchError) remoteMessage() string {
	if e.Message == "" {
		return "Unknown error"
	}
	return e.Message
}
