/*
Package publish delivers announcement text to the publishing service and
classifies the result of each attempt.
*/
package publish

import "context"

// Kind classifies one publish attempt.
type Kind int

const (
	// Success: the post was created; Outcome.PostID holds the external id.
	Success Kind = iota
	// Duplicate: the service rejected the text as already posted. Treated
	// as terminal for the race so it is never retried.
	Duplicate
	// RateLimited: the service refused the request for rate reasons.
	// Terminal for the whole run.
	RateLimited
	// Other: any other failure. Logged; the race stays eligible for the
	// next run.
	Other
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Duplicate:
		return "duplicate"
	case RateLimited:
		return "rate_limited"
	default:
		return "error"
	}
}

// Outcome is the classified result of one publish attempt. It drives control
// flow only and is never persisted.
type Outcome struct {
	Kind    Kind
	PostID  string // set on Success
	Message string // diagnostic detail for failures
}

// Publisher accepts text and returns a classified outcome. Implementations
// never return a Go error: every failure mode is mapped onto an Outcome so
// the run controller handles all of them locally.
type Publisher interface {
	Publish(ctx context.Context, text string) Outcome
}
