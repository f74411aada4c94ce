package queue

import "context"

// Job is a registered handler for one message type, e.g. the background
// transit fit. Name identifies the handler, Type selects which messages it
// receives.
type Job interface {
	Name() string
	Type() string
	Handle(ctx context.Context, payload interface{}) error
}
