// Package feed notifies open dashboards that a listing collection changed.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type Kind string

const (
	KindDonors   Kind = "donors"
	KindRequests Kind = "requests"
)

type Event struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// Broker fans listing events out to subscribers. A subscription ends, and its
// channel is closed, when ctx is done.
type Broker interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// WriteSSE writes e as one server-sent event named after its kind.
func WriteSSE(w io.Writer, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
	return err
}
