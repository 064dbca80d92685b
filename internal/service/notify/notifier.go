// Package notify delivers inbox events to staff, either directly by mail or
// through a RabbitMQ queue drained by the worker command.
package notify

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

const (
	EventContactSubmitted    = "contact.submitted"
	EventApplicationReceived = "application.received"
)

type Event struct {
	Type       string            `json:"type"`
	Subject    string            `json:"subject"`
	Payload    map[string]string `json:"payload"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Body renders the payload as sorted "key: value" lines.
func (e Event) Body() string {
	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Payload[k])
		b.WriteString("\n")
	}
	return b.String()
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
