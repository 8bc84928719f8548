package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/schaermu/guildsync/internal/diff"
)

// Entity is the kind of guild entity a change applies to.
type Entity string

const (
	EntityRole     Entity = "Role"
	EntityCategory Entity = "Category"
	EntityChannel  Entity = "Channel"
)

// Action is what a change does to its entity.
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
)

// Change describes a single create, update or delete of a guild entity.
// Diffs is only set for updates.
type Change struct {
	Action Action
	Entity Entity
	Name   string
	Diffs  []diff.Diff
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s %q", c.Action, c.Entity, c.Name)
}

// Event reports the outcome of one executed command.
type Event struct {
	Change Change
	Err    error
}

// Succeeded reports whether the command went through.
func (e Event) Succeeded() bool {
	return e.Err == nil
}

// Listener receives one event per executed command.
type Listener interface {
	Handle(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event Event)

// Handle calls f(event).
func (f ListenerFunc) Handle(event Event) {
	f(event)
}

// Listeners fans an event out to every listener in order.
type Listeners []Listener

// Handle forwards event to each listener.
func (ls Listeners) Handle(event Event) {
	for _, l := range ls {
		if l != nil {
			l.Handle(event)
		}
	}
}

// LogListener logs events with slog.
type LogListener struct {
	logger *slog.Logger
}

// NewLogListener creates a listener writing to logger.
func NewLogListener(logger *slog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

// Handle logs a successful change at info and a failed one at error level.
func (l *LogListener) Handle(event Event) {
	attrs := []any{
		"action", event.Change.Action,
		"entity", event.Change.Entity,
		"name", event.Change.Name,
	}
	if event.Err != nil {
		l.logger.Error("change failed", append(attrs, "error", event.Err)...)
		return
	}
	l.logger.Info("change applied", attrs...)
}
