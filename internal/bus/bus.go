// Package bus delivers typed playback signals between sessions and the
// switchboard. Delivery is synchronous on the caller's goroutine, which is
// always the host loop.
package bus

import "log/slog"

// Kind identifies a signal.
type Kind int

const (
	CueFired Kind = iota
	StreamEnded
	VisibilityLost
	VisibilityRestored
)

func (k Kind) String() string {
	switch k {
	case CueFired:
		return "cue-fired"
	case StreamEnded:
		return "stream-ended"
	case VisibilityLost:
		return "visibility-lost"
	case VisibilityRestored:
		return "visibility-restored"
	default:
		return "unknown"
	}
}

// Event is one published signal. Name carries the cue signal for CueFired.
// Source is the handle of the publishing session, empty for app events.
type Event struct {
	Kind   Kind
	Name   string
	Source string
}

type Handler func(Event)

// Bus is an append-only subscription registry.
type Bus struct {
	log  *slog.Logger
	subs map[Kind][]Handler
}

func New(log *slog.Logger) *Bus {
	return &Bus{log: log, subs: make(map[Kind][]Handler)}
}

// Subscribe registers h for events of kind k. Handlers are never removed.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.subs[k] = append(b.subs[k], h)
}

// Publish calls every handler for e.Kind in subscription order.
func (b *Bus) Publish(e Event) {
	hs := b.subs[e.Kind]
	b.log.Debug("publish", "kind", e.Kind, "name", e.Name, "source", e.Source, "handlers", len(hs))
	for _, h := range hs {
		h(e)
	}
}
