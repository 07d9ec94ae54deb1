package mission

import (
	"context"
	"sync"
	"time"

	"github.com/cliff-rosen/jam-bot-sub001/internal/plan"
	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// ExecutionEventType identifies the kind of event the execution collaborator
// delivers. The collaborator is a black box emitting discrete events that
// are applied to the tree one at a time, in arrival order.
type ExecutionEventType string

const (
	// EventToken carries one streamed text fragment.
	EventToken ExecutionEventType = "token"

	// EventStatus reports a hop execution state change.
	EventStatus ExecutionEventType = "status"

	// EventPayload delivers a tool's raw output for folding into variables.
	EventPayload ExecutionEventType = "payload"
)

// String returns the string representation of the event type.
func (t ExecutionEventType) String() string {
	return string(t)
}

// ExecutionEvent is one discrete event from the execution stream. HopID
// scopes the event to a hop; events for a hop that is no longer live are
// discarded, which is also how superseded streams are cancelled.
type ExecutionEvent struct {
	// Type identifies the event kind.
	Type ExecutionEventType `json:"type"`

	// HopID scopes the event to a hop.
	HopID types.ID `json:"hop_id"`

	// StepID references the atomic workflow step that produced a payload.
	StepID types.ID `json:"step_id,omitempty"`

	// Token is the streamed fragment for token events.
	Token string `json:"token,omitempty"`

	// Status is the reported state for status events.
	Status ToolStepStatus `json:"status,omitempty"`

	// Payload is the raw tool output for payload events.
	Payload any `json:"payload,omitempty"`

	// Error carries the failure reason on failed status events.
	Error string `json:"error,omitempty"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}

// ApplyEvent folds one execution event into the mission, returning the new
// mission snapshot. Events whose hop ID does not match the live current hop
// are identity transitions. Payload events run the step's output mappings
// through the selector and the applicator; a mapping with an unhandled
// operation marks its target variable errored rather than dropping the
// value silently.
func ApplyEvent(m *Mission, ev ExecutionEvent) (*Mission, error) {
	if !isLiveHop(m, ev.HopID) {
		return m, nil
	}

	switch ev.Type {
	case EventToken:
		next := m.Clone()
		next.CurrentHop.Transcript += ev.Token
		return next, nil

	case EventStatus:
		switch ev.Status {
		case ToolStepStatusRunning:
			return StartExecution(m, ev.HopID), nil
		case ToolStepStatusCompleted:
			return CompleteExecution(m, ev.HopID), nil
		case ToolStepStatusFailed:
			return FailExecution(m, ev.HopID, ev.Error), nil
		default:
			return m, nil
		}

	case EventPayload:
		return applyPayload(m, ev)

	default:
		return m, nil
	}
}

// applyPayload folds a tool's raw output into the variables wired by the
// producing step's output mappings.
func applyPayload(m *Mission, ev ExecutionEvent) (*Mission, error) {
	next := m.Clone()

	idx, err := plan.BuildIndex(next.Workflow)
	if err != nil {
		return m, err
	}
	step, err := idx.StepByID(ev.StepID)
	if err != nil {
		return m, err
	}

	for i := range step.OutputMappings {
		mapping := step.OutputMappings[i]
		if !mapping.Target.IsVariable() {
			continue
		}
		variable := idx.Variable(mapping.Target.VariableID)
		if variable == nil {
			continue
		}

		value, err := plan.ExtractValue(mapping.Selector, ev.Payload)
		if err != nil {
			variable.SetError(err.Error())
			continue
		}

		folded, err := plan.Apply(variable, &mapping, value)
		if err != nil {
			// Unhandled operation: surface on the variable instead of
			// silently dropping the produced data.
			variable.SetError(err.Error())
			continue
		}
		variable.SetValue(folded)
	}

	return next, nil
}

// EventEmitter publishes execution events to subscribers. Implementations
// must be safe for concurrent use; the core itself consumes events from a
// single cooperative loop.
type EventEmitter interface {
	// Emit publishes an event to all subscribers.
	Emit(ctx context.Context, event ExecutionEvent) error

	// Subscribe creates a new subscription and returns a channel for
	// receiving events and a cleanup function to unsubscribe.
	Subscribe(ctx context.Context) (<-chan ExecutionEvent, func())

	// Close shuts down the emitter and all subscriptions.
	Close() error
}

// ChannelEmitter implements EventEmitter using buffered channels. Slow
// subscribers drop events rather than blocking the stream.
type ChannelEmitter struct {
	mu          sync.RWMutex
	subscribers map[string]chan ExecutionEvent
	bufferSize  int
	closed      bool
}

// EmitterOption is a functional option for configuring ChannelEmitter.
type EmitterOption func(*ChannelEmitter)

// WithBufferSize sets the buffer size for subscriber channels. Default is
// 100; larger buffers absorb burstier streams.
func WithBufferSize(size int) EmitterOption {
	return func(e *ChannelEmitter) {
		e.bufferSize = size
	}
}

// NewChannelEmitter creates a new ChannelEmitter with optional configuration.
func NewChannelEmitter(opts ...EmitterOption) *ChannelEmitter {
	emitter := &ChannelEmitter{
		subscribers: make(map[string]chan ExecutionEvent),
		bufferSize:  100,
	}
	for _, opt := range opts {
		opt(emitter)
	}
	return emitter
}

// Emit publishes an event to all subscribers. A subscriber whose channel
// is full misses the event; one slow consumer never blocks the rest.
func (e *ChannelEmitter) Emit(ctx context.Context, event ExecutionEvent) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return types.NewError(types.EVENT_EMITTER_CLOSED, "event emitter is closed")
	}

	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

// Subscribe creates a new subscription. The returned cleanup function must
// be called to unsubscribe and prevent leaks.
func (e *ChannelEmitter) Subscribe(ctx context.Context) (<-chan ExecutionEvent, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subscriberID := types.NewID().String()
	ch := make(chan ExecutionEvent, e.bufferSize)
	e.subscribers[subscriberID] = ch

	cleanup := func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if subCh, exists := e.subscribers[subscriberID]; exists {
			delete(e.subscribers, subscriberID)
			close(subCh)
		}
	}
	return ch, cleanup
}

// Close shuts down the emitter and closes all subscriber channels.
func (e *ChannelEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}
	return nil
}

// SubscriberCount returns the current number of active subscribers.
func (e *ChannelEmitter) SubscriberCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers)
}

// Ensure ChannelEmitter implements EventEmitter at compile time
var _ EventEmitter = (*ChannelEmitter)(nil)
