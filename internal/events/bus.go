// Package events is the engine's concurrency glue: a lightweight,
// in-process publish/subscribe bus the manager's tick loop uses to
// announce lifecycle transitions (admitted, started, completed,
// retried, replaced, resubmitted) without coupling itself to whoever
// is listening — the audit store, a CLI watch command, a future HTTP
// surface.
//
// Built on watermill's GoChannel pub/sub, the same component the
// streaming instance manager used for its internal event fan-out.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic names the lifecycle events the manager publishes.
type Topic string

const (
	TopicAdmitted   Topic = "task.admitted"
	TopicStarted    Topic = "task.started"
	TopicCompleted  Topic = "task.completed"
	TopicRetried    Topic = "task.retried"
	TopicReplaced   Topic = "task.replaced"
	TopicResubmitted Topic = "task.resubmitted"
	TopicNodeState  Topic = "node.state_changed"
)

// Lifecycle is the JSON envelope published on every topic above.
type Lifecycle struct {
	NodeID    int       `json:"node_id"`
	TaskName  string    `json:"task_name"`
	Attempt   int       `json:"attempt,omitempty"`
	ExitCode  int       `json:"exit_code,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus owns the pub/sub backend and the router that dispatches to
// registered handlers. Callers subscribe before calling Run; Run
// blocks until ctx is canceled, so it's meant to be started on its own
// goroutine alongside the manager's tick loop.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter
}

// New creates a Bus with a non-persistent, non-blocking GoChannel —
// lifecycle events are a best-effort notification mechanism, not a
// durable log (that's the audit store's job).
func New(debug bool) (*Bus, error) {
	logger := watermill.NewStdLogger(debug, false)
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("events: creating router: %w", err)
	}

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// Handle registers name as a handler for topic; handlers run
// concurrently with the publisher and with each other, matching
// watermill's router semantics.
func (b *Bus) Handle(name string, topic Topic, fn func(Lifecycle) error) {
	b.router.AddNoPublisherHandler(name, string(topic), b.pubsub, func(msg *message.Message) error {
		var lc Lifecycle
		if err := json.Unmarshal(msg.Payload, &lc); err != nil {
			return fmt.Errorf("events: decoding %s payload: %w", topic, err)
		}
		return fn(lc)
	})
}

// Publish announces lc on topic. Publishing never blocks on
// subscribers (BlockPublishUntilSubscriberAck is false), so a slow or
// absent listener can never stall the tick loop that calls this.
func (b *Bus) Publish(topic Topic, lc Lifecycle) error {
	payload, err := json.Marshal(lc)
	if err != nil {
		return fmt.Errorf("events: encoding %s payload: %w", topic, err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("topic", string(topic))
	msg.Metadata.Set("task_name", lc.TaskName)
	return b.pubsub.Publish(string(topic), msg)
}

// Run starts the router and blocks until ctx is canceled or the
// router is closed.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Close shuts down the router and the underlying pub/sub.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	return b.pubsub.Close()
}
