package pubsub

import (
	"context"
	"encoding/json"
	"errors"
)

// TopicGraphStatus carries graph load and reload notifications.
const TopicGraphStatus = "graph_status"

// Graph status event types.
const (
	StatusLoading = "loading"
	StatusReady   = "ready"
	StatusError   = "error"
)

// ErrClosed is returned when publishing to or subscribing on a closed publisher.
var ErrClosed = errors.New("publisher is closed")

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "graph_status")
	Type    string          `json:"type"`    // Event type (e.g., "loading", "ready", "error", "step")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// GraphStatus describes the graph currently being served.
type GraphStatus struct {
	State   string `json:"state"`   // loading, ready, error
	Message string `json:"message"` // Human-readable status message
	Name    string `json:"name,omitempty"`
	Path    string `json:"path,omitempty"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Start   string `json:"initial_state,omitempty"`
	Goal    string `json:"goal_state,omitempty"`
	Reload  int    `json:"reload"` // 0 for the initial load
}
