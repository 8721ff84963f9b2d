package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before new events are dropped for it.
const subscriberBuffer = 16

// TopicConfig configures a topic
type TopicConfig struct {
	// Retain keeps the latest event and hands it to every new subscriber,
	// so late subscribers start from the current state.
	Retain bool
}

// topic is the per-topic state of an SSEPublisher.
type topic struct {
	config   TopicConfig
	version  int
	retained *Event
	subs     map[*sseSubscription]struct{}
}

// SSEPublisher is an in-process Publisher whose events are written to
// clients as Server-Sent Events.
type SSEPublisher struct {
	mu     sync.Mutex
	topics map[string]*topic
	closed bool
}

// NewSSEPublisher creates a new SSE-based publisher
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{topics: make(map[string]*topic)}
}

// topicLocked returns the state for name, creating it on first use.
func (p *SSEPublisher) topicLocked(name string) *topic {
	t, ok := p.topics[name]
	if !ok {
		t = &topic{subs: make(map[*sseSubscription]struct{})}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets the configuration for a topic. Turning retention off
// forgets the retained event.
func (p *SSEPublisher) ConfigureTopic(name string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.topicLocked(name)
	t.config = config
	if !config.Retain {
		t.retained = nil
	}
}

// Subscribe registers a subscriber on a topic. A retained event, if any,
// is the first event delivered. The subscription ends when ctx is done.
func (p *SSEPublisher) Subscribe(ctx context.Context, name string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	sub := &sseSubscription{
		topic:     name,
		events:    make(chan Event, subscriberBuffer),
		publisher: p,
	}
	t := p.topicLocked(name)
	t.subs[sub] = struct{}{}

	// The channel is empty and buffered, so this send never blocks.
	if t.retained != nil {
		sub.events <- *t.retained
		logging.Debug("replayed retained event", "topic", name, "version", t.retained.Version)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

// Publish marshals data and delivers it to every current subscriber of
// the topic without blocking.
func (p *SSEPublisher) Publish(name string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	t := p.topicLocked(name)
	t.version++
	event := Event{Topic: name, Type: eventType, Data: payload, Version: t.version}
	if t.config.Retain {
		t.retained = &event
	}

	for sub := range t.subs {
		select {
		case sub.events <- event:
		default:
			// Slow subscribers lose events rather than stalling publishers.
			logging.Warn("subscription channel full, dropping event", "topic", name, "type", eventType, "version", event.Version)
		}
	}
	return nil
}

// Close ends every subscription and rejects further use. Calling it again is a no-op.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			close(sub.events)
		}
		t.subs = nil
	}
	return nil
}

// unsubscribe removes sub from its topic. It reports whether sub was still
// registered; after Close nothing is.
func (p *SSEPublisher) unsubscribe(sub *sseSubscription) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.topics[sub.topic]
	if !ok {
		return false
	}
	if _, ok := t.subs[sub]; !ok {
		return false
	}
	delete(t.subs, sub)
	return true
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	once      sync.Once
}

func (s *sseSubscription) Topic() string {
	return s.topic
}

func (s *sseSubscription) Events() <-chan Event {
	return s.events
}

// Close unsubscribes and closes the event channel, unless the publisher
// already closed it.
func (s *sseSubscription) Close() error {
	s.once.Do(func() {
		if s.publisher.unsubscribe(s) {
			close(s.events)
		}
	})
	return nil
}

// WriteSSE writes an event as one SSE frame: "data: {json}\n\n"
func WriteSSE(w io.Writer, event Event) error {
	frame, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", frame)
	return err
}

// NewEvent builds a standalone event outside any publisher, for one-off
// streams that are not fanned out to subscribers.
func NewEvent(topic, eventType string, version int, data interface{}) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{Topic: topic, Type: eventType, Data: payload, Version: version}, nil
}
