package eventbus

import "time"

// Topic represents an event topic.
type Topic string

const (
	TopicUserMessage      Topic = "user_message"
	TopicAssistantMessage Topic = "assistant_message"
	TopicSummaryCreated   Topic = "summary_created"
	TopicSessionSwitched  Topic = "session_switched"
	TopicTurnError        Topic = "turn_error"
	TopicStatusChange     Topic = "status_change"
)

// Event is a message passed through the event bus.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler processes an event.
type Handler func(Event)
