package chat

import "context"

// Outbound event types sent over the user's channel.
const (
	EventSessionReady        = "session_ready"
	EventAutoWelcome         = "auto_welcome"
	EventAIResponse          = "ai_response"
	EventProactiveMessage    = "proactive_message"
	EventPersonalityUpdated  = "personality_updated"
	EventVoiceChanged        = "voice_changed"
	EventVoiceTest           = "voice_test"
	EventAvailableVoices     = "available_voices"
	EventAutoResponsesToggle = "auto_responses_toggled"
	EventAnalyticsData       = "analytics_data"
	EventSessionCleared      = "session_cleared"
	EventError               = "error"
	EventInitializationError = "initialization_error"
)

// Event is the outbound envelope serialized to the client connection. Error
// style events carry Message instead of Data.
type Event struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Publisher delivers events to a user's connection. Delivery is best-effort
// and at-most-once: publishing to an unknown or closed connection is a silent
// no-op, and implementations never surface delivery failures to orchestration.
type Publisher interface {
	Publish(ctx context.Context, userID string, ev Event) error
}

// ErrorEvent builds the generic failure event sent when message handling
// breaks down.
func ErrorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}
