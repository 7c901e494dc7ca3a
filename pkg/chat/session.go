package chat

import (
	"fmt"
	"strings"
	"time"
)

const (
	// maxHistory bounds the retained conversation; oldest entries are evicted
	// on every append so len(History) <= maxHistory always holds.
	maxHistory = 50
	// recentWindow is how many trailing history entries feed the context prompt.
	recentWindow = 5
	// contentPreview truncates each history entry inside the context prompt.
	contentPreview = 200
)

// Message is one conversation history entry.
type Message struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Profile is the state derived from a user's messages over a session.
type Profile struct {
	Intent           Intent    `json:"intent,omitempty"`
	Location         string    `json:"location,omitempty"`
	Interests        []string  `json:"interests"`
	InteractionCount int       `json:"interactionCount"`
	SessionStart     time.Time `json:"sessionStart"`
}

// Session is the per-user conversational state container. It is memory
// resident only and is exclusively owned by the connection handling the user;
// Session itself carries no locking.
type Session struct {
	UserID  string
	History []Message
	Profile Profile
}

// NewSession creates an empty session for a user.
func NewSession(userID string) *Session {
	return &Session{
		UserID:  userID,
		Profile: Profile{SessionStart: time.Now()},
	}
}

// AddMessage appends a history entry, bumps the interaction counter and
// enforces the retention cap by dropping the oldest surplus entries.
func (s *Session) AddMessage(role, content string, metadata map[string]string) {
	s.History = append(s.History, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	s.Profile.InteractionCount++
	if n := len(s.History); n > maxHistory {
		s.History = append(s.History[:0], s.History[n-maxHistory:]...)
	}
}

// UpdateIntent records the latest detected intent.
func (s *Session) UpdateIntent(intent Intent) {
	s.Profile.Intent = intent
}

// SetLocation records the user's mentioned location.
func (s *Session) SetLocation(location string) {
	s.Profile.Location = location
}

// AddInterest records an interest term once; repeats keep the original
// insertion position.
func (s *Session) AddInterest(term string) {
	for _, t := range s.Profile.Interests {
		if t == term {
			return
		}
	}
	s.Profile.Interests = append(s.Profile.Interests, term)
}

// ContextPrompt assembles the single prompt string sent to the provider:
// persona preamble, session context block and the recent conversation window.
// This is the only place history is allowed to influence a model call.
func (s *Session) ContextPrompt(persona string, now time.Time) string {
	var b strings.Builder
	b.WriteString(persona)

	if len(s.History) == 0 {
		return b.String()
	}

	elapsed := int(now.Sub(s.Profile.SessionStart).Round(time.Minute) / time.Minute)
	b.WriteString("\n\nCONVERSATION CONTEXT:")
	fmt.Fprintf(&b, "\n- User has had %d interactions", s.Profile.InteractionCount)
	fmt.Fprintf(&b, "\n- Current session duration: %d minutes", elapsed)
	if s.Profile.Intent != "" {
		fmt.Fprintf(&b, "\n- Detected user intent: %s", s.Profile.Intent)
	}
	if s.Profile.Location != "" {
		fmt.Fprintf(&b, "\n- User location: %s", s.Profile.Location)
	}
	if len(s.Profile.Interests) > 0 {
		fmt.Fprintf(&b, "\n- User interests: %s", strings.Join(s.Profile.Interests, ", "))
	}

	b.WriteString("\n\nRECENT CONVERSATION:")
	start := len(s.History) - recentWindow
	if start < 0 {
		start = 0
	}
	for _, m := range s.History[start:] {
		content := m.Content
		if len(content) > contentPreview {
			content = content[:contentPreview]
		}
		fmt.Fprintf(&b, "\n%s: %s", m.Role, content)
	}
	return b.String()
}

// Analytics is the read-only reporting snapshot of a session.
type Analytics struct {
	UserID          string   `json:"userId"`
	SessionDuration int      `json:"sessionDuration"` // minutes
	MessageCount    int      `json:"messageCount"`
	DetectedIntents []Intent `json:"detectedIntents"`
	UserInterests   []string `json:"userInterests"`
	Location        string   `json:"location,omitempty"`
	ContextTokens   int      `json:"contextTokens,omitempty"`
}

// Snapshot produces the analytics view of the session. Detected intents are
// the unique intent labels seen in history metadata, in first-seen order.
func (s *Session) Snapshot(now time.Time) Analytics {
	seen := map[Intent]struct{}{}
	var intents []Intent
	for _, m := range s.History {
		raw, ok := m.Metadata["intent"]
		if !ok || raw == "" {
			continue
		}
		i := Intent(raw)
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		intents = append(intents, i)
	}
	interests := make([]string, len(s.Profile.Interests))
	copy(interests, s.Profile.Interests)
	return Analytics{
		UserID:          s.UserID,
		SessionDuration: int(now.Sub(s.Profile.SessionStart).Round(time.Minute) / time.Minute),
		MessageCount:    s.Profile.InteractionCount,
		DetectedIntents: intents,
		UserInterests:   interests,
		Location:        s.Profile.Location,
	}
}
