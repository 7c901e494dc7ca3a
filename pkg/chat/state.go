package chat

import (
	"sync"
	"time"

	"github.com/go-go-golems/revchat/pkg/voice"
)

// Settings are the per-connection response preferences layered on top of the
// session: reply tone, nudge enablement and the voice passthrough config.
type Settings struct {
	Personality   string         `json:"personality"`
	AutoResponses bool           `json:"autoResponses"`
	Voice         voice.Settings `json:"voiceSettings"`
}

// DefaultSettings returns the settings a fresh connection starts with.
func DefaultSettings() Settings {
	return Settings{
		Personality:   "enthusiastic",
		AutoResponses: true,
		Voice:         voice.DefaultSettings(),
	}
}

// State bundles a user's session and settings for one connection. The
// connection's message loop is the only writer of the session, processing one
// inbound message to completion at a time; the lock exists because REST
// handlers and nudge timers read (and, for voice, write) concurrently.
type State struct {
	mu       sync.RWMutex
	session  *Session
	settings Settings
}

// NewState creates connection state with a fresh session and default settings.
func NewState(userID string) *State {
	return &State{
		session:  NewSession(userID),
		settings: DefaultSettings(),
	}
}

// UserID returns the session's user identifier.
func (st *State) UserID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session.UserID
}

// Reset replaces the session with a fresh one, discarding all prior state.
// Settings survive the reset.
func (st *State) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session = NewSession(st.session.UserID)
}

// AddMessage appends to the session history.
func (st *State) AddMessage(role, content string, metadata map[string]string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.AddMessage(role, content, metadata)
}

// UpdateIntent records the detected intent on the profile.
func (st *State) UpdateIntent(intent Intent) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.UpdateIntent(intent)
}

// SetLocation records an extracted location.
func (st *State) SetLocation(location string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.SetLocation(location)
}

// AddInterest records an extracted interest term (idempotent).
func (st *State) AddInterest(term string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.AddInterest(term)
}

// ContextPrompt renders the provider prompt from current session state.
func (st *State) ContextPrompt(persona string, now time.Time) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session.ContextPrompt(persona, now)
}

// InteractionCount reports how many messages the session has recorded.
func (st *State) InteractionCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session.Profile.InteractionCount
}

// Analytics returns the session's reporting snapshot.
func (st *State) Analytics(now time.Time) Analytics {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.session.Snapshot(now)
}

// SettingsSnapshot returns a copy of the current settings.
func (st *State) SettingsSnapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

// Personality returns the configured reply tone.
func (st *State) Personality() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.Personality
}

// AutoResponses reports whether proactive nudges are enabled.
func (st *State) AutoResponses() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings.AutoResponses
}

// SetAutoResponses flips the nudge-enable flag.
func (st *State) SetAutoResponses(enabled bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings.AutoResponses = enabled
}

// SetPersonality switches the reply tone and applies the matching voice
// preset when one exists. It returns the resulting settings.
func (st *State) SetPersonality(personality string) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings.Personality = personality
	if preset, ok := voice.PresetFor(personality); ok {
		st.settings.Voice.ApplyPreset(preset)
	}
	return st.settings
}

// ApplyVoiceUpdate merges a clamped partial update into the voice settings
// and returns the result.
func (st *State) ApplyVoiceUpdate(u voice.Update) voice.Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings.Voice.Apply(u)
	return st.settings.Voice
}
