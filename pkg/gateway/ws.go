package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/revchat/pkg/chat"
	"github.com/go-go-golems/revchat/pkg/voice"
)

// defaultVoiceTestText is spoken when a test_voice request carries no text.
const defaultVoiceTestText = "Hello! This is Rev, your AI assistant from Revolt Motors. How do I sound?"

// inboundEvent is the envelope clients send over the websocket. Data is
// decoded per event type.
type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WSHandler upgrades connections and runs the per-connection message loop.
type WSHandler struct {
	registry *Registry
	orch     *chat.Orchestrator
	upgrader websocket.Upgrader
}

// NewWSHandler wires the websocket endpoint to the registry and orchestrator.
func NewWSHandler(registry *Registry, orch *chat.Orchestrator) *WSHandler {
	return &WSHandler{
		registry: registry,
		orch:     orch,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = "user_" + uuid.NewString()
	}

	st, err := h.registry.Register(userID, conn)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("session registration failed")
		_ = conn.WriteJSON(chat.Event{Type: chat.EventInitializationError, Message: "failed to initialize session"})
		_ = conn.Close()
		return
	}

	h.runLoop(r.Context(), userID, st, conn)
}

// runLoop is the single logical worker for one connection: every inbound
// message is processed to completion before the next one is read, which is
// what keeps session mutation race-free without extra synchronization.
func (h *WSHandler) runLoop(ctx context.Context, userID string, st *chat.State, conn *websocket.Conn) {
	defer h.registry.Release(userID, st)

	settings := st.SettingsSnapshot()
	h.send(ctx, userID, chat.Event{
		Type: chat.EventSessionReady,
		Data: map[string]any{
			"userId":          userID,
			"capabilities":    []string{"text", "context_awareness", "auto_responses", "intent_detection", "voice_synthesis"},
			"availableVoices": voice.AvailableVoices(),
			"currentVoice":    settings.Voice,
		},
	})
	h.orch.Welcome(ctx, userID, st)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Str("user_id", userID).Msg("websocket closed")
			return
		}
		h.dispatch(ctx, userID, st, raw)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, userID string, st *chat.State, raw []byte) {
	var ev inboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("malformed inbound event")
		h.send(ctx, userID, chat.ErrorEvent("Failed to process message"))
		return
	}

	switch ev.Type {
	case "text_input":
		if input, ok := decodeString(ev.Data); ok {
			h.orch.Handle(ctx, userID, st, input, "text")
		}

	case "voice_input":
		if input, ok := decodeString(ev.Data); ok {
			h.orch.Handle(ctx, userID, st, input, "voice")
		}

	case "set_personality":
		personality, ok := decodeString(ev.Data)
		if !ok {
			return
		}
		settings := st.SetPersonality(personality)
		h.send(ctx, userID, chat.Event{
			Type: chat.EventPersonalityUpdated,
			Data: map[string]any{
				"personality":   settings.Personality,
				"voiceSettings": settings.Voice,
			},
		})

	case "change_voice":
		var u voice.Update
		if err := json.Unmarshal(ev.Data, &u); err != nil {
			h.send(ctx, userID, chat.ErrorEvent("Failed to change voice settings"))
			return
		}
		applied := st.ApplyVoiceUpdate(u)
		h.send(ctx, userID, voiceChangedEvent(applied))

	case "test_voice":
		var body struct {
			TestText string `json:"testText"`
		}
		if len(ev.Data) > 0 {
			_ = json.Unmarshal(ev.Data, &body)
		}
		text := body.TestText
		if text == "" {
			text = defaultVoiceTestText
		}
		settings := st.SettingsSnapshot().Voice
		h.send(ctx, userID, chat.Event{
			Type: chat.EventVoiceTest,
			Data: map[string]any{
				"text":      text,
				"voiceData": voice.Synthesize(text, settings),
				"settings":  settings,
			},
		})

	case "get_available_voices":
		h.send(ctx, userID, chat.Event{Type: chat.EventAvailableVoices, Data: voice.AvailableVoices()})

	case "toggle_auto_responses":
		var enabled bool
		if err := json.Unmarshal(ev.Data, &enabled); err != nil {
			return
		}
		st.SetAutoResponses(enabled)
		h.send(ctx, userID, chat.Event{Type: chat.EventAutoResponsesToggle, Data: enabled})

	case "get_analytics":
		a := st.Analytics(time.Now())
		a.ContextTokens = h.orch.ContextTokens(st)
		h.send(ctx, userID, chat.Event{Type: chat.EventAnalyticsData, Data: a})

	case "clear_session":
		st.Reset()
		h.send(ctx, userID, chat.Event{Type: chat.EventSessionCleared})

	default:
		log.Debug().Str("user_id", userID).Str("type", ev.Type).Msg("unknown inbound event type ignored")
	}
}

func (h *WSHandler) send(ctx context.Context, userID string, ev chat.Event) {
	if err := h.registry.Publish(ctx, userID, ev); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Str("event", ev.Type).Msg("event dropped")
	}
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// voiceChangedEvent builds the confirmation payload after a settings merge.
func voiceChangedEvent(s voice.Settings) chat.Event {
	voiceName := s.Voice
	if voiceName == "" {
		voiceName = "default"
	}
	return chat.Event{
		Type: chat.EventVoiceChanged,
		Data: map[string]any{
			"voiceSettings":   s,
			"availableVoices": voice.VoicesForProvider(s.Provider),
			"message":         "Voice changed to " + voiceName + " (" + s.Gender + ")",
		},
	}
}
