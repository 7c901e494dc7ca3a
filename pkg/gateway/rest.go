package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/revchat/pkg/chat"
	"github.com/go-go-golems/revchat/pkg/voice"
)

// API serves the REST surface next to the websocket channel.
type API struct {
	registry *Registry
	orch     *chat.Orchestrator
	started  time.Time
}

// NewAPI builds the REST handler set.
func NewAPI(registry *Registry, orch *chat.Orchestrator) *API {
	return &API{
		registry: registry,
		orch:     orch,
		started:  time.Now(),
	}
}

// Routes mounts all /api endpoints on a fresh chi router.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/change-voice", a.handleChangeVoice)
	r.Get("/voices", a.handleVoices)
	r.Post("/generate-response", a.handleGenerateResponse)
	r.Get("/analytics", a.handleAnalytics)
	r.Get("/user/{userId}/session", a.handleUserSession)
	return r
}

func (a *API) handleChangeVoice(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID      string        `json:"userId"`
		VoiceConfig *voice.Update `json:"voiceConfig"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" || body.VoiceConfig == nil {
		writeError(w, http.StatusBadRequest, "userId and voiceConfig are required")
		return
	}

	st, ok := a.registry.Get(body.UserID)
	if !ok {
		writeError(w, http.StatusNotFound, "User session not found")
		return
	}

	applied := st.ApplyVoiceUpdate(*body.VoiceConfig)
	if err := a.registry.Publish(r.Context(), body.UserID, voiceChangedEvent(applied)); err != nil {
		log.Debug().Err(err).Str("user_id", body.UserID).Msg("voice_changed event dropped")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"voiceSettings": applied,
		"message":       "Voice changed successfully",
	})
}

func (a *API) handleVoices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"availableVoices": voice.AvailableVoices(),
		"providers":       voice.Providers(),
		"defaultSettings": voice.DefaultSettings(),
	})
}

func (a *API) handleGenerateResponse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string        `json:"message"`
		UserID  string        `json:"userId"`
		Context *chat.Profile `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	res := a.orch.OneShot(r.Context(), body.UserID, body.Message, body.Context)
	writeJSON(w, http.StatusOK, res)
}

func (a *API) handleAnalytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"totalConnections": a.registry.Len(),
		"activeUsers":      a.registry.ListActive(),
		"serverUptime":     time.Since(a.started).Seconds(),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleUserSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	st, ok := a.registry.Get(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "User session not found")
		return
	}
	analytics := st.Analytics(time.Now())
	analytics.ContextTokens = a.orch.ContextTokens(st)
	writeJSON(w, http.StatusOK, analytics)
}

// HandleHealth is the liveness endpoint, mounted at the server root.
func (a *API) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"connections": a.registry.Len(),
		"uptime":      time.Since(a.started).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
