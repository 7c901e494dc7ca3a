package gateway

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/revchat/pkg/chat"
	"github.com/go-go-golems/revchat/pkg/provider"
)

type wsEvent struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newWSTestServer(t *testing.T, stub *provider.Stub) (*httptest.Server, *Registry) {
	t.Helper()
	bus := NewBus()
	t.Cleanup(func() { _ = bus.Close() })
	registry := NewRegistry(bus)
	orch := chat.NewOrchestrator(stub, registry,
		chat.WithNudgeDelays(5*time.Millisecond, 5*time.Millisecond))

	r := chi.NewRouter()
	r.Handle("/ws", NewWSHandler(registry, orch))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, registry
}

func dialWS(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev wsEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func sendEvent(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	payload := map[string]any{"type": typ}
	if data != nil {
		payload["data"] = data
	}
	require.NoError(t, conn.WriteJSON(payload))
}

func TestWS_SessionLifecycle(t *testing.T) {
	stub := &provider.Stub{
		ClassifyReplies: []string{"information"},
		GenerateReplies: []string{"Welcome aboard!", "The RV400 has a 150 km range."},
	}
	srv, registry := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	ready := readEvent(t, conn)
	assert.Equal(t, chat.EventSessionReady, ready.Type)
	var readyData struct {
		UserID       string   `json:"userId"`
		Capabilities []string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(ready.Data, &readyData))
	assert.Equal(t, "u1", readyData.UserID)
	assert.Contains(t, readyData.Capabilities, "intent_detection")

	welcome := readEvent(t, conn)
	assert.Equal(t, chat.EventAutoWelcome, welcome.Type)

	sendEvent(t, conn, "text_input", "what's the range?")
	reply := readEvent(t, conn)
	require.Equal(t, chat.EventAIResponse, reply.Type)
	var payload struct {
		Text        string   `json:"text"`
		Intent      string   `json:"intent"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(reply.Data, &payload))
	assert.Equal(t, "The RV400 has a 150 km range.", payload.Text)
	assert.Equal(t, "information", payload.Intent)
	assert.NotEmpty(t, payload.Suggestions)

	assert.Equal(t, 1, registry.Len())
}

func TestWS_ClearSessionResetsAnalytics(t *testing.T) {
	stub := &provider.Stub{
		ClassifyReplies: []string{"information"},
		GenerateReplies: []string{"hello!", "sure thing"},
	}
	srv, _ := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	readEvent(t, conn) // session_ready
	readEvent(t, conn) // auto_welcome

	sendEvent(t, conn, "text_input", "tell me about the app")
	readEvent(t, conn) // ai_response

	sendEvent(t, conn, "clear_session", nil)
	cleared := readEvent(t, conn)
	assert.Equal(t, chat.EventSessionCleared, cleared.Type)

	sendEvent(t, conn, "get_analytics", nil)
	analytics := readEvent(t, conn)
	require.Equal(t, chat.EventAnalyticsData, analytics.Type)
	var a chat.Analytics
	require.NoError(t, json.Unmarshal(analytics.Data, &a))
	assert.Equal(t, 0, a.MessageCount)
	assert.Empty(t, a.UserInterests)
}

func TestWS_VoiceAndPersonalityEvents(t *testing.T) {
	stub := &provider.Stub{GenerateReplies: []string{"hi"}}
	srv, _ := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	readEvent(t, conn) // session_ready
	readEvent(t, conn) // auto_welcome

	sendEvent(t, conn, "set_personality", "technical")
	ev := readEvent(t, conn)
	require.Equal(t, chat.EventPersonalityUpdated, ev.Type)
	var pd struct {
		Personality   string `json:"personality"`
		VoiceSettings struct {
			Speed float64 `json:"speed"`
		} `json:"voiceSettings"`
	}
	require.NoError(t, json.Unmarshal(ev.Data, &pd))
	assert.Equal(t, "technical", pd.Personality)
	assert.Equal(t, 0.9, pd.VoiceSettings.Speed)

	sendEvent(t, conn, "change_voice", map[string]any{"speed": 10})
	ev = readEvent(t, conn)
	require.Equal(t, chat.EventVoiceChanged, ev.Type)
	var vd struct {
		VoiceSettings struct {
			Speed float64 `json:"speed"`
		} `json:"voiceSettings"`
	}
	require.NoError(t, json.Unmarshal(ev.Data, &vd))
	assert.Equal(t, 4.0, vd.VoiceSettings.Speed)

	sendEvent(t, conn, "test_voice", map[string]any{"testText": "check one two"})
	ev = readEvent(t, conn)
	require.Equal(t, chat.EventVoiceTest, ev.Type)

	sendEvent(t, conn, "get_available_voices", nil)
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventAvailableVoices, ev.Type)

	sendEvent(t, conn, "toggle_auto_responses", false)
	ev = readEvent(t, conn)
	assert.Equal(t, chat.EventAutoResponsesToggle, ev.Type)
}

func TestWS_UnknownEventTypeIgnored(t *testing.T) {
	stub := &provider.Stub{GenerateReplies: []string{"hi"}}
	srv, _ := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	readEvent(t, conn) // session_ready
	readEvent(t, conn) // auto_welcome

	sendEvent(t, conn, "do_a_barrel_roll", "now")
	// ignored; a follow-up request still works
	sendEvent(t, conn, "get_available_voices", nil)
	ev := readEvent(t, conn)
	assert.Equal(t, chat.EventAvailableVoices, ev.Type)
}

func TestWS_DisconnectUnregisters(t *testing.T) {
	stub := &provider.Stub{GenerateReplies: []string{"hi"}}
	srv, registry := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	readEvent(t, conn) // session_ready
	readEvent(t, conn) // auto_welcome
	require.Equal(t, 1, registry.Len())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return registry.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWS_ProactiveNudgeFollowsReply(t *testing.T) {
	stub := &provider.Stub{
		ClassifyReplies: []string{"purchase"},
		GenerateReplies: []string{"hi", "the RV400 is a great pick"},
	}
	srv, _ := newWSTestServer(t, stub)
	conn := dialWS(t, srv, "u1")

	readEvent(t, conn) // session_ready
	readEvent(t, conn) // auto_welcome

	sendEvent(t, conn, "text_input", "I want to buy one")
	reply := readEvent(t, conn)
	assert.Equal(t, chat.EventAIResponse, reply.Type)

	nudge := readEvent(t, conn)
	require.Equal(t, chat.EventProactiveMessage, nudge.Type)
	var tip string
	require.NoError(t, json.Unmarshal(nudge.Data, &tip))
	assert.Contains(t, tip, "subscription plans")
}
