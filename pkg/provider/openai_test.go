package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream serves a minimal OpenAI-compatible chat completions endpoint.
func fakeUpstream(t *testing.T, reply string, status int, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		if status != http.StatusOK {
			http.Error(w, "upstream failure", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": reply},
				},
			},
		})
	}))
}

func TestOpenAI_Classify(t *testing.T) {
	srv := fakeUpstream(t, "  Purchase\n", http.StatusOK, 0)
	defer srv.Close()

	p := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	out, err := p.Classify(context.Background(), "I want to buy an RV400")
	require.NoError(t, err)
	assert.Equal(t, "Purchase", out)
}

func TestOpenAI_GenerateUpstreamFailure(t *testing.T) {
	srv := fakeUpstream(t, "", http.StatusTooManyRequests, 0)
	defer srv.Close()

	p := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL + "/v1"})
	_, err := p.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestOpenAI_TimeoutIsProviderError(t *testing.T) {
	srv := fakeUpstream(t, "slow", http.StatusOK, 200*time.Millisecond)
	defer srv.Close()

	p := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Timeout: 20 * time.Millisecond})
	_, err := p.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestStub_Scripted(t *testing.T) {
	s := &Stub{ClassifyReplies: []string{"technical", "service"}, GenerateReplies: []string{"a", "b"}}

	out, err := s.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "technical", out)

	out, _ = s.Classify(context.Background(), "y")
	assert.Equal(t, "service", out)
	out, _ = s.Classify(context.Background(), "z")
	assert.Equal(t, "service", out) // last entry repeats

	r1, _ := s.Generate(context.Background(), "p1")
	r2, _ := s.Generate(context.Background(), "p2")
	assert.Equal(t, []string{"a", "b"}, []string{r1, r2})
	assert.Len(t, s.GenerateCalls, 2)
}
