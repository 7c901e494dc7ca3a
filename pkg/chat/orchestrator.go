package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/revchat/pkg/provider"
	"github.com/go-go-golems/revchat/pkg/voice"
)

const (
	defaultNudgeCheckDelay = 2 * time.Second
	defaultNudgeSendDelay  = 5 * time.Second
)

// Orchestrator runs the per-message handling sequence: classify, extract,
// record, generate, publish, nudge. It holds no per-user state; everything
// user-specific lives in the State passed to each call, so a single
// orchestrator is shared by all sessions.
type Orchestrator struct {
	provider provider.Provider
	pub      Publisher
	persona  string
	tokens   *TokenCounter

	nudgeCheckDelay time.Duration
	nudgeSendDelay  time.Duration
	now             func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithPersona overrides the static persona preamble.
func WithPersona(persona string) Option {
	return func(o *Orchestrator) { o.persona = persona }
}

// WithNudgeDelays overrides the proactive nudge check/send delays.
func WithNudgeDelays(check, send time.Duration) Option {
	return func(o *Orchestrator) {
		o.nudgeCheckDelay = check
		o.nudgeSendDelay = send
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the orchestrator to its provider and publisher.
func NewOrchestrator(p provider.Provider, pub Publisher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:        p,
		pub:             pub,
		persona:         DefaultPersona,
		tokens:          NewTokenCounter(),
		nudgeCheckDelay: defaultNudgeCheckDelay,
		nudgeSendDelay:  defaultNudgeSendDelay,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ResponsePayload is the data of an ai_response event.
type ResponsePayload struct {
	Text        string           `json:"text"`
	Intent      Intent           `json:"intent"`
	Suggestions []string         `json:"suggestions"`
	VoiceData   *voice.Synthesis `json:"voiceData,omitempty"`
	Metadata    ResponseMeta     `json:"metadata"`
}

// ResponseMeta carries reply bookkeeping shown to the client.
type ResponseMeta struct {
	ResponseTime  time.Time      `json:"responseTime"`
	Confidence    float64        `json:"confidence"`
	Personality   string         `json:"personality"`
	VoiceSettings voice.Settings `json:"voiceSettings"`
}

// Handle processes one inbound user message end to end. It must not be
// invoked concurrently for the same state; the gateway guarantees this by
// dispatching from a single per-connection loop. Mutations applied before a
// mid-sequence failure are deliberately not rolled back.
func (o *Orchestrator) Handle(ctx context.Context, userID string, st *State, input, inputType string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("user_id", userID).Msg("message handling panicked")
			o.publish(ctx, userID, ErrorEvent(processingErrorMessage))
		}
	}()

	intent := o.classify(ctx, input)
	st.UpdateIntent(intent)

	o.extractPreferences(st, input)

	st.AddMessage("user", input, map[string]string{"type": inputType, "intent": string(intent)})

	personality := st.Personality()
	reply := o.generateReply(ctx, st, input, personality)

	st.AddMessage("assistant", reply, map[string]string{"type": "generated_response", "personality": personality})

	settings := st.SettingsSnapshot()
	o.publish(ctx, userID, Event{
		Type: EventAIResponse,
		Data: ResponsePayload{
			Text:        reply,
			Intent:      intent,
			Suggestions: SuggestionsFor(intent),
			VoiceData:   voice.Synthesize(reply, settings.Voice),
			Metadata: ResponseMeta{
				ResponseTime:  o.now(),
				Confidence:    0.95,
				Personality:   personality,
				VoiceSettings: settings.Voice,
			},
		},
	})

	o.scheduleNudge(userID, st, intent)
}

// classify delegates intent detection to the provider and normalizes the
// result into the closed intent set. Any failure degrades to general.
func (o *Orchestrator) classify(ctx context.Context, input string) Intent {
	raw, err := o.provider.Classify(ctx, input)
	if err != nil {
		log.Warn().Err(err).Msg("intent classification failed, defaulting to general")
		return IntentGeneral
	}
	return ParseIntent(raw)
}

// extractPreferences is best-effort: it records keyword interests and a
// mentioned location, and never aborts the handling sequence.
func (o *Orchestrator) extractPreferences(st *State, input string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("preference extraction failed")
		}
	}()
	for _, term := range ExtractInterests(input) {
		st.AddInterest(term)
	}
	if loc, ok := ExtractLocation(input); ok {
		st.SetLocation(loc)
	}
}

func (o *Orchestrator) generateReply(ctx context.Context, st *State, input, personality string) string {
	contextPrompt := st.ContextPrompt(o.persona, o.now())
	prompt := responsePrompt(contextPrompt, input, personality)
	log.Debug().
		Str("user_id", st.UserID()).
		Int("prompt_tokens", o.tokens.Count(prompt)).
		Msg("assembled generation prompt")

	reply, err := o.provider.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("user_id", st.UserID()).Msg("reply generation failed, sending apology")
		return apologyReply
	}
	return reply
}

// scheduleNudge arms the two-stage proactive follow-up: a check after the
// first delay, then the actual canned tip after the second. Both stages
// re-check the auto-response flag; a send after disconnect is dropped by the
// publisher.
func (o *Orchestrator) scheduleNudge(userID string, st *State, intent Intent) {
	time.AfterFunc(o.nudgeCheckDelay, func() {
		if !st.AutoResponses() {
			return
		}
		tip, ok := proactiveTips[intent]
		if !ok {
			return
		}
		time.AfterFunc(o.nudgeSendDelay, func() {
			if !st.AutoResponses() {
				return
			}
			o.publish(context.Background(), userID, Event{Type: EventProactiveMessage, Data: tip})
		})
	})
}

// Welcome generates the greeting for a newly attached connection and
// publishes it as auto_welcome. Failures are logged only.
func (o *Orchestrator) Welcome(ctx context.Context, userID string, st *State) {
	prompt := welcomePrompt(st.ContextPrompt(o.persona, o.now()))
	reply, err := o.provider.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("welcome generation failed")
		if st.InteractionCount() > 0 {
			reply = returningUserWelcome
		} else {
			reply = newUserWelcome
		}
	}
	o.publish(ctx, userID, Event{Type: EventAutoWelcome, Data: reply})
}

// ContextTokens reports the token size of the session's current context
// prompt, for analytics.
func (o *Orchestrator) ContextTokens(st *State) int {
	return o.tokens.Count(st.ContextPrompt(o.persona, o.now()))
}

// OneShotResult is the stateless REST generation response.
type OneShotResult struct {
	Response    string    `json:"response"`
	Intent      Intent    `json:"intent"`
	Suggestions []string  `json:"suggestions"`
	Timestamp   time.Time `json:"timestamp"`
}

// OneShot classifies and answers a single message against a temporary
// session, optionally seeded with caller-supplied profile context. Nothing is
// registered or published.
func (o *Orchestrator) OneShot(ctx context.Context, userID, input string, seed *Profile) OneShotResult {
	if userID == "" {
		userID = "api_user"
	}
	st := NewState(userID)
	if seed != nil {
		if seed.Intent != "" {
			st.UpdateIntent(ParseIntent(string(seed.Intent)))
		}
		if seed.Location != "" {
			st.SetLocation(seed.Location)
		}
		for _, term := range seed.Interests {
			st.AddInterest(term)
		}
	}

	intent := o.classify(ctx, input)
	st.UpdateIntent(intent)
	o.extractPreferences(st, input)
	st.AddMessage("user", input, map[string]string{"type": "api", "intent": string(intent)})

	reply := o.generateReply(ctx, st, input, st.Personality())

	return OneShotResult{
		Response:    reply,
		Intent:      intent,
		Suggestions: SuggestionsFor(intent),
		Timestamp:   o.now(),
	}
}

func (o *Orchestrator) publish(ctx context.Context, userID string, ev Event) {
	if err := o.pub.Publish(ctx, userID, ev); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Str("event", ev.Type).Msg("event dropped")
	}
}
