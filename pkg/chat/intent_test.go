package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent_ClosedSet(t *testing.T) {
	cases := map[string]Intent{
		"purchase":      IntentPurchase,
		"  Purchase\n":  IntentPurchase,
		"SERVICE":       IntentService,
		"information":   IntentInformation,
		"Comparison":    IntentComparison,
		"complaint":     IntentComplaint,
		"general":       IntentGeneral,
		"TECHNICAL":     IntentTechnical,
		"financing":     IntentFinancing,
		"booking":       IntentBooking,
		"":              IntentGeneral,
		"buy":           IntentGeneral,
		"purchase now!": IntentGeneral,
		"🤖":             IntentGeneral,
		"null":          IntentGeneral,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseIntent(raw), "input %q", raw)
	}
}

func TestParseIntent_AlwaysInEnum(t *testing.T) {
	inputs := []string{"", "x", "Purchase.", "intent: service", "\t\n", "генерал", "generalgeneral"}
	for _, in := range inputs {
		got := ParseIntent(in)
		_, ok := validIntents[got]
		assert.True(t, ok, "ParseIntent(%q) = %q not in enum", in, got)
	}
}

func TestSuggestionsFor_FallbackToGeneral(t *testing.T) {
	assert.Equal(t, suggestionTable[IntentPurchase], SuggestionsFor(IntentPurchase))
	// intents without a dedicated list get the general one
	assert.Equal(t, suggestionTable[IntentGeneral], SuggestionsFor(IntentComplaint))
	assert.Equal(t, suggestionTable[IntentGeneral], SuggestionsFor(IntentBooking))
	assert.Equal(t, suggestionTable[IntentGeneral], SuggestionsFor(Intent("unknown")))
}
