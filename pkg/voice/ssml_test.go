package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSML_ProsodyAndBreaks(t *testing.T) {
	s := DefaultSettings()
	out := SSML("How does the RV400 sound? Great!", s)

	assert.Contains(t, out, `<prosody rate="1" pitch="0%" volume="80%">`)
	assert.Contains(t, out, `<emphasis level="moderate">RV400</emphasis>`)
	assert.Contains(t, out, `?<break time="500ms"/>`)
	assert.Contains(t, out, `!<break time="400ms"/>`)
	assert.True(t, len(out) > len("<speak></speak>"))
}

func TestSSML_PitchSign(t *testing.T) {
	s := DefaultSettings()
	s.Pitch = 1.1
	assert.Contains(t, SSML("hi", s), `pitch="+5%"`)

	s.Pitch = 0.9
	assert.Contains(t, SSML("hi", s), `pitch="-5%"`)
}

func TestSynthesize_BrowserPassthrough(t *testing.T) {
	s := DefaultSettings()
	p := Synthesize("Welcome to Revolt Motors.", s)
	require.NotNil(t, p)
	assert.Equal(t, "browser", p.Provider)
	assert.Equal(t, "Welcome to Revolt Motors.", p.Text)
	assert.Contains(t, p.SSML, `<emphasis level="strong">Revolt Motors</emphasis>`)
	assert.Nil(t, p.AudioURL)
}
