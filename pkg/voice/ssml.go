package voice

import (
	"fmt"
	"math"
	"strings"
)

// Synthesis is the passthrough payload attached to generated replies. For the
// browser provider the client synthesizes locally from SSML + settings; for
// external providers AudioURL stays null until an actual TTS backend is wired.
type Synthesis struct {
	Provider string   `json:"provider"`
	Text     string   `json:"text"`
	Settings Settings `json:"settings"`
	SSML     string   `json:"ssml"`
	AudioURL *string  `json:"audioUrl,omitempty"`
}

// Synthesize builds the voice payload for a piece of reply text.
func Synthesize(text string, s Settings) *Synthesis {
	return &Synthesis{
		Provider: s.Provider,
		Text:     text,
		Settings: s,
		SSML:     SSML(text, s),
	}
}

var ssmlEmphasis = strings.NewReplacer(
	"Revolt Motors", `<emphasis level="strong">Revolt Motors</emphasis>`,
	"RV400", `<emphasis level="moderate">RV400</emphasis>`,
	"RV320", `<emphasis level="moderate">RV320</emphasis>`,
)

var ssmlBreaks = strings.NewReplacer(
	".", `.<break time="300ms"/>`,
	"?", `?<break time="500ms"/>`,
	"!", `!<break time="400ms"/>`,
)

// SSML renders a prosody-wrapped markup string for the configured voice.
// Pitch is expressed as a signed percentage offset from neutral, volume as a
// plain percentage.
func SSML(text string, s Settings) string {
	pitchPct := int(math.Round((s.Pitch - 1) * 50))
	sign := ""
	if s.Pitch > 1 {
		sign = "+"
	}
	var b strings.Builder
	b.WriteString("<speak>")
	fmt.Fprintf(&b, `<prosody rate="%g" pitch="%s%d%%" volume="%d%%">`,
		s.Speed, sign, pitchPct, int(math.Round(s.Volume*100)))
	b.WriteString(ssmlBreaks.Replace(ssmlEmphasis.Replace(text)))
	b.WriteString("</prosody>")
	b.WriteString("</speak>")
	return b.String()
}
