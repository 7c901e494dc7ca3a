package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestApply_ClampsSpeed(t *testing.T) {
	s := DefaultSettings()
	s.Apply(Update{Speed: f64(10)})
	assert.Equal(t, 4.0, s.Speed)

	s.Apply(Update{Speed: f64(0.01)})
	assert.Equal(t, 0.25, s.Speed)
}

func TestApply_ClampsVolumeAndPitch(t *testing.T) {
	s := DefaultSettings()
	s.Apply(Update{Volume: f64(-1)})
	assert.Equal(t, 0.0, s.Volume)

	s.Apply(Update{Volume: f64(2)})
	assert.Equal(t, 1.0, s.Volume)

	s.Apply(Update{Pitch: f64(9)})
	assert.Equal(t, 2.0, s.Pitch)
}

func TestApply_PartialUpdateLeavesOtherFields(t *testing.T) {
	s := DefaultSettings()
	s.Apply(Update{Provider: str("google"), Voice: str("en-IN-Wavenet-A")})
	assert.Equal(t, "google", s.Provider)
	assert.Equal(t, "en-IN-Wavenet-A", s.Voice)
	assert.Equal(t, "en-IN", s.Language)
	assert.Equal(t, 1.0, s.Speed)
	assert.Equal(t, "female", s.Gender)
}

func TestApply_EmptyStringsIgnored(t *testing.T) {
	s := DefaultSettings()
	s.Apply(Update{Provider: str(""), Gender: str("")})
	assert.Equal(t, "browser", s.Provider)
	assert.Equal(t, "female", s.Gender)
}

func TestPresetFor(t *testing.T) {
	p, ok := PresetFor("enthusiastic")
	require.True(t, ok)
	assert.Equal(t, 1.1, p.Speed)

	_, ok = PresetFor("sarcastic")
	assert.False(t, ok)

	s := DefaultSettings()
	tech, _ := PresetFor("technical")
	s.ApplyPreset(tech)
	assert.Equal(t, 0.9, s.Speed)
	assert.Equal(t, 0.9, s.Pitch)
	assert.Equal(t, 0.8, s.Volume)
}

func TestVoicesForProvider_UnknownIsEmpty(t *testing.T) {
	assert.Empty(t, VoicesForProvider("amazon"))
	assert.NotEmpty(t, VoicesForProvider("browser")["en-IN"])
	assert.Equal(t, []string{"browser", "google", "azure"}, Providers())
}
