package voice

// Settings describes how a reply should be spoken on the client. The gateway
// never produces audio itself; settings are passed through to whatever
// synthesis the frontend uses.
type Settings struct {
	Provider string  `json:"provider"`
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
	Volume   float64 `json:"volume"`
	Gender   string  `json:"gender"`
}

// DefaultSettings returns the initial per-connection voice configuration.
func DefaultSettings() Settings {
	return Settings{
		Provider: "browser",
		Voice:    "default",
		Language: "en-IN",
		Speed:    1.0,
		Pitch:    1.0,
		Volume:   0.8,
		Gender:   "female",
	}
}

// Update is a typed partial update. Nil fields leave the current value
// untouched; numeric fields are clamped, never rejected.
type Update struct {
	Provider *string  `json:"provider,omitempty"`
	Voice    *string  `json:"voice,omitempty"`
	Language *string  `json:"language,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
	Pitch    *float64 `json:"pitch,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`
	Gender   *string  `json:"gender,omitempty"`
}

const (
	minSpeed  = 0.25
	maxSpeed  = 4.0
	minPitch  = 0.5
	maxPitch  = 2.0
	minVolume = 0.0
	maxVolume = 1.0
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply merges u into s field by field.
func (s *Settings) Apply(u Update) {
	if u.Provider != nil && *u.Provider != "" {
		s.Provider = *u.Provider
	}
	if u.Voice != nil && *u.Voice != "" {
		s.Voice = *u.Voice
	}
	if u.Language != nil && *u.Language != "" {
		s.Language = *u.Language
	}
	if u.Speed != nil {
		s.Speed = clamp(*u.Speed, minSpeed, maxSpeed)
	}
	if u.Pitch != nil {
		s.Pitch = clamp(*u.Pitch, minPitch, maxPitch)
	}
	if u.Volume != nil {
		s.Volume = clamp(*u.Volume, minVolume, maxVolume)
	}
	if u.Gender != nil && *u.Gender != "" {
		s.Gender = *u.Gender
	}
}

// Preset is the voice adjustment tied to a response personality.
type Preset struct {
	Speed  float64
	Pitch  float64
	Volume float64
}

var personalityPresets = map[string]Preset{
	"enthusiastic": {Speed: 1.1, Pitch: 1.1, Volume: 0.9},
	"professional": {Speed: 1.0, Pitch: 1.0, Volume: 0.8},
	"casual":       {Speed: 0.95, Pitch: 0.95, Volume: 0.85},
	"technical":    {Speed: 0.9, Pitch: 0.9, Volume: 0.8},
}

// PresetFor returns the voice preset for a personality, if one exists.
func PresetFor(personality string) (Preset, bool) {
	p, ok := personalityPresets[personality]
	return p, ok
}

// ApplyPreset overwrites the speed/pitch/volume triple from a preset.
func (s *Settings) ApplyPreset(p Preset) {
	s.Speed = clamp(p.Speed, minSpeed, maxSpeed)
	s.Pitch = clamp(p.Pitch, minPitch, maxPitch)
	s.Volume = clamp(p.Volume, minVolume, maxVolume)
}
