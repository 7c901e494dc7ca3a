package voice

// Option describes one selectable voice in the static catalog.
type Option struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Lang   string `json:"lang,omitempty"`
	Type   string `json:"type,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Catalog is the static provider -> language -> voices table sent to clients.
// No synthesis happens server-side; this only drives the client picker.
type Catalog map[string]map[string][]Option

var catalog = Catalog{
	"browser": {
		"en-IN": {
			{Name: "Google हिन्दी", Gender: "female", Lang: "hi-IN"},
			{Name: "Google English (India)", Gender: "female", Lang: "en-IN"},
			{Name: "Microsoft Heera - English (India)", Gender: "female", Lang: "en-IN"},
			{Name: "Microsoft Ravi - English (India)", Gender: "male", Lang: "en-IN"},
		},
		"en-US": {
			{Name: "Google US English Female", Gender: "female", Lang: "en-US"},
			{Name: "Google US English Male", Gender: "male", Lang: "en-US"},
			{Name: "Microsoft Zira - English (United States)", Gender: "female", Lang: "en-US"},
			{Name: "Microsoft David - English (United States)", Gender: "male", Lang: "en-US"},
		},
	},
	"google": {
		"en-IN": {
			{Name: "en-IN-Standard-A", Gender: "female", Type: "Standard"},
			{Name: "en-IN-Standard-B", Gender: "male", Type: "Standard"},
			{Name: "en-IN-Standard-C", Gender: "male", Type: "Standard"},
			{Name: "en-IN-Standard-D", Gender: "female", Type: "Standard"},
			{Name: "en-IN-Wavenet-A", Gender: "female", Type: "WaveNet"},
			{Name: "en-IN-Wavenet-B", Gender: "male", Type: "WaveNet"},
			{Name: "en-IN-Wavenet-C", Gender: "male", Type: "WaveNet"},
			{Name: "en-IN-Wavenet-D", Gender: "female", Type: "WaveNet"},
			{Name: "en-IN-Neural2-A", Gender: "female", Type: "Neural2"},
			{Name: "en-IN-Neural2-B", Gender: "male", Type: "Neural2"},
			{Name: "en-IN-Neural2-C", Gender: "male", Type: "Neural2"},
			{Name: "en-IN-Neural2-D", Gender: "female", Type: "Neural2"},
		},
	},
	"azure": {
		"en-IN": {
			{Name: "en-IN-NeerjaNeural", Gender: "female", Style: "General"},
			{Name: "en-IN-PrabhatNeural", Gender: "male", Style: "General"},
			{Name: "hi-IN-MadhurNeural", Gender: "male", Style: "General"},
			{Name: "hi-IN-SwaraNeural", Gender: "female", Style: "General"},
		},
	},
}

// AvailableVoices returns the full static catalog.
func AvailableVoices() Catalog {
	return catalog
}

// VoicesForProvider returns the catalog slice for a single provider, or an
// empty map for an unknown provider.
func VoicesForProvider(provider string) map[string][]Option {
	if v, ok := catalog[provider]; ok {
		return v
	}
	return map[string][]Option{}
}

// Providers lists the provider keys present in the catalog.
func Providers() []string {
	out := make([]string, 0, len(catalog))
	for _, p := range []string{"browser", "google", "azure"} {
		if _, ok := catalog[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
