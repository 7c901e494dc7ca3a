package chat

import "strings"

// Intent is the coarse classification of a user message's purpose. The set is
// closed: anything the classifier emits outside it normalizes to IntentGeneral.
type Intent string

const (
	IntentPurchase    Intent = "purchase"
	IntentService     Intent = "service"
	IntentInformation Intent = "information"
	IntentComparison  Intent = "comparison"
	IntentComplaint   Intent = "complaint"
	IntentGeneral     Intent = "general"
	IntentTechnical   Intent = "technical"
	IntentFinancing   Intent = "financing"
	IntentBooking     Intent = "booking"
)

var validIntents = map[Intent]struct{}{
	IntentPurchase:    {},
	IntentService:     {},
	IntentInformation: {},
	IntentComparison:  {},
	IntentComplaint:   {},
	IntentGeneral:     {},
	IntentTechnical:   {},
	IntentFinancing:   {},
	IntentBooking:     {},
}

// ParseIntent normalizes arbitrary classifier output into the closed set.
// Unknown, empty or garbage input maps to IntentGeneral.
func ParseIntent(raw string) Intent {
	i := Intent(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := validIntents[i]; ok {
		return i
	}
	return IntentGeneral
}

var suggestionTable = map[Intent][]string{
	IntentPurchase:    {"Compare RV400 vs RV320", "Check financing options", "Find nearest dealer", "Book test ride"},
	IntentService:     {"Find service center", "Book service appointment", "Check warranty", "Maintenance tips"},
	IntentInformation: {"Explore features", "Check specifications", "Learn about battery", "See pricing"},
	IntentTechnical:   {"Battery specifications", "Range calculator", "Charging options", "App features"},
	IntentFinancing:   {"EMI calculator", "Subscription plans", "Exchange offers", "Bank partnerships"},
	IntentGeneral:     {"Product overview", "Why choose Revolt", "Sustainability benefits", "Customer stories"},
}

// SuggestionsFor returns the canned follow-up suggestions for an intent,
// falling back to the general list for intents without a dedicated entry.
func SuggestionsFor(intent Intent) []string {
	if s, ok := suggestionTable[intent]; ok {
		return s
	}
	return suggestionTable[IntentGeneral]
}

// proactiveTips maps the intents that trigger a delayed nudge to their canned
// tip. Intents outside this table never produce a proactive message.
var proactiveTips = map[Intent]string{
	IntentPurchase:  "💡 Pro tip: You can also explore our subscription plans starting at just ₹3,499/month. Would you like me to explain how it works?",
	IntentTechnical: "🔧 Did you know our motorcycles come with smart features like geo-fencing and ride analytics through the MyRevolt app?",
	IntentService:   "📅 Quick reminder: Regular software updates are available through our app to keep your motorcycle running at peak performance!",
}
