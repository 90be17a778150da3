package core

type Intent string

const (
	IntentPagination          Intent = "pagination"
	IntentGratitude           Intent = "gratitude"
	IntentAffirmation         Intent = "affirmation"
	IntentGeneralConversation Intent = "general_conversation"
	IntentOutOfScope          Intent = "out_of_scope"
	IntentCityQuantityQuery   Intent = "city_quantity_query"
	IntentHospitalCityConfirm Intent = "hospital_city_confirm"
	IntentHospitalOnlyLookup  Intent = "hospital_only_lookup"
	IntentFallbackSearch      Intent = "fallback_search"
	IntentNoMatchHelp         Intent = "no_match_help"
)

// ConversationKind narrows IntentGeneralConversation.
type ConversationKind string

const (
	KindNone         ConversationKind = ""
	KindGreeting     ConversationKind = "greeting"
	KindHowAreYou    ConversationKind = "how_are_you"
	KindCapabilities ConversationKind = "capabilities"
	KindIdentity     ConversationKind = "identity"
	KindTime         ConversationKind = "time"
	KindDate         ConversationKind = "date"
	KindWeather      ConversationKind = "weather"
	KindJoke         ConversationKind = "joke"
)

// Classification is the output of the intent classifier.
type Classification struct {
	Intent   Intent
	Kind     ConversationKind
	Entities Extraction
}

// AllIntents lists every intent in classifier precedence order.
func AllIntents() []Intent {
	return []Intent{
		IntentPagination,
		IntentGratitude,
		IntentAffirmation,
		IntentGeneralConversation,
		IntentOutOfScope,
		IntentCityQuantityQuery,
		IntentHospitalCityConfirm,
		IntentHospitalOnlyLookup,
		IntentFallbackSearch,
		IntentNoMatchHelp,
	}
}
