package dialogue

import (
	"regexp"
	"strings"

	"github.com/sandevgo/loopbot/internal/core"
)

// Signal is everything a classification rule may look at.
type Signal struct {
	Text     string
	Lower    string
	Kind     core.ConversationKind
	Entities core.Extraction
	Session  *core.SessionContext
}

// Rule maps a condition to an intent. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Intent core.Intent
	Match  func(sig Signal) bool
}

var (
	paginationWords = []string{"next", "more", "show me more", "another"}
	gratitudeWords  = []string{"thank", "thanks", "great", "perfect", "helpful"}
	affirmations    = map[string]struct{}{
		"yes": {}, "sure": {}, "okay": {}, "ok": {}, "yeah": {}, "yep": {}, "yup": {}, "please": {},
	}
	cityListPhrases = []string{"give me", "show me", "tell me"}
)

var (
	continuationWords = []string{
		"yes", "no", "sure", "okay", "next", "more", "show me", "tell me more",
		"what about", "how about", "thanks", "thank you", "that's helpful",
		"tell me about", "any other", "another", "different", "else",
	}
	hospitalWords = []string{
		"hospital", "hospitals", "clinic", "medical", "centre", "center",
		"network", "in my network", "around", "near", "location", "address",
	}
	brandWords   = []string{"manipal", "apollo", "fortis", "narayana", "aster", "sakra"}
	generalWords = []string{"find", "search", "list", "city", "give me", "show me", "tell me", "where", "confirm"}
)

var greetingPattern = regexp.MustCompile(`\b(?:hello|hi|hey|good morning|good afternoon|good evening)\b`)

type faqTrigger struct {
	kind    core.ConversationKind
	phrases []string
}

// FAQ triggers are checked before greetings so "hi, who are you" is answered.
var faqTriggers = []faqTrigger{
	{core.KindHowAreYou, []string{"how are you", "how's it going", "how are things"}},
	{core.KindCapabilities, []string{"what can you do", "what do you do", "how can you help", "what are your capabilities"}},
	{core.KindIdentity, []string{"who are you", "what are you", "what is your name", "what's your name", "are you a bot", "are you a robot", "are you human"}},
	{core.KindTime, []string{"what time", "current time", "time is it"}},
	{core.KindDate, []string{"what's the date", "what is the date", "today's date", "what day is it", "what is today"}},
	{core.KindWeather, []string{"weather"}},
	{core.KindJoke, []string{"joke"}},
}

var rules = []Rule{
	{
		Intent: core.IntentPagination,
		Match:  func(sig Signal) bool { return containsAny(sig.Lower, paginationWords) },
	},
	{
		Intent: core.IntentGratitude,
		Match:  func(sig Signal) bool { return containsAny(sig.Lower, gratitudeWords) },
	},
	{
		// Affirmation alone is not terminal, it needs an open question.
		Intent: core.IntentAffirmation,
		Match: func(sig Signal) bool {
			if _, ok := affirmations[trimUtterance(sig.Lower)]; !ok {
				return false
			}
			s := sig.Session
			return s != nil && (len(s.LastResults) > 3 || s.AwaitingClarification)
		},
	},
	{
		Intent: core.IntentGeneralConversation,
		Match:  func(sig Signal) bool { return sig.Kind != core.KindNone },
	},
	{
		Intent: core.IntentOutOfScope,
		Match:  func(sig Signal) bool { return !InScope(sig.Lower) },
	},
	{
		Intent: core.IntentCityQuantityQuery,
		Match: func(sig Signal) bool {
			e := sig.Entities
			return e.City != "" && e.HospitalName == "" &&
				(e.Quantity != nil || containsAny(sig.Lower, cityListPhrases))
		},
	},
	{
		Intent: core.IntentHospitalCityConfirm,
		Match:  func(sig Signal) bool { return sig.Entities.HospitalName != "" && sig.Entities.City != "" },
	},
	{
		Intent: core.IntentHospitalOnlyLookup,
		Match:  func(sig Signal) bool { return sig.Entities.HospitalName != "" },
	},
	{
		Intent: core.IntentFallbackSearch,
		Match:  func(Signal) bool { return true },
	},
}

// Rules returns a copy of the classification table in precedence order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Classify resolves the intent of text given the session state.
func Classify(text string, s *core.SessionContext) core.Classification {
	return classifyFrom(text, s, 0)
}

// ClassifyAfter evaluates only the rules that follow intent in the table.
func ClassifyAfter(text string, s *core.SessionContext, intent core.Intent) core.Classification {
	for i, r := range rules {
		if r.Intent == intent {
			return classifyFrom(text, s, i+1)
		}
	}
	return classifyFrom(text, s, 0)
}

func classifyFrom(text string, s *core.SessionContext, start int) core.Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return core.Classification{Intent: core.IntentOutOfScope}
	}

	sig := Signal{
		Text:     text,
		Lower:    lower,
		Kind:     ConversationKindOf(lower),
		Entities: Extract(text),
		Session:  s,
	}

	for _, r := range rules[start:] {
		if !r.Match(sig) {
			continue
		}
		c := core.Classification{Intent: r.Intent, Entities: sig.Entities}
		if r.Intent == core.IntentGeneralConversation {
			c.Kind = sig.Kind
		}
		return c
	}
	return core.Classification{Intent: core.IntentFallbackSearch, Entities: sig.Entities}
}

// ConversationKindOf detects small talk. lower must be lowercased.
func ConversationKindOf(lower string) core.ConversationKind {
	for _, t := range faqTriggers {
		if containsAny(lower, t.phrases) {
			return t.kind
		}
	}
	if greetingPattern.MatchString(lower) {
		return core.KindGreeting
	}
	return core.KindNone
}

// InScope reports whether lower mentions hospitals, the network or a
// conversational continuation.
func InScope(lower string) bool {
	if lower == "" {
		return false
	}
	return containsAny(lower, continuationWords) ||
		containsAny(lower, hospitalWords) ||
		containsAny(lower, brandWords) ||
		containsAny(lower, generalWords)
}

func trimUtterance(lower string) string {
	return strings.Trim(strings.TrimSpace(lower), ".!?, ")
}
