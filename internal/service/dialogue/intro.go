package dialogue

import (
	"fmt"
	"strings"

	"github.com/sandevgo/loopbot/internal/core"
)

type IntroMode string

const (
	IntroSelective IntroMode = "selective"
	IntroAlways    IntroMode = "always"
	IntroNever     IntroMode = "never"
)

// selectiveIntro lists the intents that open with the introduction in
// selective mode. Small talk and follow-ups skip it.
var selectiveIntro = map[core.Intent]bool{
	core.IntentCityQuantityQuery:   true,
	core.IntentHospitalCityConfirm: true,
	core.IntentHospitalOnlyLookup:  true,
	core.IntentFallbackSearch:      true,
	core.IntentNoMatchHelp:         true,
}

// IntroPolicy decides which intents prepend the introduction. The sentence
// is spoken at most once per session.
type IntroPolicy struct {
	Mode     IntroMode
	Sentence string
}

func ParseIntroMode(s string) (IntroMode, error) {
	switch m := IntroMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return IntroSelective, nil
	case IntroSelective, IntroAlways, IntroNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown intro mode %q", s)
	}
}

func DefaultIntroPolicy() IntroPolicy {
	return IntroPolicy{Mode: IntroSelective, Sentence: core.IntroSentence}
}

func (p IntroPolicy) Applies(intent core.Intent) bool {
	switch p.Mode {
	case IntroAlways:
		return true
	case IntroNever:
		return false
	default:
		return selectiveIntro[intent]
	}
}

// Apply prepends the introduction when the session has not heard it yet and
// the intent qualifies.
func (p IntroPolicy) Apply(s *core.SessionContext, intent core.Intent, speech string) string {
	if s.Introduced || !p.Applies(intent) {
		return speech
	}
	s.Introduced = true
	sentence := p.Sentence
	if sentence == "" {
		sentence = core.IntroSentence
	}
	return sentence + " " + speech
}
