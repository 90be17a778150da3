package dialogue

import (
	"fmt"
	"strings"

	"github.com/sandevgo/loopbot/internal/core"
)

const (
	replyOutOfScope    = "I'm sorry, I can't help with that. I am forwarding this to a human agent."
	replyNothingToPage = "I don't have more results to show. Would you like to search for hospitals in a different city?"
	replyEndOfCity     = "That's all the hospitals I have in this city. Would you like to search in another city?"
	replyWhichCity     = "Great! Could you tell me which city or area you're interested in?"
	replyAnythingElse  = "Is there anything else you'd like to know?"
	replyNarrowDown    = "Could you narrow it down by area, speciality, or ask for a smaller batch?"
	replyOtherHospital = "Would you like to know about any other hospital?"
	replyCheckSpelling = "Could you check the spelling or try a different hospital or city?"
	replyNoMatch       = "I couldn't find relevant hospitals."
	replyAskCity       = "Could you tell me which city you're interested in? I can help you find hospitals there."

	// ReplyInternalError is spoken when a turn fails unexpectedly.
	ReplyInternalError = "I'm sorry, something went wrong on my side. Please try again."
)

var gratitudeReplies = []string{
	"You're welcome! Is there anything else you'd like to know about our hospital network?",
	"Glad I could help! Feel free to ask if you need information about hospitals in other cities.",
	"Happy to assist! Let me know if you need anything else.",
}

var greetingReplies = []string{
	"Hello! I can help you find hospitals in our network. Which city are you interested in?",
	"Hi there! Ask me about hospitals in any city and I'll look them up.",
	"Hey! Tell me a city or a hospital name and I'll check our network for you.",
}

var smallTalkReplies = map[core.ConversationKind]string{
	core.KindHowAreYou:    "I'm doing well, thank you for asking! How can I help you find a hospital today?",
	core.KindCapabilities: "I can list hospitals in a city and confirm whether a specific hospital is in our network. Try saying 'Tell me 3 hospitals in Bengaluru'.",
	core.KindIdentity:     "I am Loop AI, a voice assistant for our hospital network.",
	core.KindWeather:      "I can't check the weather, but I can help you find hospitals in our network. Which city should I look in?",
	core.KindJoke:         "Why did the doctor carry a red pen? In case they needed to draw blood! Now, can I help you find a hospital?",
}

func pageHeader(n int, city string) string {
	return fmt.Sprintf("Sure! Here are %d more hospitals in %s:", n, city)
}

func pageContinue(remaining int) string {
	return fmt.Sprintf("I have %d more. Say 'next' to continue or ask about a specific area.", remaining)
}

func endOfCity(city string) string {
	return fmt.Sprintf("That's all the hospitals I have in %s. Would you like to search in another city?", city)
}

func noHospitalsIn(city string) string {
	return fmt.Sprintf("I could not find hospitals in %s. Do you want to try another city?", city)
}

func foundInCity(n int, city string) string {
	return fmt.Sprintf("I found %d hospitals in %s:", n, city)
}

func moreInCity(remaining int) string {
	return fmt.Sprintf("I have %d more results. Say 'next' to see more or ask about a specific neighbourhood.", remaining)
}

func tooManyInCity(total int, city string) string {
	return fmt.Sprintf("There are %d hospitals in %s, which is too many to list at once.", total, city)
}

func firstBatch(n int) string {
	return fmt.Sprintf("Here are the first %d to get you started:", n)
}

func inNetwork(name, city string) string {
	return fmt.Sprintf("Yes, %s in %s is in our network.", name, city)
}

func locationsNear(n int, locality string) string {
	return fmt.Sprintf("I found %d location(s) near %s:", n, locality)
}

func locationsFound(n int) string {
	return fmt.Sprintf("I found %d location(s):", n)
}

func moreLocations(n int) string {
	return fmt.Sprintf("There are %d more locations. Would you like me to list them?", n)
}

func notInNetwork(name, city string) string {
	return fmt.Sprintf("I'm sorry, I could not find %s in %s in our network.", name, city)
}

func otherInCity(n int, city string) string {
	return fmt.Sprintf("However, I found %d other hospitals in %s. Would you like to hear about them?", n, city)
}

func remainingHeader(n int) string {
	return fmt.Sprintf("Here are the remaining %d locations:", n)
}

func singleLocation(r core.HospitalRecord) string {
	return fmt.Sprintf("Yes, %s is in our network. It is located at %s, %s.", r.Name, orUnknown(r.Address, "Address not available"), r.City)
}

func locationsOf(n int, name, city string) string {
	return fmt.Sprintf("I found %d locations of %s in %s:", n, name, city)
}

func locationsAcross(n int, name string, cities int) string {
	return fmt.Sprintf("I found %d locations of %s across %d cities:", n, name, cities)
}

func notFoundAnywhere(name string) string {
	return fmt.Sprintf("I'm sorry, I could not find %s in our network. Could you check the spelling or try a different hospital name?", name)
}

func fallbackList(names []string) string {
	return fmt.Sprintf("I found the following hospitals: %s. Would you like more details about any of these?", strings.Join(names, ", "))
}

func searchAgainIn(city string) string {
	return fmt.Sprintf("Would you like to search in %s again, or try a different city?", city)
}

func locatedAt(idx int, r core.HospitalRecord) string {
	return fmt.Sprintf("%d. %s, located at %s", idx, orUnknown(r.Name, "Unknown"), orUnknown(r.Address, "Address not available"))
}

func shortAt(idx int, r core.HospitalRecord) string {
	return fmt.Sprintf("%d. %s at %s", idx, orUnknown(r.Name, "Unknown"), orUnknown(r.Address, "Address not available"))
}

func atWithCity(idx int, r core.HospitalRecord) string {
	return fmt.Sprintf("%d. %s at %s, %s", idx, orUnknown(r.Name, "Unknown"), orUnknown(r.Address, "Address not available"), r.City)
}

func orUnknown(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// enumerate renders records numbered from start using line.
func enumerate(records []core.HospitalRecord, start int, line func(int, core.HospitalRecord) string) []string {
	out := make([]string, 0, len(records))
	for i, r := range records {
		out = append(out, line(start+i, r))
	}
	return out
}
