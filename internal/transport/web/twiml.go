package web

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	voiceLanguage     = "en-IN"
	processSpeechPath = "/twilio/process-speech"

	voiceWelcome  = "Welcome to the hospital network helpline. Which city or hospital are you looking for?"
	voiceNoInput  = "I did not hear anything. Thank you for calling. Goodbye."
	voiceRepeat   = "Sorry, I didn't catch that. Could you say it again?"
	voiceTransfer = "Let me connect you to one of our team members."
	voiceGoodbye  = "Thank you for calling. Goodbye."
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type say struct {
	XMLName  xml.Name `xml:"Say"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type gather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
	Language      string   `xml:"language,attr"`
	Say           *say
}

type dial struct {
	XMLName xml.Name `xml:"Dial"`
	Number  string   `xml:",chardata"`
}

type hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

func sayText(text string) *say {
	return &say{Language: voiceLanguage, Text: text}
}

func listen(prompt string) gather {
	g := gather{
		Input:         "speech",
		Action:        processSpeechPath,
		Method:        fiber.MethodPost,
		SpeechTimeout: "auto",
		Language:      voiceLanguage,
	}
	if prompt != "" {
		g.Say = sayText(prompt)
	}
	return g
}

func sendTwiML(c *fiber.Ctx, verbs ...any) error {
	body, err := xml.Marshal(twimlResponse{Verbs: verbs})
	if err != nil {
		return fmt.Errorf("failed to render twiml: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.SendString(xml.Header + string(body))
}

func (s *Server) twilioVoice(c *fiber.Ctx) error {
	log.FromCtx(c.UserContext()).Info().Str("call_sid", c.FormValue("CallSid")).Msg("incoming call")
	return sendTwiML(c, listen(voiceWelcome), sayText(voiceNoInput), hangup{})
}

// twilioProcessSpeech answers one spoken turn. A call is one session.
func (s *Server) twilioProcessSpeech(c *fiber.Ctx) error {
	speech := strings.TrimSpace(utils.CopyString(c.FormValue("SpeechResult")))
	callSID := utils.CopyString(c.FormValue("CallSid"))
	if speech == "" {
		return sendTwiML(c, listen(voiceRepeat), sayText(voiceNoInput), hangup{})
	}

	resp := s.conv.Converse(c.UserContext(), core.Request{
		Text:      speech,
		SessionID: VoiceSessionID(callSID),
	})

	if resp.OutOfScope != nil && *resp.OutOfScope {
		if s.cfg.HumanAgentNumber == "" {
			return sendTwiML(c, sayText(resp.Speech), sayText(voiceGoodbye), hangup{})
		}
		return sendTwiML(c, sayText(resp.Speech), sayText(voiceTransfer), dial{Number: s.cfg.HumanAgentNumber})
	}
	return sendTwiML(c, sayText(resp.Speech), listen(""), sayText(voiceGoodbye), hangup{})
}

func VoiceSessionID(callSID string) string {
	if callSID == "" {
		return ""
	}
	return "twilio-" + callSID
}
