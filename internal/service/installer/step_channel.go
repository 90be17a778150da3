package installer

import "github.com/sandevgo/loopbot/internal/service/dialogue"

const (
	ChannelHTTP     = "http"
	ChannelTelegram = "telegram"
	ChannelAll      = "all"
	ChannelCLI      = "cli"
)

// NewChannelStep selects which transports `loop start` runs.
func NewChannelStep() Step {
	return &ChoiceStep{
		prompt: "Where should Loop answer?",
		choices: []choice{
			{value: ChannelHTTP, label: "HTTP API + Twilio voice"},
			{value: ChannelTelegram, label: "Telegram"},
			{value: ChannelAll, label: "HTTP API, Twilio voice and Telegram"},
			{value: ChannelCLI, label: "Terminal only"},
		},
		apply: func(state *InstallState, value string) {
			state.Channel = value
		},
	}
}

// NewIntroModeStep selects when the assistant introduces itself.
func NewIntroModeStep() Step {
	return &ChoiceStep{
		prompt: "When should Loop introduce itself?",
		choices: []choice{
			{value: string(dialogue.IntroSelective), label: "On the first search answer (recommended)"},
			{value: string(dialogue.IntroAlways), label: "On the first answer, whatever it is"},
			{value: string(dialogue.IntroNever), label: "Never"},
		},
		apply: func(state *InstallState, value string) {
			state.Settings.IntroMode = value
		},
	}
}
