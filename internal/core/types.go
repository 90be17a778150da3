package core

import "time"

const (
	LoopName       = "Loop AI"
	LoopUserAgent  = "LoopBot/0.1"
	LoopVersion    = "0.1.0"
	IntroSentence  = "Hello, I am Loop AI. I can help you find hospitals in our network."
	CanonicalBrand = "Manipal"
)

// HospitalRecord is one row of the hospital dataset.
type HospitalRecord struct {
	Name    string            `json:"name"`
	City    string            `json:"city"`
	Address string            `json:"address"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Topic string

const (
	TopicNone    Topic = ""
	TopicSearch  Topic = "search"
	TopicConfirm Topic = "confirm"
	TopicList    Topic = "list"
)

// Turn is one user utterance and the bot reply.
type Turn struct {
	User               string    `json:"user"`
	Bot                string    `json:"bot"`
	Intent             Intent    `json:"intent"`
	OutOfScope         bool      `json:"out_of_scope,omitempty"`
	NeedsClarification bool      `json:"needs_clarification,omitempty"`
	At                 time.Time `json:"at"`
}

// SessionContext is the conversational memory of one session.
// Empty strings mean "not set".
type SessionContext struct {
	Turns                 []Turn
	LastCity              string
	LastHospitalName      string
	LastResults           []HospitalRecord
	LastTotalCount        int
	PaginationOffset      int
	AwaitingClarification bool
	Topic                 Topic

	// Introduced is set once the intro sentence has been spoken.
	Introduced bool
	// GratitudeCount counts gratitude turns, drives the canned reply rotation.
	GratitudeCount int
}

func NewSessionContext() *SessionContext {
	return &SessionContext{}
}

// Clone returns a copy that shares no slices with s.
func (s *SessionContext) Clone() *SessionContext {
	c := *s
	c.Turns = append([]Turn(nil), s.Turns...)
	c.LastResults = append([]HospitalRecord(nil), s.LastResults...)
	return &c
}

// Remember applies the sticky-context update rules: empty values never
// overwrite, nil results keep the previous list, and the total count only
// moves to a positive value.
func (s *SessionContext) Remember(city, hospitalName string, results []HospitalRecord, total int, topic Topic) {
	if city != "" {
		s.LastCity = city
	}
	if hospitalName != "" {
		s.LastHospitalName = hospitalName
	}
	if results != nil {
		s.LastResults = results
	}
	if total > 0 {
		s.LastTotalCount = total
	}
	if topic != TopicNone {
		s.Topic = topic
	}
}

func (s *SessionContext) AddTurn(t Turn) {
	s.Turns = append(s.Turns, t)
}

// Extraction holds the entities found in an utterance.
type Extraction struct {
	City         string `json:"city,omitempty"`
	HospitalName string `json:"hospital_name,omitempty"`
	Quantity     *int   `json:"quantity,omitempty"`
}

// Request is one inbound conversational turn.
type Request struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

// Response is the payload returned to a transport.
type Response struct {
	SessionID          string           `json:"session_id"`
	Speech             string           `json:"speech"`
	Hospitals          []HospitalRecord `json:"hospitals"`
	TotalMatches       *int             `json:"total_matches,omitempty"`
	NeedsClarification *bool            `json:"needs_clarification,omitempty"`
	OutOfScope         *bool            `json:"out_of_scope,omitempty"`
	Intent             Intent           `json:"intent,omitempty"`
}
