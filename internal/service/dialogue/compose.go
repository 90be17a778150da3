package dialogue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sandevgo/loopbot/internal/core"
)

const (
	pageSize        = 3
	defaultQuantity = 3
	maxQuantity     = 10
	sampleSize      = 5
	listPreview     = 3
	fallbackLimit   = 5
)

// DefaultLocalities are address fragments that narrow a confirmation when
// the caller mentions them.
var DefaultLocalities = []string{"sarjapur"}

// Outcome is the result of composing one turn.
type Outcome struct {
	Intent             core.Intent
	Speech             string
	Hospitals          []core.HospitalRecord
	TotalMatches       *int
	NeedsClarification bool
	OutOfScope         bool
}

type Composer struct {
	store      core.HospitalStore
	clock      core.Clock
	intro      IntroPolicy
	localities []string
}

type Option func(*Composer)

func WithIntroPolicy(p IntroPolicy) Option {
	return func(c *Composer) { c.intro = p }
}

func WithLocalities(l []string) Option {
	return func(c *Composer) { c.localities = l }
}

func WithClock(clock core.Clock) Option {
	return func(c *Composer) { c.clock = clock }
}

func NewComposer(store core.HospitalStore, opts ...Option) *Composer {
	c := &Composer{
		store:      store,
		clock:      core.SystemClock{},
		intro:      DefaultIntroPolicy(),
		localities: DefaultLocalities,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose answers text for the classified intent and updates s in place.
// Callers pass a clone of the session and commit it only on success.
func (c *Composer) Compose(ctx context.Context, text string, cl core.Classification, s *core.SessionContext) (Outcome, error) {
	out, err := c.dispatch(ctx, text, cl, s)
	if err != nil {
		return Outcome{}, err
	}
	if out.Hospitals == nil {
		out.Hospitals = []core.HospitalRecord{}
	}
	out.Speech = c.intro.Apply(s, out.Intent, out.Speech)
	return out, nil
}

func (c *Composer) dispatch(ctx context.Context, text string, cl core.Classification, s *core.SessionContext) (Outcome, error) {
	switch cl.Intent {
	case core.IntentPagination:
		return c.paginate(ctx, s)
	case core.IntentGratitude:
		return c.thank(s), nil
	case core.IntentAffirmation:
		return c.affirm(ctx, text, s)
	case core.IntentGeneralConversation:
		return c.smallTalk(text, cl.Kind), nil
	case core.IntentOutOfScope:
		return Outcome{Intent: core.IntentOutOfScope, Speech: replyOutOfScope, OutOfScope: true}, nil
	case core.IntentCityQuantityQuery:
		return c.cityQuery(ctx, text, cl.Entities, s)
	case core.IntentHospitalCityConfirm:
		return c.confirm(ctx, text, cl.Entities, s)
	case core.IntentHospitalOnlyLookup:
		return c.lookup(ctx, cl.Entities, s)
	case core.IntentFallbackSearch, core.IntentNoMatchHelp:
		return c.fallback(ctx, text, cl.Entities, s)
	default:
		return Outcome{}, fmt.Errorf("unsupported intent %q", cl.Intent)
	}
}

func (c *Composer) paginate(ctx context.Context, s *core.SessionContext) (Outcome, error) {
	out := Outcome{Intent: core.IntentPagination}
	if s.LastCity == "" || s.LastTotalCount <= pageSize {
		out.Speech = replyNothingToPage
		return out, nil
	}

	offset := s.PaginationOffset
	batch, err := c.store.Filter(ctx, core.Query{City: s.LastCity, Offset: offset, Limit: pageSize})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to fetch next page: %w", err)
	}
	total := s.LastTotalCount
	out.TotalMatches = &total

	if len(batch) == 0 {
		out.Speech = endOfCity(s.LastCity)
		return out, nil
	}

	lines := []string{pageHeader(len(batch), s.LastCity)}
	lines = append(lines, enumerate(batch, offset+1, locatedAt)...)
	if remaining := total - offset - len(batch); remaining > 0 {
		lines = append(lines, pageContinue(remaining))
	} else {
		lines = append(lines, replyEndOfCity)
	}

	s.PaginationOffset = min(offset+len(batch), total)
	s.LastResults = batch

	out.Speech = strings.Join(lines, " ")
	out.Hospitals = batch
	return out, nil
}

func (c *Composer) thank(s *core.SessionContext) Outcome {
	speech := gratitudeReplies[s.GratitudeCount%len(gratitudeReplies)]
	s.GratitudeCount++
	return Outcome{Intent: core.IntentGratitude, Speech: speech}
}

func (c *Composer) affirm(ctx context.Context, text string, s *core.SessionContext) (Outcome, error) {
	out := Outcome{Intent: core.IntentAffirmation}
	switch {
	case len(s.LastResults) > listPreview:
		rest := s.LastResults[listPreview:]
		lines := []string{remainingHeader(len(rest))}
		lines = append(lines, enumerate(rest, listPreview+1, atWithCity)...)
		lines = append(lines, replyAnythingElse)
		s.AwaitingClarification = false
		out.Speech = strings.Join(lines, " ")
		out.Hospitals = rest
		return out, nil
	case s.AwaitingClarification:
		s.AwaitingClarification = false
		out.Speech = replyWhichCity
		return out, nil
	default:
		return c.dispatch(ctx, text, ClassifyAfter(text, s, core.IntentAffirmation), s)
	}
}

func (c *Composer) smallTalk(text string, kind core.ConversationKind) Outcome {
	out := Outcome{Intent: core.IntentGeneralConversation}
	now := c.clock.Now()
	switch kind {
	case core.KindTime:
		out.Speech = fmt.Sprintf("It's %s right now. Can I help you find a hospital?", now.Format("3:04 PM"))
	case core.KindDate:
		out.Speech = fmt.Sprintf("Today is %s. Can I help you find a hospital?", now.Format("Monday, January 2, 2006"))
	case core.KindGreeting, core.KindNone:
		out.Speech = greetingReplies[greetingIndex(text)]
	default:
		out.Speech = smallTalkReplies[kind]
	}
	return out
}

func greetingIndex(text string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	return int(h.Sum32() % uint32(len(greetingReplies)))
}

func (c *Composer) cityQuery(ctx context.Context, text string, e core.Extraction, s *core.SessionContext) (Outcome, error) {
	out := Outcome{Intent: core.IntentCityQuantityQuery}
	city := e.City

	total, err := c.store.Count(ctx, core.Query{City: city})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to count hospitals in %s: %w", city, err)
	}
	out.TotalMatches = &total
	if total == 0 {
		out.Speech = noHospitalsIn(city)
		return out, nil
	}

	wantsAll := WantsAllHospitals(text)
	if wantsAll && total > sampleSize {
		sampled, err := c.store.Filter(ctx, core.Query{City: city, Limit: sampleSize})
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to sample hospitals in %s: %w", city, err)
		}
		lines := []string{tooManyInCity(total, city), firstBatch(len(sampled))}
		lines = append(lines, enumerate(sampled, 1, locatedAt)...)
		lines = append(lines, replyNarrowDown)

		s.Remember(city, "", sampled, total, core.TopicSearch)
		s.AwaitingClarification = true
		s.PaginationOffset = len(sampled)

		out.Speech = strings.Join(lines, " ")
		out.Hospitals = sampled
		out.NeedsClarification = true
		return out, nil
	}

	n := defaultQuantity
	if q := e.Quantity; q != nil && *q >= 1 && *q <= maxQuantity {
		n = *q
	}
	if wantsAll {
		n = total
	}

	hospitals, err := c.store.Filter(ctx, core.Query{City: city, Limit: n})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to list hospitals in %s: %w", city, err)
	}

	lines := []string{foundInCity(len(hospitals), city)}
	lines = append(lines, enumerate(hospitals, 1, locatedAt)...)
	if remaining := total - len(hospitals); remaining > 0 {
		lines = append(lines, moreInCity(remaining))
	}

	s.Remember(city, "", hospitals, total, core.TopicSearch)
	s.PaginationOffset = len(hospitals)

	out.Speech = strings.Join(lines, " ")
	out.Hospitals = hospitals
	return out, nil
}

func (c *Composer) confirm(ctx context.Context, text string, e core.Extraction, s *core.SessionContext) (Outcome, error) {
	out := Outcome{Intent: core.IntentHospitalCityConfirm}
	name, city := e.HospitalName, e.City

	matches, err := c.store.Filter(ctx, core.Query{City: city, Name: name})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to confirm %s in %s: %w", name, city, err)
	}

	if len(matches) == 0 {
		others, err := c.store.Count(ctx, core.Query{City: city})
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to count hospitals in %s: %w", city, err)
		}
		lines := []string{notInNetwork(name, city)}
		if others > 0 {
			lines = append(lines, otherInCity(others, city))
		} else {
			lines = append(lines, replyCheckSpelling)
		}
		s.Remember(city, name, nil, 0, core.TopicNone)
		out.Speech = strings.Join(lines, " ")
		return out, nil
	}

	lower := strings.ToLower(text)
	for _, locality := range c.localities {
		if !strings.Contains(lower, locality) {
			continue
		}
		near := filterAddress(matches, locality)
		if len(near) == 0 {
			continue
		}
		lines := []string{inNetwork(name, city), locationsNear(len(near), cases.Title(language.English).String(locality))}
		lines = append(lines, enumerate(near, 1, shortAt)...)
		lines = append(lines, replyOtherHospital)

		s.Remember(city, name, near, 0, core.TopicConfirm)
		total := len(near)
		out.TotalMatches = &total
		out.Speech = strings.Join(lines, " ")
		out.Hospitals = near
		return out, nil
	}

	lines := []string{inNetwork(name, city), locationsFound(len(matches))}
	lines = append(lines, enumerate(preview(matches), 1, shortAt)...)
	if len(matches) > listPreview {
		lines = append(lines, moreLocations(len(matches)-listPreview))
	} else {
		lines = append(lines, replyAnythingElse)
	}

	s.Remember(city, name, matches, 0, core.TopicConfirm)
	total := len(matches)
	out.TotalMatches = &total
	out.Speech = strings.Join(lines, " ")
	out.Hospitals = matches
	return out, nil
}

func (c *Composer) lookup(ctx context.Context, e core.Extraction, s *core.SessionContext) (Outcome, error) {
	out := Outcome{Intent: core.IntentHospitalOnlyLookup}
	name := e.HospitalName

	matches, err := c.store.Filter(ctx, core.Query{Name: name})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to look up %s: %w", name, err)
	}
	total := len(matches)
	out.TotalMatches = &total

	switch total {
	case 0:
		s.Remember("", name, nil, 0, core.TopicNone)
		out.Speech = notFoundAnywhere(name)
		return out, nil
	case 1:
		out.Speech = strings.Join([]string{singleLocation(matches[0]), replyAnythingElse}, " ")
	default:
		var header string
		if cities := distinctCities(matches); len(cities) == 1 {
			header = locationsOf(total, name, cities[0])
		} else {
			header = locationsAcross(total, name, len(cities))
		}
		lines := []string{header}
		lines = append(lines, enumerate(preview(matches), 1, atWithCity)...)
		if total > listPreview {
			lines = append(lines, moreLocations(total-listPreview))
		} else {
			lines = append(lines, replyAnythingElse)
		}
		out.Speech = strings.Join(lines, " ")
	}

	s.Remember("", name, matches, 0, core.TopicConfirm)
	out.Hospitals = matches
	return out, nil
}

func (c *Composer) fallback(ctx context.Context, text string, e core.Extraction, s *core.SessionContext) (Outcome, error) {
	q := core.Query{Text: strings.TrimSpace(text), City: e.City}
	total, err := c.store.Count(ctx, q)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to search hospitals: %w", err)
	}

	if total == 0 {
		lines := []string{replyNoMatch}
		if s.LastCity != "" {
			lines = append(lines, searchAgainIn(s.LastCity))
		} else {
			lines = append(lines, replyAskCity)
		}
		return Outcome{Intent: core.IntentNoMatchHelp, Speech: strings.Join(lines, " ")}, nil
	}

	q.Limit = fallbackLimit
	found, err := c.store.Filter(ctx, q)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to search hospitals: %w", err)
	}
	names := make([]string, 0, len(found))
	for _, r := range found {
		names = append(names, r.Name)
	}

	s.Remember("", "", found, 0, core.TopicSearch)
	return Outcome{
		Intent:       core.IntentFallbackSearch,
		Speech:       fallbackList(names),
		Hospitals:    found,
		TotalMatches: &total,
	}, nil
}

func preview(records []core.HospitalRecord) []core.HospitalRecord {
	if len(records) > listPreview {
		return records[:listPreview]
	}
	return records
}

func filterAddress(records []core.HospitalRecord, fragment string) []core.HospitalRecord {
	var out []core.HospitalRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Address), fragment) {
			out = append(out, r)
		}
	}
	return out
}

func distinctCities(records []core.HospitalRecord) []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.City))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cities = append(cities, r.City)
	}
	return cities
}
