package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/internal/service/dialogue"
	"github.com/sandevgo/loopbot/internal/service/session"
	"github.com/sandevgo/loopbot/pkg/log"
)

const tracerName = "github.com/sandevgo/loopbot/internal/service/agent"

// Observer receives one callback per completed turn.
type Observer interface {
	ObserveTurn(intent core.Intent, failed bool, elapsed time.Duration)
}

type Composer interface {
	Compose(ctx context.Context, text string, cl core.Classification, s *core.SessionContext) (dialogue.Outcome, error)
}

type Agent struct {
	sessions    *session.Store
	composer    Composer
	transcripts core.TranscriptRepository
	observer    Observer
	clock       core.Clock
	tracer      trace.Tracer
}

type Option func(*Agent)

func WithTranscripts(repo core.TranscriptRepository) Option {
	return func(a *Agent) { a.transcripts = repo }
}

func WithObserver(o Observer) Option {
	return func(a *Agent) { a.observer = o }
}

func WithClock(c core.Clock) Option {
	return func(a *Agent) { a.clock = c }
}

func NewAgent(sessions *session.Store, composer Composer, opts ...Option) *Agent {
	a := &Agent{
		sessions: sessions,
		composer: composer,
		clock:    core.SystemClock{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Converse runs one turn. It never fails: internal errors are logged and
// answered with an apology, leaving the session as it was apart from the
// turn log.
func (a *Agent) Converse(ctx context.Context, req core.Request) core.Response {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = session.NewID()
	}

	ctx, span := a.tracer.Start(ctx, "agent.converse", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("input.length", len(req.Text)),
	))
	defer span.End()

	logger := log.FromCtx(ctx).With().Str("session_id", sessionID).Logger()
	started := time.Now()

	var (
		resp core.Response
		err  error
	)
	a.sessions.With(sessionID, func(s *core.SessionContext) {
		resp, err = a.turn(ctx, req.Text, s)
		if err != nil {
			resp = core.Response{Speech: dialogue.ReplyInternalError, Hospitals: []core.HospitalRecord{}}
		}
		turn := core.Turn{
			User:               req.Text,
			Bot:                resp.Speech,
			Intent:             resp.Intent,
			OutOfScope:         resp.OutOfScope != nil && *resp.OutOfScope,
			NeedsClarification: resp.NeedsClarification != nil && *resp.NeedsClarification,
			At:                 a.clock.Now(),
		}
		s.AddTurn(turn)

		// Archived under the session lock so the archive keeps turn order.
		if a.transcripts != nil {
			if terr := a.transcripts.AddTurn(ctx, sessionID, turn); terr != nil {
				logger.Warn().Err(terr).Msg("failed to archive turn")
			}
		}
	})
	resp.SessionID = sessionID

	elapsed := time.Since(started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Str("text", req.Text).Msg("turn failed")
	} else {
		span.SetAttributes(attribute.String("intent", string(resp.Intent)), attribute.Int("hospitals", len(resp.Hospitals)))
		logger.Debug().Str("intent", string(resp.Intent)).Dur("elapsed", elapsed).Msg("turn answered")
	}
	if a.observer != nil {
		a.observer.ObserveTurn(resp.Intent, err != nil, elapsed)
	}

	return resp
}

// turn classifies and composes on a clone, then commits it into s.
func (a *Agent) turn(ctx context.Context, text string, s *core.SessionContext) (resp core.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while composing: %v\n%s", r, debug.Stack())
		}
	}()

	work := s.Clone()
	cl := dialogue.Classify(text, work)
	trace.SpanFromContext(ctx).AddEvent("classified", trace.WithAttributes(
		attribute.String("intent", string(cl.Intent)),
		attribute.String("city", cl.Entities.City),
		attribute.String("hospital", cl.Entities.HospitalName),
	))

	out, err := a.composer.Compose(ctx, text, cl, work)
	if err != nil {
		return core.Response{}, err
	}

	*s = *work
	return toResponse(out), nil
}

func toResponse(out dialogue.Outcome) core.Response {
	resp := core.Response{
		Speech:       out.Speech,
		Hospitals:    out.Hospitals,
		TotalMatches: out.TotalMatches,
		Intent:       out.Intent,
	}
	if resp.Hospitals == nil {
		resp.Hospitals = []core.HospitalRecord{}
	}
	if out.NeedsClarification {
		v := true
		resp.NeedsClarification = &v
	}
	if out.OutOfScope {
		v := true
		resp.OutOfScope = &v
	}
	return resp
}

// History returns a copy of the in-memory turn log of a session.
func (a *Agent) History(sessionID string) []core.Turn {
	snap, ok := a.sessions.Snapshot(sessionID)
	if !ok {
		return nil
	}
	return snap.Turns
}
