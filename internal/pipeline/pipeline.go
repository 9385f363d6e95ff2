// Package pipeline orchestrates the analysis of a payment message:
// heuristic scoring, optional model classification, score blending,
// and asynchronous event persistence.
//
// The heuristic path is the backbone: it always runs and always
// produces a result. The model classifier and the event store are
// best-effort — when either fails the request still succeeds with
// whatever is available. Only input validation errors reach the caller.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mbd888/payguard/internal/classifier"
	"github.com/mbd888/payguard/internal/events"
	"github.com/mbd888/payguard/internal/heuristics"
	"github.com/mbd888/payguard/internal/idgen"
	"github.com/mbd888/payguard/internal/logging"
	"github.com/mbd888/payguard/internal/metrics"
	"github.com/mbd888/payguard/internal/scoring"
	"github.com/mbd888/payguard/internal/traces"
)

// ErrEmptyMessage is returned when the request carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// Request is one message to analyze. Only Message is required.
type Request struct {
	Message   string
	Channel   string
	ActorRole string
	AmountRaw string
}

// Outcome is the result of a full analysis.
type Outcome struct {
	EventID    string
	FinalScore float64
	RiskLevel  scoring.Level
	Heuristics heuristics.Result
	AI         *classifier.Assessment
}

// Classifier is the model dependency as the pipeline consumes it.
type Classifier interface {
	Classify(ctx context.Context, in classifier.Input) (*classifier.Assessment, error)
}

// Broadcaster receives every persisted event for live streaming.
type Broadcaster interface {
	BroadcastEvent(event *events.Event)
}

// Pipeline wires the scoring stages together. Classifier, store, and
// broadcaster may each be nil; the pipeline degrades accordingly.
type Pipeline struct {
	engine      *heuristics.Engine
	classifier  Classifier
	store       events.Store
	broadcaster Broadcaster
}

// New creates an analysis pipeline. A nil engine gets the default ruleset.
func New(engine *heuristics.Engine, cls Classifier, store events.Store, broadcaster Broadcaster) *Pipeline {
	if engine == nil {
		engine = heuristics.NewEngine(nil)
	}
	return &Pipeline{
		engine:      engine,
		classifier:  cls,
		store:       store,
		broadcaster: broadcaster,
	}
}

// Analyze scores one message. Returns ErrEmptyMessage when the message
// is blank; any classifier or store failure is absorbed and the
// heuristic result stands.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := traces.StartSpan(ctx, "pipeline.analyze",
		traces.Channel(req.Channel),
		traces.ActorRole(req.ActorRole),
	)
	defer span.End()

	heur := p.engine.Score(req.Message, req.AmountRaw)

	ai := p.classify(ctx, req)

	finalScore, level := scoring.Blend(heur.BaseScore, ai)
	metrics.AnalysesTotal.WithLabelValues(string(level)).Inc()
	span.SetAttributes(
		traces.BaseScore(heur.BaseScore),
		traces.FinalScore(finalScore),
		traces.RiskLevel(string(level)),
	)

	eventID := idgen.WithPrefix("evt_")
	span.SetAttributes(traces.EventID(eventID))

	event := &events.Event{
		ID:           eventID,
		Channel:      req.Channel,
		ActorRole:    req.ActorRole,
		AmountRaw:    req.AmountRaw,
		ParsedAmount: heur.Amount,
		FinalScore:   finalScore,
		RiskLevel:    level,
		Heuristics:   heur,
		AI:           ai,
		CreatedAt:    time.Now().UTC(),
	}
	p.persist(ctx, event)

	return &Outcome{
		EventID:    event.ID,
		FinalScore: finalScore,
		RiskLevel:  level,
		Heuristics: heur,
		AI:         ai,
	}, nil
}

// classify runs the single model attempt. A missing classifier or any
// failure yields nil; the error never propagates to the caller.
func (p *Pipeline) classify(ctx context.Context, req Request) *classifier.Assessment {
	if p.classifier == nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	start := time.Now()
	ai, err := p.classifier.Classify(ctx, classifier.Input{
		Message:   req.Message,
		Channel:   req.Channel,
		ActorRole: req.ActorRole,
		Amount:    req.AmountRaw,
	})
	metrics.ClassifierDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("error").Inc()
		logging.L(ctx).Warn("model classification unavailable, continuing with heuristics only",
			"error", err)
		return nil
	}
	metrics.ClassifierRequestsTotal.WithLabelValues("ok").Inc()
	return ai
}

// persist appends the event asynchronously and notifies the broadcaster.
// The write runs on a fresh context so a finished request cannot cancel it.
func (p *Pipeline) persist(ctx context.Context, event *events.Event) {
	if p.broadcaster != nil {
		p.broadcaster.BroadcastEvent(event)
	}
	if p.store == nil {
		return
	}

	logger := logging.L(ctx)
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.store.Append(writeCtx, event); err != nil {
			metrics.EventsPersistedTotal.WithLabelValues("error").Inc()
			logger.Error("failed to persist risk event", "event_id", event.ID, "error", err)
			return
		}
		metrics.EventsPersistedTotal.WithLabelValues("ok").Inc()
	}()
}
