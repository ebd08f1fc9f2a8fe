package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"scam-honeypot/internal/history"
	"scam-honeypot/internal/intel"
	"scam-honeypot/internal/llm"
	"scam-honeypot/internal/report"
	"scam-honeypot/internal/session"
	"scam-honeypot/internal/storage"
)

// Dispatcher delivers the final report of a concluded engagement. It must
// not fail the caller; delivery problems are its own concern.
type Dispatcher interface {
	SendFinalReport(ctx context.Context, r report.Report)
}

type TurnRequest struct {
	SessionID string
	Message   history.Turn
	// History, when non-empty, replaces the stored transcript for this turn.
	History history.History
}

// TurnResponse always reflects the session after this turn's merge.
type TurnResponse struct {
	SessionID          string
	AgentReply         string
	ConversationIsOver bool
	Intelligence       intel.Record
	TotalMessages      int
}

// Orchestrator runs one conversation turn at a time per session: load,
// ask the model, merge, persist and, on the terminal turn, report and evict.
type Orchestrator struct {
	gateway    llm.Gateway
	store      session.Store
	locks      *session.Locker
	dispatcher Dispatcher
	recorder   storage.Recorder
	now        func() time.Time
}

type Option func(*Orchestrator)

// WithRecorder journals every completed turn.
func WithRecorder(r storage.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(gateway llm.Gateway, store session.Store, dispatcher Dispatcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway:    gateway,
		store:      store,
		locks:      session.NewLocker(),
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleTurn processes one inbound scammer message. Gateway errors are
// returned unchanged (*llm.TransportError or *llm.ProtocolError) and leave
// the stored session exactly as it was.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	// A turn runs to completion even if the inbound caller goes away.
	ctx = context.WithoutCancel(ctx)

	unlock := o.locks.Lock(req.SessionID)
	defer unlock()

	sess, err := o.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("load session: %w", err)
	}
	transcript := sess.History
	if len(req.History) > 0 {
		transcript = req.History.Clone()
	}

	incoming := req.Message
	incoming.Sender = history.SenderScammer

	res, err := o.gateway.GenerateTurn(ctx, transcript, incoming)
	if err != nil {
		log.Printf("session %s: gateway failed, state unchanged: %v", req.SessionID, err)
		return TurnResponse{}, err
	}

	reply := history.Turn{
		Sender:    history.SenderAgent,
		Text:      res.AgentResponseText,
		Timestamp: history.Timestamp(o.now().UTC().Format(time.RFC3339)),
	}
	sess.History = transcript.Append(incoming, reply)
	sess.Intelligence.Merge(res.ExtractedIntelligence, res.AgentNotes)

	// Persisted even on the terminal turn so the last state is consistent
	// if reporting goes wrong.
	if err := o.store.Put(ctx, req.SessionID, sess); err != nil {
		return TurnResponse{}, fmt.Errorf("save session: %w", err)
	}
	o.journalTurn(req.SessionID, incoming, res, sess)

	if res.IsConversationOver {
		o.finalize(ctx, req.SessionID, sess)
	}

	return TurnResponse{
		SessionID:          req.SessionID,
		AgentReply:         res.AgentResponseText,
		ConversationIsOver: res.IsConversationOver,
		Intelligence:       sess.Intelligence.Clone(),
		TotalMessages:      len(sess.History),
	}, nil
}

// finalize reports the engagement and evicts it. Eviction happens whatever
// the dispatcher did: a dead report endpoint must not pin the session.
func (o *Orchestrator) finalize(ctx context.Context, id string, sess session.Session) {
	if o.dispatcher != nil {
		o.dispatcher.SendFinalReport(ctx, report.New(id, len(sess.History), sess.Intelligence))
	}
	if err := o.store.Evict(ctx, id); err != nil {
		log.Printf("session %s: evict after final report failed: %v", id, err)
		return
	}
	log.Printf("session %s: concluded after %d messages, %d artifacts", id, len(sess.History), sess.Intelligence.Artifacts.Total())
}

func (o *Orchestrator) journalTurn(id string, incoming history.Turn, res llm.TurnResult, sess session.Session) {
	if o.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:        o.now().UTC(),
		Kind:             storage.KindTurn,
		SessionID:        id,
		ScammerMessage:   incoming.Text,
		AgentReply:       res.AgentResponseText,
		TotalMessages:    len(sess.History),
		ConversationOver: res.IsConversationOver,
		Artifacts:        sess.Intelligence.Artifacts.Count(),
	}
	if err := o.recorder.AppendEvent(ev); err != nil {
		log.Printf("session %s: failed to journal turn: %v", id, err)
	}
}
