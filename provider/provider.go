// Package provider is the sole consumer of package mailbox: it starts
// the acceptors, runs the one proposer actor and one learner actor every
// client handle talks to, and wires the slot/bunch/stoppable combinator
// stack over them. Grounded on the teacher's multipaxos/create.go
// factory and goxos.go top-level wiring, trimmed to consensus-core
// scope (no network, no membership).
package provider

import (
	"encoding/gob"

	"github.com/golang/glog"

	"github.com/certichain/protocol-combinators/bunch"
	"github.com/certichain/protocol-combinators/config"
	"github.com/certichain/protocol-combinators/ident"
	"github.com/certichain/protocol-combinators/mailbox"
	"github.com/certichain/protocol-combinators/paxos"
	"github.com/certichain/protocol-combinators/slot"
	"github.com/certichain/protocol-combinators/stoppable"
	"github.com/certichain/protocol-combinators/trace"
	"github.com/certichain/protocol-combinators/trace/event"
)

// Value is the agreed-on payload type this build's Provider runs over.
// An embedder that needs a different comparable type copies this
// package with T substituted; the demo and tests use string.
type Value = stoppable.DataOrStop[string]

func init() {
	// Register every message variant this build's Value instantiates,
	// following the teacher's msg.go init() pattern of registering wire
	// types once per process rather than at each call site.
	gob.Register(paxos.Phase1A{})
	gob.Register(paxos.Phase1B[Value]{})
	gob.Register(paxos.Phase2A[Value]{})
	gob.Register(paxos.Phase2B{})
	gob.Register(paxos.QueryAcceptor{})
	gob.Register(paxos.ValueAcc[Value]{})
	gob.Register(paxos.QueryLearner{})
	gob.Register(paxos.LearnedAgreedValue[Value]{})
	gob.Register(slot.Message{})
	gob.Register(proposeRequest{})
	gob.Register(decidedReply{})
	gob.Register(queryRequest{})
}

// reservedProposerSlot and reservedLearnerSlot address the two standing
// actors this provider runs. They must not collide with an acceptor
// identity, so New rejects a numAcceptors that would reach them.
const (
	reservedProposerSlot ident.Slot = 100
	reservedLearnerSlot  ident.Slot = 101
)

// quorumOverride wraps an *ident.Set so a configured override (spec.md
// 4.8) takes precedence over the set's computed majority.
type quorumOverride struct {
	*ident.Set
	n int
}

func (q quorumOverride) Quorum() int {
	if q.n > 0 {
		return q.n
	}
	return q.Set.Quorum()
}

// Provider owns every acceptor in the group plus the standing proposer
// and learner actors, and mints client handles addressed to them.
type Provider struct {
	rt        *mailbox.Runtime
	cfg       *config.Config
	acceptors *ident.Set
	quorum    quorumOverride

	proposerID ident.ID
	learnerID  ident.ID
}

// New builds numAcceptors acceptors plus the standing proposer and
// learner actors, all driven for the lifetime of the process, and
// returns a Provider ready to mint client handles against them.
func New(rt *mailbox.Runtime, cfg *config.Config, numAcceptors int) *Provider {
	if numAcceptors >= int(reservedProposerSlot) {
		glog.Fatalf("provider: numAcceptors %d collides with reserved actor slots", numAcceptors)
	}

	if cfg.GetBool(config.KeyTraceEnabled, config.DefTraceEnabled) {
		trace.SetOutput(cfg.GetString(config.KeyTraceFile, config.DefTraceFile))
		trace.Enable()
	}

	ids := make([]ident.ID, numAcceptors)
	for i := 0; i < numAcceptors; i++ {
		ids[i] = ident.NewFromInt(int8(i), 0)
	}
	acceptors := ident.NewSet(ids...)

	p := &Provider{
		rt:         rt,
		cfg:        cfg,
		acceptors:  acceptors,
		quorum:     quorumOverride{Set: acceptors, n: cfg.QuorumOverride()},
		proposerID: ident.New(reservedProposerSlot, 0),
		learnerID:  ident.New(reservedLearnerSlot, 0),
	}

	for _, id := range ids {
		p.startAcceptor(id)
	}
	p.startProposerActor()
	p.startLearnerActor()

	return p
}

func (p *Provider) startAcceptor(id ident.ID) {
	mb := p.rt.Register(id)
	strict := p.cfg.StrictBallotDiscipline()
	combinator := slot.New[Value](func(slot.ID) paxos.Role[Value] {
		a := paxos.NewAcceptor[Value](id)
		a.SetStrictBallotDiscipline(strict)
		return a
	})

	glog.V(1).Infof("provider: acceptor %v starting", id)
	mailbox.Drive(mb, func(msg interface{}) []mailbox.Outgoing {
		out := combinator.Step(msg)
		if len(out) == 0 {
			warnIfStale(id, msg)
		}
		return adapt(out)
	})
}

// warnIfStale logs a stale/ignored protocol-level input: a Phase1A at a
// ballot the acceptor already passed, or a Phase2A outside the ballot
// it currently promises. It never runs inside a Role's Step itself —
// only the host actor, once Step has already decided the input was a
// no-op, knows there is anything worth warning about.
func warnIfStale(id ident.ID, msg interface{}) {
	sm, ok := msg.(slot.Message)
	if !ok {
		return
	}
	switch m := sm.Inner.(type) {
	case paxos.Phase1A:
		glog.Warningf("provider: acceptor %v ignored stale Phase1A for slot %v at ballot %v", id, sm.Slot, m.Ballot)
	case paxos.Phase2A[Value]:
		glog.Warningf("provider: acceptor %v ignored Phase2A for slot %v at non-current ballot %v", id, sm.Slot, m.Ballot)
	}
}

// proposeRequest is a client -> proposer-actor request to run one round
// for slotID on behalf of requester.
type proposeRequest struct {
	Slot      slot.ID
	Requester ident.ID
	Value     Value
}

// decidedReply is the proposer or learner actor's one-shot reply once
// slotID has a value.
type decidedReply struct {
	Slot  slot.ID
	Value Value
}

// queryRequest is a client -> learner-actor request to read slotID on
// behalf of requester.
type queryRequest struct {
	Slot      slot.ID
	Requester ident.ID
}

// startProposerActor runs the standing proposer: a slot-replicated,
// bunched family of paxos.Proposer[Value] instances with the stoppable
// veto applied to every batch's Phase2A output before it reaches the
// acceptors.
func (p *Provider) startProposerActor() {
	mb := p.rt.Register(p.proposerID)
	round := uint64(0)

	bySlot := slot.New[Value](func(slot.ID) paxos.Role[Value] {
		round++
		return paxos.NewProposer[Value](p.proposerID, paxos.Ballot{Round: round, Proposer: p.proposerID}, p.quorum)
	})
	combinator := bunch.New[Value](bySlot, stoppable.Veto[string])

	requesters := make(map[slot.ID]ident.ID)
	decided := make(map[slot.ID]Value)

	glog.V(1).Infof("provider: proposer actor %v starting", p.proposerID)

	go func() {
		for {
			var first mailbox.Envelope
			select {
			case first = <-mb.Recv():
			case <-mb.Done():
				return
			}
			batch := []interface{}{first.Msg}
			batch = append(batch, drain(mb)...)

			var msgs []slot.Message
			var touched []slot.ID
			oldPhase := make(map[slot.ID]string)
			for _, raw := range batch {
				switch m := raw.(type) {
				case proposeRequest:
					// A slot accepts exactly one live round; a second
					// Write against an already-decided slot (a dropped-
					// reply retry, or a caller writing twice) replays
					// the existing decision instead of registering as a
					// requester nothing will ever notify.
					if v, ok := decided[m.Slot]; ok {
						mb.Send(m.Requester, decidedReply{Slot: m.Slot, Value: v})
						continue
					}
					pr, ok := bySlot.Instance(m.Slot).(*paxos.Proposer[Value])
					phase := "Init"
					if ok {
						phase = pr.Phase()
					}
					if phase != "Init" {
						glog.Warningf("provider: proposer slot %v ignored duplicate propose while in phase %s", m.Slot, phase)
						continue
					}
					oldPhase[m.Slot] = phase
					requesters[m.Slot] = m.Requester
					msgs = append(msgs, slot.Message{Slot: m.Slot, Inner: paxos.ProposeValue[Value]{Value: m.Value}})
					touched = append(touched, m.Slot)
				case slot.Message:
					if _, ok := oldPhase[m.Slot]; !ok {
						if pr, ok := bySlot.Instance(m.Slot).(*paxos.Proposer[Value]); ok {
							oldPhase[m.Slot] = pr.Phase()
						}
					}
					msgs = append(msgs, m)
					touched = append(touched, m.Slot)
				}
			}

			// A slot's Phase2A broadcast IS its decision: the proposer
			// reaches phaseDecided in the very same Step call that
			// returns this broadcast (see paxos.Proposer.stepPromise),
			// and the veto hook has already had its chance to replace
			// a2.Value with a Voided placeholder by the time Step
			// returns it here. Using this value rather than
			// re-deriving it from Proposer.Decide() is what makes the
			// client-visible decision agree with what the veto traced.
			seenProposed := make(map[slot.ID]bool)
			for _, out := range combinator.Step(msgs) {
				mb.Send(out.To, out.Msg)

				sm, ok := out.Msg.(slot.Message)
				if !ok || seenProposed[sm.Slot] {
					continue
				}
				a2, ok := sm.Inner.(paxos.Phase2A[Value])
				if !ok {
					continue
				}
				seenProposed[sm.Slot] = true

				if a2.Value.IsVoided() {
					trace.Log(event.NewDetailedEvent(event.Voided, a2.Value.Reason))
				} else {
					trace.Log(event.NewEvent(event.Proposed))
				}

				if _, already := decided[sm.Slot]; already {
					continue
				}
				decided[sm.Slot] = a2.Value
				trace.Log(event.NewDetailedEvent(event.Decided, a2.Value.Reason))
				if requester, ok := requesters[sm.Slot]; ok {
					mb.Send(requester, decidedReply{Slot: sm.Slot, Value: a2.Value})
					delete(requesters, sm.Slot)
				}
			}

			for _, s := range touched {
				pr, ok := bySlot.Instance(s).(*paxos.Proposer[Value])
				if !ok {
					continue
				}
				if newPhase := pr.Phase(); newPhase != oldPhase[s] {
					glog.V(1).Infof("provider: proposer slot %v phase %s -> %s", s, oldPhase[s], newPhase)
				}
			}
		}
	}()
}

// startLearnerActor runs the standing learner: a slot-replicated family
// of paxos.Learner[Value] instances, one per consensus instance.
func (p *Provider) startLearnerActor() {
	mb := p.rt.Register(p.learnerID)
	requesters := make(map[slot.ID]ident.ID)

	bySlot := slot.New[Value](func(slot.ID) paxos.Role[Value] {
		return paxos.NewLearner[Value](p.learnerID, p.quorum)
	})

	glog.V(1).Infof("provider: learner actor %v starting", p.learnerID)

	mailbox.Drive(mb, func(msg interface{}) []mailbox.Outgoing {
		switch m := msg.(type) {
		case queryRequest:
			requesters[m.Slot] = m.Requester
			old := learnerPhase(bySlot, m.Slot)
			out := adapt(bySlot.Step(slot.Message{Slot: m.Slot, Inner: paxos.QueryLearner{Requester: p.learnerID}}))
			logLearnerTransition(p.learnerID, m.Slot, old, learnerPhase(bySlot, m.Slot))
			return out
		case slot.Message:
			if lv, ok := m.Inner.(paxos.LearnedAgreedValue[Value]); ok {
				requester, has := requesters[m.Slot]
				delete(requesters, m.Slot)
				if !has {
					return nil
				}
				return []mailbox.Outgoing{{To: requester, Msg: decidedReply{Slot: m.Slot, Value: lv.Value}}}
			}
			if _, ok := m.Inner.(paxos.QueryLearner); ok {
				trace.Log(event.NewEvent(event.LearnerRestart))
			}
			old := learnerPhase(bySlot, m.Slot)
			if _, ok := m.Inner.(paxos.ValueAcc[Value]); ok && old != "Polling" {
				glog.Warningf("provider: learner slot %v ignored stale response while in phase %s", m.Slot, old)
			}
			out := adapt(bySlot.Step(m))
			logLearnerTransition(p.learnerID, m.Slot, old, learnerPhase(bySlot, m.Slot))
			return out
		default:
			return nil
		}
	})
}

func learnerPhase(bySlot *slot.Combinator[Value], s slot.ID) string {
	l, ok := bySlot.Instance(s).(*paxos.Learner[Value])
	if !ok {
		return ""
	}
	return l.Phase()
}

func logLearnerTransition(self ident.ID, s slot.ID, old, next string) {
	if old != next {
		glog.V(1).Infof("provider: learner %v slot %v phase %s -> %s", self, s, old, next)
	}
}

// drain collects every envelope already buffered on mb without
// blocking, letting the proposer actor batch a tick's worth of work for
// package bunch the way the teacher's per-round batching collects
// everything pending before a step.
func drain(mb *mailbox.Mailbox) []interface{} {
	var extra []interface{}
	for {
		select {
		case env := <-mb.Recv():
			extra = append(extra, env.Msg)
		default:
			return extra
		}
	}
}

// ProposerHandle lets a client drive one proposer round for one slot
// without managing its own mailbox plumbing directly.
type ProposerHandle struct {
	p    *Provider
	self ident.ID
	mb   *mailbox.Mailbox
	slot slot.ID
}

// MakeProposer registers a mailbox for the caller-supplied client
// identity self, which receives this slot's decision.
func (p *Provider) MakeProposer(self ident.ID, slotID slot.ID) *ProposerHandle {
	return &ProposerHandle{p: p, self: self, mb: p.rt.Register(self), slot: slotID}
}

// Propose sends v into the standing proposer actor for this handle's
// slot and blocks until that slot decides. A slot decides at most once:
// calling Propose again for a slot that already decided (a retry after
// a dropped reply, or a second Write against the same slot) does not
// start a new round — it replays the existing decision, ignoring v.
func (h *ProposerHandle) Propose(v Value) Value {
	h.mb.Send(h.p.proposerID, proposeRequest{Slot: h.slot, Requester: h.self, Value: v})
	for env := range h.mb.Recv() {
		if r, ok := env.Msg.(decidedReply); ok && r.Slot == h.slot {
			return r.Value
		}
	}
	return Value{}
}

// Stop releases this handle's ephemeral mailbox.
func (h *ProposerHandle) Stop() {
	h.mb.Stop()
}

// LearnerHandle drives one learner read for one slot.
type LearnerHandle struct {
	p    *Provider
	self ident.ID
	mb   *mailbox.Mailbox
	slot slot.ID
}

// MakeLearner registers a mailbox for the caller-supplied client
// identity self, which receives this slot's learned value.
func (p *Provider) MakeLearner(self ident.ID, slotID slot.ID) *LearnerHandle {
	return &LearnerHandle{p: p, self: self, mb: p.rt.Register(self), slot: slotID}
}

// Read sends a query into the standing learner actor for this handle's
// slot and blocks until it answers.
func (h *LearnerHandle) Read() Value {
	h.mb.Send(h.p.learnerID, queryRequest{Slot: h.slot, Requester: h.self})
	for env := range h.mb.Recv() {
		if r, ok := env.Msg.(decidedReply); ok && r.Slot == h.slot {
			return r.Value
		}
	}
	return Value{}
}

func (h *LearnerHandle) Stop() {
	h.mb.Stop()
}

// Acceptors exposes the acceptor identities this Provider started, for
// callers (e.g. package register) that address them directly.
func (p *Provider) Acceptors() *ident.Set {
	return p.acceptors
}

func adapt(outgoing []paxos.Outgoing) []mailbox.Outgoing {
	converted := make([]mailbox.Outgoing, len(outgoing))
	for i, o := range outgoing {
		converted[i] = mailbox.Outgoing{To: o.To, Msg: o.Msg}
	}
	return converted
}
