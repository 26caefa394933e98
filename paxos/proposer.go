package paxos

import "errors"

// ErrProposerNotReady is returned by Decide when the proposer has not
// yet decided, i.e. no quorum of promises has been received. It is a
// precondition violation in the calling combinator, never a runtime
// condition Step itself produces.
var ErrProposerNotReady = errors.New("paxos: proposer not ready to decide")

type proposerPhase int

const (
	phaseInit proposerPhase = iota
	phaseCollecting
	phaseDecided
)

// Proposer drives one ballot's worth of the Paxos protocol to decision.
// MyBallot is immutable for the lifetime of the instance; a client that
// needs a higher ballot constructs a new Proposer.
type Proposer[T comparable] struct {
	Self      ID
	MyBallot  Ballot
	acceptors idSet

	phase     proposerPhase
	fallback  T
	responses map[ID]Entry[T]
}

// idSet is the minimal acceptor-set view the core needs: membership and
// quorum size. It is satisfied by *ident.Set.
type idSet interface {
	IDs() []ID
	Quorum() int
}

// NewProposer returns a Proposer in phase Init, addressing acceptors.
func NewProposer[T comparable](self ID, ballot Ballot, acceptors idSet) *Proposer[T] {
	return &Proposer[T]{
		Self:      self,
		MyBallot:  ballot,
		acceptors: acceptors,
	}
}

// Decided reports whether this proposer has reached a decision.
func (p *Proposer[T]) Decided() bool {
	return p.phase == phaseDecided
}

// Phase names the proposer's current phase, for a host actor that logs
// phase transitions rather than reasoning about protocol state itself.
func (p *Proposer[T]) Phase() string {
	switch p.phase {
	case phaseCollecting:
		return "Collecting"
	case phaseDecided:
		return "Decided"
	default:
		return "Init"
	}
}

// Step processes one message and returns the outgoing messages it
// produces.
func (p *Proposer[T]) Step(msg interface{}) []Outgoing {
	switch m := msg.(type) {
	case ProposeValue[T]:
		return p.stepPropose(m)
	case Phase1B[T]:
		return p.stepPromise(m)
	default:
		return nil
	}
}

func (p *Proposer[T]) stepPropose(m ProposeValue[T]) []Outgoing {
	if p.phase != phaseInit {
		return nil
	}
	p.phase = phaseCollecting
	p.fallback = m.Value
	p.responses = make(map[ID]Entry[T])

	return Broadcast(p.acceptors.IDs(), Phase1A{Ballot: p.MyBallot, From: p.Self})
}

func (p *Proposer[T]) stepPromise(m Phase1B[T]) []Outgoing {
	if p.phase != phaseCollecting || !m.Promise {
		return nil
	}
	if _, seen := p.responses[m.From]; seen {
		return nil
	}

	p.responses[m.From] = m.Accepted

	if len(p.responses) < p.acceptors.Quorum() {
		return nil
	}

	value := p.chooseValue()
	p.phase = phaseDecided

	dests := make([]ID, 0, len(p.responses))
	for id := range p.responses {
		dests = append(dests, id)
	}

	return Broadcast(dests, Phase2A[T]{Ballot: p.MyBallot, From: p.Self, Value: value})
}

// chooseValue implements spec.md 4.2's tie-break: the accepted value
// with the highest ballot across the quorum's responses, or the
// fallback value if every response was empty. Ballot uniqueness
// (paxos.Ballot.Compare) guarantees there is never an actual tie.
func (p *Proposer[T]) chooseValue() T {
	best := none[T]()
	for _, entry := range p.responses {
		if entry.OK && (!best.OK || entry.Ballot.Greater(best.Ballot)) {
			best = entry
		}
	}
	if best.OK {
		return best.Value
	}
	return p.fallback
}

// Decide exposes the chosen value once the proposer has reached
// phaseDecided, primarily for combinators and tests that want the
// outcome without re-deriving it from the last Phase2A broadcast.
func (p *Proposer[T]) Decide() (T, error) {
	if p.phase != phaseDecided {
		var zero T
		return zero, ErrProposerNotReady
	}
	return p.chooseValue(), nil
}
