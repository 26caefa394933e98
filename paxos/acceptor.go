package paxos

import "github.com/certichain/protocol-combinators/ident"

// Acceptor is a single-decree Paxos acceptor. Step is total over the
// message types it recognizes and is a no-op on anything else; the
// acceptor never fails and never retransmits.
type Acceptor[T comparable] struct {
	Self ID

	// currentBallot is non-decreasing across every Step.
	currentBallot Ballot

	// accepted is the append-only log of every accepted (ballot, value)
	// pair. Only the highest-ballot entry is ever consulted; maxAccepted
	// caches it so reads are O(1) rather than O(len(accepted)).
	accepted    []Entry[T]
	maxAccepted Entry[T]

	// strict switches the promise rule from the default >= discipline
	// multi-paxos leader stickiness relies on to classical single-decree
	// Paxos's strictly-greater rule. See SetStrictBallotDiscipline.
	strict bool
}

// ID is a participant address; defined here to avoid importing ident
// from every caller of this package.
type ID = ident.ID

// NewAcceptor returns an Acceptor with CurrentBallot == ZeroBallot, an
// empty accepted log, and the default >= promise rule.
func NewAcceptor[T comparable](self ID) *Acceptor[T] {
	return &Acceptor[T]{Self: self, currentBallot: ZeroBallot}
}

// SetStrictBallotDiscipline switches a's promise rule per spec.md 4.1
// and 9: strict requires a Phase1A's ballot to be greater than (not
// merely at least) currentBallot, matching classical single-decree
// Paxos instead of the default multi-paxos-friendly >= rule.
func (a *Acceptor[T]) SetStrictBallotDiscipline(strict bool) {
	a.strict = strict
}

// CurrentBallot reports the acceptor's current ballot.
func (a *Acceptor[T]) CurrentBallot() Ballot {
	return a.currentBallot
}

// MaxAccepted reports the highest-ballot accepted entry, or an Entry
// with OK == false if none has been accepted.
func (a *Acceptor[T]) MaxAccepted() Entry[T] {
	return a.maxAccepted
}

// Step processes one message and returns the outgoing messages it
// produces. Unrecognized message types yield nil.
func (a *Acceptor[T]) Step(msg interface{}) []Outgoing {
	switch m := msg.(type) {
	case Phase1A:
		return a.stepPrepare(m)
	case Phase2A[T]:
		return a.stepAccept(m)
	case QueryAcceptor:
		return a.stepQuery(m)
	default:
		return nil
	}
}

// stepPrepare implements spec.md 4.1's prepare rule with the >= ballot
// discipline the combinator stack requires for multi-paxos leader
// stickiness: a leader re-preparing at its own ballot must still be
// promised, not rejected as stale.
func (a *Acceptor[T]) stepPrepare(m Phase1A) []Outgoing {
	if a.strict {
		if !m.Ballot.Greater(a.currentBallot) {
			return nil
		}
	} else if m.Ballot.Less(a.currentBallot) {
		return nil
	}
	a.currentBallot = m.Ballot
	return []Outgoing{to(m.From, Phase1B[T]{
		Promise:  true,
		From:     a.Self,
		Accepted: a.maxAccepted,
	})}
}

func (a *Acceptor[T]) stepAccept(m Phase2A[T]) []Outgoing {
	if !m.Ballot.Equal(a.currentBallot) {
		return nil
	}

	entry := some(m.Ballot, m.Value)
	a.accepted = append(a.accepted, entry)
	if !a.maxAccepted.OK || entry.Ballot.Greater(a.maxAccepted.Ballot) {
		a.maxAccepted = entry
	}

	return []Outgoing{to(m.From, Phase2B{
		Ballot: m.Ballot,
		From:   a.Self,
		Ack:    true,
	})}
}

func (a *Acceptor[T]) stepQuery(m QueryAcceptor) []Outgoing {
	return []Outgoing{to(m.Requester, ValueAcc[T]{
		From:  a.Self,
		Value: a.maxAccepted,
	})}
}
