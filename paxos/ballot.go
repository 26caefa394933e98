package paxos

import "github.com/certichain/protocol-combinators/ident"

// ZeroBallot is the sentinel "none" ballot: every acceptor starts with
// CurrentBallot == ZeroBallot, and it compares below any ballot with
// Round >= 1.
var ZeroBallot = Ballot{Round: 0, Proposer: ident.Undefined()}

// Ballot is a totally ordered, per-Proposer-unique round number. Per
// spec.md's recommendation, uniqueness is encoded structurally as
// (Round, Proposer) rather than left to the caller to guarantee.
type Ballot struct {
	Round    uint64
	Proposer ident.ID
}

// NewBallot returns the first ballot owned by proposer.
func NewBallot(proposer ident.ID) Ballot {
	return Ballot{Round: 1, Proposer: proposer}
}

// Compare returns -1, 0 or 1 as b is less than, equal to, or greater
// than o, ordering first on Round and breaking ties on Proposer so that
// two proposers can never hold equal ballots at the same round.
func (b Ballot) Compare(o Ballot) int {
	if b.Round < o.Round {
		return -1
	} else if b.Round > o.Round {
		return 1
	}
	return b.Proposer.CompareTo(o.Proposer)
}

func (b Ballot) Less(o Ballot) bool    { return b.Compare(o) < 0 }
func (b Ballot) Greater(o Ballot) bool { return b.Compare(o) > 0 }
func (b Ballot) Equal(o Ballot) bool   { return b.Compare(o) == 0 }

// Next returns the ballot one round above b owned by proposer, which is
// strictly greater than b, for a client restarting a stalled round with
// a fresh ballot.
func (b Ballot) Next(proposer ident.ID) Ballot {
	return Ballot{Round: b.Round + 1, Proposer: proposer}
}
