package paxos

import (
	"testing"

	"github.com/certichain/protocol-combinators/ident"
	gc "gopkg.in/check.v1"
)

func TestAcceptorSuite(t *testing.T) { gc.TestingT(t) }

type accSuite struct{}

var _ = gc.Suite(&accSuite{})

var (
	self   = ident.New(0, 0)
	leader = ident.New(1, 0)
)

func ballotAt(round uint64) Ballot {
	return Ballot{Round: round, Proposer: leader}
}

// Scenario 3 (spec.md 8): stale ballot is rejected, an equal-or-higher
// one is promised.
func (*accSuite) TestStaleBallotRejected(c *gc.C) {
	a := NewAcceptor[string](self)
	a.currentBallot = ballotAt(20)

	out := a.Step(Phase1A{Ballot: ballotAt(15), From: leader})
	c.Assert(out, gc.IsNil)
	c.Assert(a.CurrentBallot(), gc.Equals, ballotAt(20))

	out = a.Step(Phase1A{Ballot: ballotAt(25), From: leader})
	c.Assert(out, gc.HasLen, 1)
	c.Assert(out[0].To, gc.Equals, leader)
	promise := out[0].Msg.(Phase1B[string])
	c.Assert(promise.Promise, gc.Equals, true)
	c.Assert(promise.Accepted.OK, gc.Equals, false)
	c.Assert(a.CurrentBallot(), gc.Equals, ballotAt(25))
}

func (*accSuite) TestEqualBallotPromised(c *gc.C) {
	a := NewAcceptor[string](self)
	a.currentBallot = ballotAt(10)

	out := a.Step(Phase1A{Ballot: ballotAt(10), From: leader})
	c.Assert(out, gc.HasLen, 1)
	promise := out[0].Msg.(Phase1B[string])
	c.Assert(promise.Promise, gc.Equals, true)
}

func (*accSuite) TestAcceptAtCurrentBallotRecorded(c *gc.C) {
	a := NewAcceptor[string](self)
	a.Step(Phase1A{Ballot: ballotAt(10), From: leader})

	out := a.Step(Phase2A[string]{Ballot: ballotAt(10), From: leader, Value: "X"})
	c.Assert(out, gc.HasLen, 1)
	ack := out[0].Msg.(Phase2B)
	c.Assert(ack.Ack, gc.Equals, true)

	entry := a.MaxAccepted()
	c.Assert(entry.OK, gc.Equals, true)
	c.Assert(entry.Value, gc.Equals, "X")
}

func (*accSuite) TestAcceptAtWrongBallotIgnored(c *gc.C) {
	a := NewAcceptor[string](self)
	a.Step(Phase1A{Ballot: ballotAt(10), From: leader})

	out := a.Step(Phase2A[string]{Ballot: ballotAt(9), From: leader, Value: "X"})
	c.Assert(out, gc.IsNil)
	c.Assert(a.MaxAccepted().OK, gc.Equals, false)
}

// Idempotence of acceptor on duplicate Phase2A (spec.md 8).
func (*accSuite) TestDuplicateAcceptIdempotent(c *gc.C) {
	a := NewAcceptor[string](self)
	a.Step(Phase1A{Ballot: ballotAt(10), From: leader})
	a.Step(Phase2A[string]{Ballot: ballotAt(10), From: leader, Value: "X"})
	out := a.Step(Phase2A[string]{Ballot: ballotAt(10), From: leader, Value: "X"})

	c.Assert(out, gc.HasLen, 1)
	c.Assert(out[0].Msg.(Phase2B).Ack, gc.Equals, true)
	c.Assert(a.MaxAccepted().Value, gc.Equals, "X")
}

func (*accSuite) TestQueryReturnsMaxAccepted(c *gc.C) {
	a := NewAcceptor[string](self)
	a.Step(Phase1A{Ballot: ballotAt(5), From: leader})
	a.Step(Phase2A[string]{Ballot: ballotAt(5), From: leader, Value: "Y"})

	requester := ident.New(2, 0)
	out := a.Step(QueryAcceptor{Requester: requester})
	c.Assert(out, gc.HasLen, 1)
	resp := out[0].Msg.(ValueAcc[string])
	c.Assert(resp.Value.OK, gc.Equals, true)
	c.Assert(resp.Value.Value, gc.Equals, "Y")
}

func (*accSuite) TestUnrecognizedMessageIgnored(c *gc.C) {
	a := NewAcceptor[string](self)
	out := a.Step("not a paxos message")
	c.Assert(out, gc.IsNil)
}

// Under strict ballot discipline, a leader re-preparing at its own
// current ballot is rejected rather than re-promised.
func (*accSuite) TestStrictDisciplineRejectsEqualBallot(c *gc.C) {
	a := NewAcceptor[string](self)
	a.SetStrictBallotDiscipline(true)
	a.currentBallot = ballotAt(10)

	out := a.Step(Phase1A{Ballot: ballotAt(10), From: leader})
	c.Assert(out, gc.IsNil)

	out = a.Step(Phase1A{Ballot: ballotAt(11), From: leader})
	c.Assert(out, gc.HasLen, 1)
}
