package paxos

import (
	"github.com/certichain/protocol-combinators/ident"
	gc "gopkg.in/check.v1"
)

type propSuite struct{}

var _ = gc.Suite(&propSuite{})

func threeAcceptors() *ident.Set {
	return ident.NewSet(ident.New(0, 0), ident.New(1, 0), ident.New(2, 0))
}

// Scenario 1 (spec.md 8): happy single decree.
func (*propSuite) TestHappyPath(c *gc.C) {
	accs := threeAcceptors()
	p := NewProposer[string](leader, ballotAt(10), accs)

	out := p.Step(ProposeValue[string]{Value: "X"})
	c.Assert(out, gc.HasLen, 3)
	for _, o := range out {
		c.Assert(o.Msg.(Phase1A).Ballot, gc.Equals, ballotAt(10))
	}

	var final []Outgoing
	for _, id := range accs.IDs()[:2] {
		final = p.Step(Phase1B[string]{Promise: true, From: id, Accepted: none[string]()})
	}
	c.Assert(final, gc.HasLen, 2)
	for _, o := range final {
		a2 := o.Msg.(Phase2A[string])
		c.Assert(a2.Value, gc.Equals, "X")
	}
	c.Assert(p.Decided(), gc.Equals, true)

	v, err := p.Decide()
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, "X")
}

// Scenario 2 (spec.md 8): a previously accepted value at a lower ballot
// must win over the proposer's own fallback value.
func (*propSuite) TestValueRecovery(c *gc.C) {
	accs := threeAcceptors()
	ids := accs.IDs()
	p := NewProposer[string](leader, ballotAt(7), accs)

	p.Step(ProposeValue[string]{Value: "Z"})
	p.Step(Phase1B[string]{Promise: true, From: ids[0], Accepted: some(ballotAt(5), "Y")})
	out := p.Step(Phase1B[string]{Promise: true, From: ids[1], Accepted: none[string]()})

	c.Assert(out, gc.HasLen, 2)
	for _, o := range out {
		c.Assert(o.Msg.(Phase2A[string]).Value, gc.Equals, "Y")
	}
}

func (*propSuite) TestDecideBeforeQuorumFails(c *gc.C) {
	p := NewProposer[string](leader, ballotAt(1), threeAcceptors())
	p.Step(ProposeValue[string]{Value: "X"})

	_, err := p.Decide()
	c.Assert(err, gc.Equals, ErrProposerNotReady)
}

func (*propSuite) TestSecondProposeIgnored(c *gc.C) {
	p := NewProposer[string](leader, ballotAt(1), threeAcceptors())
	p.Step(ProposeValue[string]{Value: "X"})
	out := p.Step(ProposeValue[string]{Value: "ignored"})
	c.Assert(out, gc.IsNil)
}

func (*propSuite) TestDuplicatePromiseFromSameAcceptorIgnored(c *gc.C) {
	accs := threeAcceptors()
	ids := accs.IDs()
	p := NewProposer[string](leader, ballotAt(1), accs)
	p.Step(ProposeValue[string]{Value: "X"})

	p.Step(Phase1B[string]{Promise: true, From: ids[0], Accepted: none[string]()})
	out := p.Step(Phase1B[string]{Promise: true, From: ids[0], Accepted: none[string]()})
	c.Assert(out, gc.IsNil)
	c.Assert(p.Decided(), gc.Equals, false)
}

func (*propSuite) TestDecidedProposerIgnoresFurtherMessages(c *gc.C) {
	accs := threeAcceptors()
	ids := accs.IDs()
	p := NewProposer[string](leader, ballotAt(1), accs)
	p.Step(ProposeValue[string]{Value: "X"})
	p.Step(Phase1B[string]{Promise: true, From: ids[0], Accepted: none[string]()})
	p.Step(Phase1B[string]{Promise: true, From: ids[1], Accepted: none[string]()})
	c.Assert(p.Decided(), gc.Equals, true)

	out := p.Step(Phase1B[string]{Promise: true, From: ids[2], Accepted: none[string]()})
	c.Assert(out, gc.IsNil)
}
