package paxos

import (
	"github.com/certichain/protocol-combinators/ident"
	gc "gopkg.in/check.v1"
)

type lrnSuite struct{}

var _ = gc.Suite(&lrnSuite{})

func (*lrnSuite) TestValueAccDroppedWhileIdle(c *gc.C) {
	l := NewLearner[string](self, threeAcceptors())
	out := l.Step(ValueAcc[string]{From: leader, Value: some(ballotAt(1), "X")})
	c.Assert(out, gc.IsNil)
}

// Scenario 1 (spec.md 8): a learner query over a quorum reporting the
// same value returns that value.
func (*lrnSuite) TestQuorumAgreement(c *gc.C) {
	accs := threeAcceptors()
	ids := accs.IDs()
	l := NewLearner[string](self, accs)
	requester := ident.New(5, 0)

	out := l.Step(QueryLearner{Requester: requester})
	c.Assert(out, gc.HasLen, 3)

	l.Step(ValueAcc[string]{From: ids[0], Value: some(ballotAt(10), "X")})
	final := l.Step(ValueAcc[string]{From: ids[1], Value: some(ballotAt(10), "X")})

	c.Assert(final, gc.HasLen, 1)
	learned := final[0].Msg.(LearnedAgreedValue[string])
	c.Assert(learned.Value, gc.Equals, "X")
	c.Assert(final[0].To, gc.Equals, requester)
}

// Scenario 4 (spec.md 8): majority-of-none restarts rather than
// reporting "agreed on None".
func (*lrnSuite) TestMajorityNoneRestarts(c *gc.C) {
	accs := threeAcceptors()
	ids := accs.IDs()
	l := NewLearner[string](self, accs)
	requester := ident.New(5, 0)

	l.Step(QueryLearner{Requester: requester})
	l.Step(ValueAcc[string]{From: ids[0], Value: none[string]()})
	out := l.Step(ValueAcc[string]{From: ids[1], Value: none[string]()})

	c.Assert(out, gc.HasLen, 1)
	restart := out[0].Msg.(QueryLearner)
	c.Assert(out[0].To, gc.Equals, self)
	c.Assert(restart.Requester, gc.Equals, requester)

	// Second round with one accepted value completes normally.
	l.Step(restart)
	l.Step(ValueAcc[string]{From: ids[0], Value: some(ballotAt(1), "Y")})
	final := l.Step(ValueAcc[string]{From: ids[1], Value: some(ballotAt(1), "Y")})
	c.Assert(final, gc.HasLen, 1)
	c.Assert(final[0].Msg.(LearnedAgreedValue[string]).Value, gc.Equals, "Y")
}

func (*lrnSuite) TestNoMajorityYetProducesNoOutput(c *gc.C) {
	accs := ident.NewSet(ident.New(0, 0), ident.New(1, 0), ident.New(2, 0), ident.New(3, 0), ident.New(4, 0))
	ids := accs.IDs()
	l := NewLearner[string](self, accs)
	requester := ident.New(5, 0)

	l.Step(QueryLearner{Requester: requester})
	l.Step(ValueAcc[string]{From: ids[0], Value: some(ballotAt(1), "X")})
	out := l.Step(ValueAcc[string]{From: ids[1], Value: some(ballotAt(1), "Y")})
	c.Assert(out, gc.IsNil)
}
