package paxos

import "github.com/certichain/protocol-combinators/ident"

// Entry is one (ballot, value) pair recorded by an Acceptor, or reported
// by an Acceptor/Learner in place of an absent value. OK is false for
// "no value", mirroring the teacher's accepted-slot representation
// without overloading a T zero value as a sentinel.
type Entry[T comparable] struct {
	OK     bool
	Ballot Ballot
	Value  T
}

func none[T comparable]() Entry[T] {
	return Entry[T]{}
}

func some[T comparable](b Ballot, v T) Entry[T] {
	return Entry[T]{OK: true, Ballot: b, Value: v}
}

// Phase1A is the prepare message, proposer -> acceptor.
type Phase1A struct {
	Ballot Ballot
	From   ident.ID
}

// Phase1B is the promise reply, acceptor -> proposer.
type Phase1B[T comparable] struct {
	Promise  bool
	From     ident.ID
	Accepted Entry[T]
}

// Phase2A is the accept request, proposer -> acceptor.
type Phase2A[T comparable] struct {
	Ballot Ballot
	From   ident.ID
	Value  T
}

// Phase2B is the accept ack, acceptor -> proposer.
type Phase2B struct {
	Ballot Ballot
	From   ident.ID
	Ack    bool
}

// ProposeValue is the client -> proposer request to start a round.
type ProposeValue[T comparable] struct {
	Value T
}

// QueryAcceptor is a learner's read request.
type QueryAcceptor struct {
	Requester ident.ID
}

// ValueAcc is an acceptor's reply to QueryAcceptor.
type ValueAcc[T comparable] struct {
	From  ident.ID
	Value Entry[T]
}

// QueryLearner is a client's (or a restarting learner's own) read request.
type QueryLearner struct {
	Requester ident.ID
}

// LearnedAgreedValue is the learner's reply once a quorum agrees.
type LearnedAgreedValue[T comparable] struct {
	Value T
	From  ident.ID
}
