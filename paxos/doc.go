/*
Package paxos provides the classical single-decree Paxos roles —
Acceptor, Proposer, Learner — as pure message-step state machines.

Each role exposes a single Step method: (current state, input message) ->
outgoing messages, with the state mutated in place. No role ever calls
another role directly; a Step's outgoing messages are addressed to other
roles and must be delivered by an external mailbox. See package mailbox
for a reference in-memory delivery mechanism, and packages slot, bunch
and stoppable for the combinators that lift these roles to multi-decree
and stoppable operation.
*/
package paxos
