// Package slot lifts a single-decree paxos.Role into multi-decree
// operation by demultiplexing slot-tagged messages to a per-slot family
// of role instances hosted behind one mailbox.
package slot

import (
	"github.com/certichain/protocol-combinators/paxos"
)

// ID names one independent consensus instance in multi-decree
// operation. It is unrelated to ident.ID, which names a participant.
type ID int64

// Message is the slot-tagged envelope every message crossing the
// combinator boundary is wrapped in.
type Message struct {
	Slot  ID
	Inner interface{}
}

// Factory lazily constructs the role instance for a slot the first time
// it is addressed. An instance is never destroyed once created.
type Factory[T comparable] func(slot ID) paxos.Role[T]

// Combinator hosts one role instance per slot behind a single Step
// method, reusing the wrapped role's logic unchanged. A message for
// slot s never perturbs the state of slot s' != s, since each slot owns
// a wholly separate role instance.
type Combinator[T comparable] struct {
	new       Factory[T]
	instances map[ID]paxos.Role[T]
}

// New returns a Combinator that creates role instances with new.
func New[T comparable](new Factory[T]) *Combinator[T] {
	return &Combinator[T]{
		new:       new,
		instances: make(map[ID]paxos.Role[T]),
	}
}

// Step unwraps a Message, steps the addressed slot's role instance, and
// re-wraps every outgoing message in an envelope for the same slot.
// Inputs that are not a Message are dropped, matching the leaf roles'
// rule of ignoring unrecognized input.
func (c *Combinator[T]) Step(msg interface{}) []paxos.Outgoing {
	sm, ok := msg.(Message)
	if !ok {
		return nil
	}

	outgoing := c.instanceFor(sm.Slot).Step(sm.Inner)
	wrapped := make([]paxos.Outgoing, len(outgoing))
	for i, o := range outgoing {
		wrapped[i] = paxos.Outgoing{To: o.To, Msg: Message{Slot: sm.Slot, Inner: o.Msg}}
	}
	return wrapped
}

// Instance returns the role instance for slot, creating it lazily if
// this is the first time slot has been addressed. Exposed so a host
// actor can poll per-slot accessors (e.g. a Proposer's Decide) without
// routing another message through Step.
func (c *Combinator[T]) Instance(slot ID) paxos.Role[T] {
	return c.instanceFor(slot)
}

func (c *Combinator[T]) instanceFor(slot ID) paxos.Role[T] {
	inst, ok := c.instances[slot]
	if !ok {
		inst = c.new(slot)
		c.instances[slot] = inst
	}
	return inst
}

// Proxy presents a slot-scoped facade to a client: Wrap rewrites an
// inner payload into this slot's envelope for outbound delivery, and
// Unwrap extracts the inner payload from an inbound Message addressed
// to this slot (dropping anything addressed to a different slot).
type Proxy struct {
	Slot ID
}

func NewProxy(slot ID) Proxy {
	return Proxy{Slot: slot}
}

func (p Proxy) Wrap(inner interface{}) Message {
	return Message{Slot: p.Slot, Inner: inner}
}

func (p Proxy) Unwrap(msg interface{}) (interface{}, bool) {
	sm, ok := msg.(Message)
	if !ok || sm.Slot != p.Slot {
		return nil, false
	}
	return sm.Inner, true
}
