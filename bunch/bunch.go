// Package bunch extends the slot-replicating combinator so that several
// slots' outputs produced within one inbox delivery are collected into a
// single batch before a post-processing hook runs, letting the hook
// inspect or filter across slots rather than one at a time.
package bunch

import (
	"github.com/certichain/protocol-combinators/paxos"
	"github.com/certichain/protocol-combinators/slot"
)

// Meta is the auxiliary per-slot metadata the batch carries alongside
// its outgoing messages: the latest Phase2A payload and ballot observed
// for that slot, and whether the slot has proposed at all. The
// stoppable combinator consults this to veto cross-slot violations.
type Meta[T comparable] struct {
	HasProposed bool
	Ballot      paxos.Ballot
	Value       T
}

// Snapshot is the read-only view of every slot's latest Meta a
// post-processing hook needs to reason about other slots.
type Snapshot[T comparable] interface {
	MetaOf(s slot.ID) (Meta[T], bool)
	Slots() []slot.ID
}

// Hook post-processes the outgoing messages produced for one slot
// within the current batch's tick, given a snapshot of every slot's
// metadata (including this one) as it stands after every message of the
// tick has been stepped.
type Hook[T comparable] func(forSlot slot.ID, outgoing []paxos.Outgoing, snap Snapshot[T]) []paxos.Outgoing

// Combinator wraps a slot.Combinator, reusing its per-slot role logic
// unchanged, and adds the batching and metadata tracking a higher layer
// (e.g. package stoppable) needs.
type Combinator[T comparable] struct {
	slots *slot.Combinator[T]
	meta  map[slot.ID]Meta[T]
	hook  Hook[T]
}

// New wraps slots. hook may be nil, in which case Step passes outgoing
// messages through unchanged — a plain batching multiplexer with no
// cross-slot filtering.
func New[T comparable](slots *slot.Combinator[T], hook Hook[T]) *Combinator[T] {
	return &Combinator[T]{
		slots: slots,
		meta:  make(map[slot.ID]Meta[T]),
		hook:  hook,
	}
}

// SetHook installs or replaces the post-processing hook.
func (c *Combinator[T]) SetHook(hook Hook[T]) {
	c.hook = hook
}

// MetaOf implements Snapshot.
func (c *Combinator[T]) MetaOf(s slot.ID) (Meta[T], bool) {
	m, ok := c.meta[s]
	return m, ok
}

// Slots implements Snapshot, returning every slot that has proposed at
// least once. Iteration order is unspecified; callers that need a
// total order over slots (e.g. the stoppable veto) must sort it.
func (c *Combinator[T]) Slots() []slot.ID {
	ids := make([]slot.ID, 0, len(c.meta))
	for s := range c.meta {
		ids = append(ids, s)
	}
	return ids
}

// Step processes every message in msgs against its addressed slot,
// updates each slot's Meta from any Phase2A it produced, and only then
// invokes the hook for every slot — so the hook sees every slot's
// pre-tick metadata and, for the slots this tick touched, the just
// recomputed one, uniformly.
//
// Per-slot message order within msgs is preserved in the returned
// outgoing messages.
func (c *Combinator[T]) Step(msgs []slot.Message) []paxos.Outgoing {
	type pending struct {
		slot slot.ID
		out  []paxos.Outgoing
	}

	batch := make([]pending, 0, len(msgs))
	for _, m := range msgs {
		out := c.slots.Step(m)
		c.observe(m.Slot, out)
		batch = append(batch, pending{slot: m.Slot, out: out})
	}

	var result []paxos.Outgoing
	for _, p := range batch {
		processed := p.out
		if c.hook != nil {
			processed = c.hook(p.slot, p.out, c)
		}
		result = append(result, processed...)
	}
	return result
}

// observe scans outgoing for a Phase2A this slot just emitted and
// records it as that slot's latest proposal.
func (c *Combinator[T]) observe(s slot.ID, outgoing []paxos.Outgoing) {
	for _, o := range outgoing {
		env, ok := o.Msg.(slot.Message)
		if !ok {
			continue
		}
		a2, ok := env.Inner.(paxos.Phase2A[T])
		if !ok {
			continue
		}
		c.meta[s] = Meta[T]{HasProposed: true, Ballot: a2.Ballot, Value: a2.Value}
	}
}
