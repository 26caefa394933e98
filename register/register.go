// Package register is the thin client facade spec.md 4.7 describes: a
// single-slot read/write pair built entirely out of one provider.Provider
// proposer round and one learner read, with no state of its own beyond
// the identities of the two.
package register

import (
	"github.com/certichain/protocol-combinators/ident"
	"github.com/certichain/protocol-combinators/provider"
	"github.com/certichain/protocol-combinators/slot"
)

// Register addresses exactly one consensus slot behind read()/write(v).
type Register struct {
	p    *provider.Provider
	self ident.ID
	slot slot.ID
	seq  uint64
}

// New returns a Register over slotID, addressed with the ephemeral
// client identities it mints per call rooted at self.
func New(p *provider.Provider, self ident.ID, slotID slot.ID) *Register {
	return &Register{p: p, self: self, slot: slotID}
}

// Write proposes v for this slot and returns whichever value the round
// actually decided — v if no conflicting proposal won the ballot, the
// surviving value otherwise, per spec.md 4.2's tie-break. A slot
// decides at most once: calling Write again on a Register whose slot
// already decided (a retry after a dropped reply, or a deliberate
// second write) does not start a new round — it replays the existing
// decision, ignoring this call's v.
func (r *Register) Write(v provider.Value) provider.Value {
	h := r.p.MakeProposer(r.clientID(), r.slot)
	defer h.Stop()
	return h.Propose(v)
}

// Read returns whatever a quorum of acceptors currently agree on for
// this slot, restarting the poll internally while a majority of
// acceptors report no value.
func (r *Register) Read() provider.Value {
	h := r.p.MakeLearner(r.clientID(), r.slot)
	defer h.Stop()
	return h.Read()
}

// clientID mints a fresh ephemeral identity per call, rooted at self,
// so concurrent calls on the same Register never share a mailbox.
func (r *Register) clientID() ident.ID {
	r.seq++
	return ident.New(r.self.Slot, r.self.Epoch+r.seq)
}
