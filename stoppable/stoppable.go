// Package stoppable implements the stoppable-Paxos cross-slot veto: a
// post-processing hook for package bunch that voids Phase2A proposals
// which would violate the rule that once a Stop is chosen at some slot,
// no later slot may decide non-voided data at or above the Stop's
// ballot, and symmetrically for a Stop proposed after a later Data.
package stoppable

import (
	"sort"

	"github.com/certichain/protocol-combinators/bunch"
	"github.com/certichain/protocol-combinators/paxos"
	"github.com/certichain/protocol-combinators/slot"
)

// Tag discriminates the three DataOrStop variants.
type Tag int

const (
	TagData Tag = iota
	TagStop
	TagVoided
)

// DataOrStop is the tagged value type a stoppable Paxos instance agrees
// on: ordinary application data, a distinguished Stop marker that
// terminates the slot sequence, or a Voided placeholder emitted only by
// Veto to replace a payload the cross-slot rule forbids.
type DataOrStop[T comparable] struct {
	Tag    Tag
	Data   T
	StopID string
	Reason string
}

func Data[T comparable](v T) DataOrStop[T] {
	return DataOrStop[T]{Tag: TagData, Data: v}
}

func Stop[T comparable](id string) DataOrStop[T] {
	return DataOrStop[T]{Tag: TagStop, StopID: id}
}

func Voided[T comparable](reason string) DataOrStop[T] {
	return DataOrStop[T]{Tag: TagVoided, Reason: reason}
}

func (d DataOrStop[T]) IsData() bool   { return d.Tag == TagData }
func (d DataOrStop[T]) IsStop() bool   { return d.Tag == TagStop }
func (d DataOrStop[T]) IsVoided() bool { return d.Tag == TagVoided }

// Veto is a bunch.Hook[DataOrStop[T]]. It inspects only Phase2A outputs;
// everything else passes through unchanged.
func Veto[T comparable](forSlot slot.ID, outgoing []paxos.Outgoing, snap bunch.Snapshot[DataOrStop[T]]) []paxos.Outgoing {
	result := make([]paxos.Outgoing, len(outgoing))
	copy(result, outgoing)

	for i, o := range result {
		env, ok := o.Msg.(slot.Message)
		if !ok {
			continue
		}
		a2, ok := env.Inner.(paxos.Phase2A[DataOrStop[T]])
		if !ok {
			continue
		}

		if voided, reason := vetoDecision(forSlot, a2.Ballot, a2.Value, snap); voided {
			a2.Value = Voided[T](reason)
			env.Inner = a2
			result[i] = paxos.Outgoing{To: o.To, Msg: env}
		}
	}

	return result
}

// vetoDecision implements spec.md 4.6's two rules against the snapshot
// of every other slot's latest proposal, treating a slot that has not
// yet proposed as (None, -1) — i.e. it can never trigger either rule.
func vetoDecision[T comparable](i slot.ID, mbalI paxos.Ballot, payload DataOrStop[T], snap bunch.Snapshot[DataOrStop[T]]) (bool, string) {
	others := snap.Slots()
	sort.Slice(others, func(a, b int) bool { return others[a] < others[b] })

	switch {
	case payload.IsData():
		for _, j := range others {
			if j >= i {
				continue
			}
			meta, ok := snap.MetaOf(j)
			if !ok || !meta.HasProposed {
				continue
			}
			if meta.Value.IsStop() {
				return true, "Data (Earlier Stop)"
			}
		}
	case payload.IsStop():
		for _, j := range others {
			if j <= i {
				continue
			}
			meta, ok := snap.MetaOf(j)
			if !ok || !meta.HasProposed {
				continue
			}
			if !meta.Value.IsStop() && meta.Ballot.Compare(mbalI) >= 0 {
				return true, "Stop (Later Data)"
			}
		}
	}

	return false, ""
}
