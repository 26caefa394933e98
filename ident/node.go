// Package ident provides the opaque participant identity used to address
// Paxos role instances, independent of any transport.
package ident

import (
	"math"
	"strconv"
)

const (
	MinSlot = Slot(-1)
	MaxSlot = Slot(math.MaxInt8)
)

// Slot is a participant's position within the fixed set of role instances
// reachable through a mailbox.Runtime. It is unrelated to the multi-decree
// slot.ID type in package slot, which names a consensus instance rather
// than a participant.
type Slot int8

// ID names one participant: a stable handle that can be used to send a
// message to exactly one role instance. Epoch distinguishes successive
// incarnations of the same Slot, so a restarted participant never
// collides with its own stale messages still in flight.
type ID struct {
	Slot  Slot
	Epoch uint64
}

func New(slot Slot, epoch uint64) ID {
	return ID{Slot: slot, Epoch: epoch}
}

func NewFromInt(slot int8, epoch uint64) ID {
	return ID{Slot: Slot(slot), Epoch: epoch}
}

var undefined = NewFromInt(-1, 0)

// Undefined returns the sentinel ID used where no participant applies.
func Undefined() ID {
	return undefined
}

// CompareTo orders IDs by Slot, breaking ties by Epoch.
func (id ID) CompareTo(other ID) int {
	if id.Slot > other.Slot {
		return 1
	} else if id.Slot < other.Slot {
		return -1
	}
	if id.Epoch > other.Epoch {
		return 1
	} else if id.Epoch < other.Epoch {
		return -1
	}
	return 0
}

func (id ID) String() string {
	return strconv.Itoa(int(id.Slot)) + "-" + strconv.FormatUint(id.Epoch, 10)
}

// Set is an unordered collection of participant identities, typically the
// acceptor set a Proposer or Learner addresses.
type Set struct {
	ids []ID
}

func NewSet(ids ...ID) *Set {
	cp := make([]ID, len(ids))
	copy(cp, ids)
	return &Set{ids: cp}
}

func (s *Set) IDs() []ID {
	return s.ids
}

func (s *Set) Len() int {
	return len(s.ids)
}

// Quorum is the smallest strict-majority size for this set.
func (s *Set) Quorum() int {
	return len(s.ids)/2 + 1
}
