// Package mailbox provides a minimal in-memory stand-in for the actor
// runtime spec.md 6 treats as an external collaborator: a stable
// identity per actor, serialized per-actor delivery, and a send
// primitive. It is not a wire protocol or a network transport — both
// are out of scope for the core — only enough to run the provider, the
// register facade, and the demo end to end within one process.
package mailbox

import (
	"sync"

	"github.com/golang/glog"

	"github.com/certichain/protocol-combinators/ident"
)

const inboxCapacity = 256

// Envelope pairs a message with its sender and destination, adapted
// from the teacher's net.Packet.
type Envelope struct {
	From ident.ID
	To   ident.ID
	Msg  interface{}
}

// Stepper is satisfied by a paxos.Role[T] (or any combinator built on
// top of one): a message in, outgoing messages out. Defined here
// without importing package paxos so mailbox has no dependency on the
// protocol core — it only moves opaque messages.
type Stepper interface {
	Step(msg interface{}) []Outgoing
}

// Outgoing mirrors paxos.Outgoing structurally; mailbox is deliberately
// ignorant of the paxos package, so Drive adapts between the two at the
// call site instead of importing it here.
type Outgoing struct {
	To  ident.ID
	Msg interface{}
}

// Runtime is the shared registry every Mailbox sends through. There is
// normally exactly one Runtime per process.
type Runtime struct {
	mu        sync.RWMutex
	mailboxes map[ident.ID]*Mailbox
}

func NewRuntime() *Runtime {
	return &Runtime{mailboxes: make(map[ident.ID]*Mailbox)}
}

// Mailbox is one actor's inbox. Messages sent to it are delivered in
// the order they arrive at this inbox, but delivery between any two
// actors is not assumed FIFO overall, matching spec.md 5.
type Mailbox struct {
	id    ident.ID
	rt    *Runtime
	inbox chan Envelope
	stop  chan struct{}
	once  sync.Once
}

// Register creates and registers a Mailbox for id. Registering the same
// id twice replaces the previous mailbox in the registry; the old one
// keeps running but can no longer be reached by address.
func (rt *Runtime) Register(id ident.ID) *Mailbox {
	mb := &Mailbox{
		id:    id,
		rt:    rt,
		inbox: make(chan Envelope, inboxCapacity),
		stop:  make(chan struct{}),
	}
	rt.mu.Lock()
	rt.mailboxes[id] = mb
	rt.mu.Unlock()
	return mb
}

// Deregister removes id from the registry without affecting the
// Mailbox's own goroutines; callers typically pair this with Stop.
func (rt *Runtime) Deregister(id ident.ID) {
	rt.mu.Lock()
	delete(rt.mailboxes, id)
	rt.mu.Unlock()
}

func (rt *Runtime) lookup(id ident.ID) (*Mailbox, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	mb, ok := rt.mailboxes[id]
	return mb, ok
}

// ID returns this mailbox's address.
func (mb *Mailbox) ID() ident.ID {
	return mb.id
}

// Send enqueues msg for to's inbox. Delivery is fire-and-forget: an
// unknown destination or a full inbox drops the message with a glog
// warning and no error returned to the caller, matching the "transport may drop or buffer at its own discretion"
// rule of spec.md 5.
func (mb *Mailbox) Send(to ident.ID, msg interface{}) {
	dest, ok := mb.rt.lookup(to)
	if !ok {
		glog.Warningf("mailbox: unknown destination %v, dropping message", to)
		return
	}

	select {
	case dest.inbox <- Envelope{From: mb.id, To: to, Msg: msg}:
	default:
		glog.Warningf("mailbox: inbox for %v full, dropping message", to)
	}
}

// Recv returns the channel a caller can range over or select on to
// receive this mailbox's incoming envelopes.
func (mb *Mailbox) Recv() <-chan Envelope {
	return mb.inbox
}

// Done returns the channel Stop closes, for a caller running its own
// select loop against Recv that needs to notice Stop without Drive.
func (mb *Mailbox) Done() <-chan struct{} {
	return mb.stop
}

// Stop signals Drive's loop (if one is running) to exit and
// deregisters the mailbox. Safe to call more than once.
func (mb *Mailbox) Stop() {
	mb.once.Do(func() {
		close(mb.stop)
		mb.rt.Deregister(mb.id)
	})
}

// Drive runs step against every envelope delivered to mb until Stop is
// called, sending each outgoing message on to its destination. It owns
// mb's goroutine: step is therefore never called concurrently with
// itself, satisfying the single-threaded-per-actor assumption the core
// roles rely on.
func Drive(mb *Mailbox, step func(msg interface{}) []Outgoing) {
	go func() {
		for {
			select {
			case env := <-mb.inbox:
				for _, out := range step(env.Msg) {
					mb.Send(out.To, out.Msg)
				}
			case <-mb.stop:
				return
			}
		}
	}()
}
