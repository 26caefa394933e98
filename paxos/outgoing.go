package paxos

import "github.com/certichain/protocol-combinators/ident"

// Outgoing addresses one message produced by a role's Step to exactly one
// destination. Combinators route, batch or filter slices of Outgoing;
// the core never delivers a message itself.
type Outgoing struct {
	To  ident.ID
	Msg interface{}
}

func to(id ident.ID, msg interface{}) Outgoing {
	return Outgoing{To: id, Msg: msg}
}

// Broadcast returns one Outgoing per destination, all carrying msg.
func Broadcast(dests []ident.ID, msg interface{}) []Outgoing {
	out := make([]Outgoing, len(dests))
	for i, d := range dests {
		out[i] = to(d, msg)
	}
	return out
}
