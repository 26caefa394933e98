package mailbox

import (
	"testing"
	"time"

	"github.com/certichain/protocol-combinators/ident"
)

func TestSendDeliversToRegisteredMailbox(t *testing.T) {
	rt := NewRuntime()
	a := rt.Register(ident.New(1, 0))
	b := rt.Register(ident.New(2, 0))
	defer a.Stop()
	defer b.Stop()

	a.Send(b.ID(), "hello")

	select {
	case env := <-b.Recv():
		if env.Msg != "hello" || env.From != a.ID() {
			t.Fatalf("unexpected envelope: %#v", env)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestSendToUnknownDestinationDropsSilently(t *testing.T) {
	rt := NewRuntime()
	a := rt.Register(ident.New(1, 0))
	defer a.Stop()

	a.Send(ident.New(99, 0), "nobody home")
}

func TestStopDeregisters(t *testing.T) {
	rt := NewRuntime()
	a := rt.Register(ident.New(1, 0))
	b := rt.Register(ident.New(2, 0))
	defer b.Stop()

	b.Stop()
	a.Send(b.ID(), "too late")

	select {
	case env := <-b.Recv():
		t.Fatalf("expected no delivery after Stop, got %#v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDriveEchoesOutgoing(t *testing.T) {
	rt := NewRuntime()
	echo := rt.Register(ident.New(1, 0))
	client := rt.Register(ident.New(2, 0))
	defer echo.Stop()
	defer client.Stop()

	Drive(echo, func(msg interface{}) []Outgoing {
		return []Outgoing{{To: client.ID(), Msg: msg}}
	})

	client.Send(echo.ID(), "ping")

	select {
	case env := <-client.Recv():
		if env.Msg != "ping" {
			t.Fatalf("expected echoed ping, got %#v", env.Msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for echo")
	}
}
