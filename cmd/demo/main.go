// Command demo wires a handful of acceptors and a provider over an
// in-memory mailbox.Runtime, runs a few consensus rounds end to end, and
// prints what each slot decided. It exists to exercise the combinator
// stack the way the teacher's top-level goxos.go wired a live group,
// trimmed to the consensus core this repository actually implements.
package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/certichain/protocol-combinators/config"
	"github.com/certichain/protocol-combinators/ident"
	"github.com/certichain/protocol-combinators/mailbox"
	"github.com/certichain/protocol-combinators/provider"
	"github.com/certichain/protocol-combinators/register"
	"github.com/certichain/protocol-combinators/slot"
	"github.com/certichain/protocol-combinators/stoppable"
	"github.com/certichain/protocol-combinators/trace"
)

func main() {
	numAcceptors := flag.Int("acceptors", 3, "number of acceptors to run")
	enableTrace := flag.Bool("trace", false, "enable event tracing")
	traceFile := flag.String("trace-file", config.DefTraceFile, "event trace output file")
	flag.Parse()

	cfg := config.NewConfig()
	if *enableTrace {
		cfg.Set(config.KeyTraceEnabled, "true")
		cfg.Set(config.KeyTraceFile, *traceFile)
	}

	rt := mailbox.NewRuntime()
	p := provider.New(rt, cfg, *numAcceptors)
	defer trace.Flush()

	client := ident.NewFromInt(50, 0)

	// Slot 1 decides ordinary data.
	r1 := register.New(p, client, slot.ID(1))
	v1 := r1.Write(stoppable.Data[string]("first command"))
	fmt.Printf("slot 1 decided: %s\n", describe(v1))

	// Slot 3 proposes a Stop after slot 1 already decided Data below it
	// (no veto: the rule only fires against an *earlier* slot's Stop, or
	// a *later* slot's Data at an equal-or-higher ballot than a Stop).
	r3 := register.New(p, client, slot.ID(3))
	v3 := r3.Write(stoppable.Stop[string]("shutdown"))
	fmt.Printf("slot 3 decided: %s\n", describe(v3))

	// A read confirms what a quorum of acceptors already hold for slot 1.
	read1 := register.New(p, client, slot.ID(1)).Read()
	fmt.Printf("slot 1 read back: %s\n", describe(read1))

	glog.Flush()
}

func describe(v provider.Value) string {
	switch {
	case v.IsData():
		return fmt.Sprintf("Data(%q)", v.Data)
	case v.IsStop():
		return fmt.Sprintf("Stop(%q)", v.StopID)
	case v.IsVoided():
		return fmt.Sprintf("Voided(%q)", v.Reason)
	default:
		return "<none>"
	}
}
