// Command tracedump prints or re-renders a trace.Log output file,
// grounded on the teacher's elog/util/efmt tool: parse the gob-encoded
// events, optionally narrow to one event type, then either print them
// or dump them to a text file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/certichain/protocol-combinators/trace/event"
)

func main() {
	file := flag.String("file", "", "trace file to parse")
	out := flag.String("out", "", "optional file to dump the events to as text, instead of stdout")
	typeFilter := flag.String("type", "", "only show events of this type (Proposed|Decided|LearnerRestart|Voided)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -file <trace file> [OPTIONS]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	events, err := event.Parse(*file)
	if err != nil {
		fmt.Println("Error parsing events:", err)
		os.Exit(1)
	}

	if *typeFilter != "" {
		events = filterByTypeName(events, *typeFilter)
	}

	if *out != "" {
		if err := event.DumpAsTextFile(*out, events); err != nil {
			fmt.Println("Error dumping events:", err)
			os.Exit(1)
		}
		return
	}

	for i, e := range events {
		fmt.Printf("%2d: %v\n", i, e)
	}
}

func filterByTypeName(events []event.Event, name string) []event.Event {
	for t, group := range event.ByType(events) {
		if t.String() == name {
			return group
		}
	}
	return nil
}
