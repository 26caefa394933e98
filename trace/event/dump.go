package event

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

// DumpAsTextFile renders events in the numbered, one-per-line form
// cmd/tracedump prints to stdout by default, and writes the result to
// filename instead.
func DumpAsTextFile(filename string, events []Event) error {
	b := new(bytes.Buffer)
	w := bufio.NewWriter(b)
	for i, e := range events {
		if _, err := w.WriteString(fmt.Sprintf("%2d: %v\n", i, e)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return os.WriteFile(filename, b.Bytes(), 0644)
}
