// Package trace is the event trace logger described in spec.md 4.10: a
// gob-encoded, append-only log of Proposed/Decided/LearnerRestart/
// Voided events, disabled by default and cheap to leave compiled in.
package trace

import (
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"os"
	"sync"

	e "github.com/certichain/protocol-combinators/trace/event"
)

var logger = eventLogger{out: "trace.log"}

type eventLogger struct {
	mu      sync.Mutex
	enabled bool
	out     string
	file    *os.File
	enc     *gob.Encoder
	w       *bufio.Writer
}

func init() {
	flag.BoolVar(&logger.enabled, "log_events", false, "enable event logging")
}

func (el *eventLogger) open() {
	var err error
	el.file, err = os.Create(el.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace: exiting due to error: %s\n", err)
		os.Exit(2)
	}
	el.w = bufio.NewWriter(el.file)
	el.enc = gob.NewEncoder(el.w)
}

// IsEnabled reports whether the EventLogger is enabled.
func IsEnabled() bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.enabled
}

// Enable enables the EventLogger.
func Enable() {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.enabled = true
}

// Disable disables the EventLogger, flushing and closing its output
// file if one is open, so a later SetOutput takes effect.
func Disable() {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.enabled = false
	if logger.enc == nil {
		return
	}
	logger.w.Flush()
	logger.file.Close()
	logger.file, logger.enc, logger.w = nil, nil, nil
}

// SetOutput changes the file Log writes to. It only takes effect before
// the first Log call, or after the logger is Disable()d and the file
// closed again; call it once, right after Enable, such as from
// config.Config's traceFile setting.
func SetOutput(path string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.out = path
}

// Log logs event e if the EventLogger is enabled.
func Log(e e.Event) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if !logger.enabled {
		return
	}
	if logger.enc == nil {
		logger.open()
	}
	logger.enc.Encode(e)
}

// Flush flushes all pending events to file.
func Flush() {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if logger.enc == nil {
		return
	}
	logger.w.Flush()
	logger.file.Sync()
}
