package telemetry

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	enableDebug atomic.Bool

	logCh   chan logEntry
	started atomic.Bool
	once    sync.Once
	done    chan struct{}
)

type logEntry struct {
	timestamp time.Time
	level     string
	message   string
}

// Start spins up the async writer. Logging before Start falls back to
// synchronous stderr output so short-lived callers lose nothing.
func Start() {
	once.Do(func() {
		logCh = make(chan logEntry, 8192)
		done = make(chan struct{})
		started.Store(true)

		go func() {
			defer close(done)
			for entry := range logCh {
				fmt.Printf("%s [%s] %s\n",
					entry.timestamp.Format("2006/01/02 15:04:05.000"),
					entry.level,
					entry.message)
			}
		}()
	})
}

// Stop closes the channel and waits for the writer to drain.
func Stop() {
	if started.CompareAndSwap(true, false) {
		close(logCh)
		<-done
	}
}

func EnableDebug(on bool) { enableDebug.Store(on) }
func DebugOn() bool       { return enableDebug.Load() }

// Non-blocking enqueue; drop if saturated.
func enqueue(level, message string) {
	entry := logEntry{
		timestamp: time.Now(),
		level:     level,
		message:   message,
	}
	if !started.Load() {
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n",
			entry.timestamp.Format("2006/01/02 15:04:05.000"), level, message)
		return
	}
	select {
	case logCh <- entry:
	default:
		fmt.Fprintf(os.Stderr, "telemetry: buffer full, dropping log: %s\n", message)
	}
}

// INFO is always on (use sparingly in batch loops).
func Infof(format string, args ...any) {
	enqueue("INFO", fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	enqueue("WARN", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	enqueue("ERROR", fmt.Sprintf(format, args...))
}

// DEBUG only formats if enabled (zero cost when off).
func Debugf(format string, args ...any) {
	if !enableDebug.Load() {
		return
	}
	enqueue("DEBUG", fmt.Sprintf(format, args...))
}
