package emitter

import (
	"log/slog"
	"sync/atomic"
)

// LogSignal logs every pulse edge at debug level. Useful as a virtual
// device when no broker or hardware is attached.
type LogSignal struct {
	log *slog.Logger
	seq atomic.Uint64
}

// NewLogSignal creates a LogSignal. A nil logger uses slog.Default.
func NewLogSignal(log *slog.Logger) *LogSignal {
	if log == nil {
		log = slog.Default()
	}
	return &LogSignal{log: log}
}

// Set implements keyer.Signal.
func (s *LogSignal) Set(on bool) {
	s.log.Debug("pulse", "seq", s.seq.Add(1), "on", on)
}
