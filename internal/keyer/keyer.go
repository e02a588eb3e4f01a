// Package keyer drives the signal line with timed Morse pulse trains and
// simultaneously re-derives the dot/dash symbols implied by the pulse
// timing, feeding them into the symbol queue.
//
// The pulse generator and the run-length decoder are one coupled state
// machine: every ON pulse extends the current run, every OFF pulse flushes
// it. A run of one ON pulse decodes to a dot, a run of three to a dash,
// any other length is silence bookkeeping and decodes to nothing.
package keyer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/iamkaransharma/morsecode-driver/internal/morse"
	"github.com/iamkaransharma/morsecode-driver/internal/symbolq"
)

// Gap widths in dot times, measured as total elapsed silence.
const (
	interLetterDotTimes = 3
	interWordDotTimes   = 7
)

// DefaultDotTime is used when no valid dot time is configured.
const DefaultDotTime = 200 * time.Millisecond

// Signal is the abstract pulse sink. Implementations must tolerate
// redundant Set(false) calls; there is no acknowledgment path.
type Signal interface {
	Set(on bool)
}

// SignalFunc adapts a function to the Signal interface.
type SignalFunc func(on bool)

func (f SignalFunc) Set(on bool) { f(on) }

// Discard is a Signal that ignores all pulses.
var Discard Signal = SignalFunc(func(bool) {})

// SleepFunc waits for one gap or pulse duration, honoring ctx cancellation.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config carries the keyer's collaborators. Signal and Queue are required;
// a zero DotTime falls back to DefaultDotTime and a nil Sleep to a
// timer-based wait.
type Config struct {
	Signal  Signal
	Queue   *symbolq.Queue
	DotTime time.Duration
	Sleep   SleepFunc
}

// Stats is a snapshot of keying counters.
type Stats struct {
	Letters uint64 // letters fully keyed
	Pulses  uint64 // ON pulses driven onto the signal
}

// Keyer emits pulse trains and decoded symbols. Safe for use by one
// writer at a time; serialization of writers is the device's concern.
type Keyer struct {
	signal Signal
	queue  *symbolq.Queue
	dot    time.Duration
	sleep  SleepFunc

	letters atomic.Uint64
	pulses  atomic.Uint64
}

// New creates a Keyer from cfg, filling defaults for optional fields.
func New(cfg Config) *Keyer {
	k := &Keyer{
		signal: cfg.Signal,
		queue:  cfg.Queue,
		dot:    cfg.DotTime,
		sleep:  cfg.Sleep,
	}
	if k.signal == nil {
		k.signal = Discard
	}
	if k.dot <= 0 {
		k.dot = DefaultDotTime
	}
	if k.sleep == nil {
		k.sleep = sleepFor
	}
	return k
}

// DotTime returns the configured dot duration.
func (k *Keyer) DotTime() time.Duration {
	return k.dot
}

// Stats returns a snapshot of the keying counters.
func (k *Keyer) Stats() Stats {
	return Stats{
		Letters: k.letters.Load(),
		Pulses:  k.pulses.Load(),
	}
}

// Key walks one letter pattern MSB-first, driving the signal for one dot
// time per bit and flushing each completed run of ON pulses into the
// queue. Processing stops once the remaining pattern is zero, so the
// right-padding is never iterated. The signal is guaranteed to be driven
// OFF exactly once before Key returns, on every exit path.
func (k *Keyer) Key(ctx context.Context, pattern morse.Pattern) error {
	off := false
	defer func() {
		if !off {
			k.signal.Set(false)
		}
	}()

	ones := 0
	for pattern != 0 {
		if pattern&(1<<(morse.PatternBits-1)) != 0 {
			k.signal.Set(true)
			k.pulses.Add(1)
			ones++
		} else {
			// Lock scope is per symbol; never hold the queue lock
			// across the dot-time wait below.
			if err := k.flushRun(ctx, ones); err != nil {
				return err
			}
			k.signal.Set(false)
			ones = 0
		}
		if err := k.sleep(ctx, k.dot); err != nil {
			return err
		}
		pattern <<= 1
	}
	if err := k.flushRun(ctx, ones); err != nil {
		return err
	}
	k.signal.Set(false)
	off = true
	return k.sleep(ctx, k.dot)
}

// flushRun turns a completed run of consecutive ON pulses into its decoded
// symbol. Runs that are neither a dot nor a dash are inter-element silence
// and enqueue nothing.
func (k *Keyer) flushRun(ctx context.Context, ones int) error {
	switch ones {
	case morse.OnesInDot:
		return k.queue.Enqueue(ctx, symbolq.Dot)
	case morse.OnesInDash:
		return k.queue.Enqueue(ctx, symbolq.Dash)
	}
	return nil
}

// sleepFor is the default SleepFunc: a timer wait that aborts on ctx
// cancellation.
func sleepFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
