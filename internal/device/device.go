// Package device assembles the keyer and the symbol queue into the
// byte-oriented write/read surfaces of the Morse device.
package device

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/iamkaransharma/morsecode-driver/internal/keyer"
	"github.com/iamkaransharma/morsecode-driver/internal/symbolq"
)

// ErrInterrupted is returned when a write could not take the transmit
// lock before its context was cancelled. No pulses were emitted.
var ErrInterrupted = errors.New("device: transmit interrupted")

// Stats aggregates queue and keying counters with the current queue fill.
type Stats struct {
	Queue         symbolq.Stats
	Keyer         keyer.Stats
	QueueDepth    int
	QueueCapacity int
}

// Config carries device construction parameters. Zero values fall back to
// the package defaults (discard signal, 200 ms dot, 32 Ki queue).
type Config struct {
	Signal        keyer.Signal
	DotTime       time.Duration
	QueueCapacity int

	// Sleep overrides the dot-time wait. Tests use this; production
	// leaves it nil for the real timer wait.
	Sleep keyer.SleepFunc
}

// Device is the Morse signaling device. Writes key text out as timed
// pulses and fill the queue with the decoded symbol stream; reads drain
// the queue. Whole write operations are serialized: a second writer
// blocks until the first finishes or its context is cancelled, so two
// pulse trains can never interleave on the signal line.
type Device struct {
	queue *symbolq.Queue
	keyer *keyer.Keyer
	xmit  chan struct{} // serializes whole write operations
}

// New creates a Device from cfg.
func New(cfg Config) *Device {
	q := symbolq.New(cfg.QueueCapacity)
	return &Device{
		queue: q,
		keyer: keyer.New(keyer.Config{
			Signal:  cfg.Signal,
			Queue:   q,
			DotTime: cfg.DotTime,
			Sleep:   cfg.Sleep,
		}),
		xmit: make(chan struct{}, 1),
	}
}

// WriteContext keys text out on the signal line. It blocks for the full
// duration of the pulse train. On success the whole input length is
// reported as consumed; on failure the count reflects how far keying got
// before the fault.
func (d *Device) WriteContext(ctx context.Context, p []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ErrInterrupted
	default:
	}
	select {
	case d.xmit <- struct{}{}:
	case <-ctx.Done():
		return 0, ErrInterrupted
	}
	defer func() { <-d.xmit }()
	return d.keyer.Transmit(ctx, p)
}

// Write implements io.Writer over WriteContext with a background context.
func (d *Device) Write(p []byte) (int, error) {
	return d.WriteContext(context.Background(), p)
}

// ReadContext drains up to len(p) decoded symbols into p without waiting
// for data. A non-empty queue gets one newline marker appended to the
// batch tail before copying; an empty queue reads 0 bytes with a nil
// error.
func (d *Device) ReadContext(ctx context.Context, p []byte) (int, error) {
	return d.queue.DrainInto(ctx, p)
}

// Read implements io.Reader over ReadContext. Unlike ReadContext it
// reports io.EOF when the queue is empty, so byte-stream helpers
// terminate instead of spinning on an idle device.
func (d *Device) Read(p []byte) (int, error) {
	n, err := d.ReadContext(context.Background(), p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// DotTime returns the effective dot duration after defaulting.
func (d *Device) DotTime() time.Duration {
	return d.keyer.DotTime()
}

// QueueDepth returns the number of symbols currently queued.
func (d *Device) QueueDepth() int {
	return d.queue.Len()
}

// Stats returns a snapshot of device counters.
func (d *Device) Stats() Stats {
	return Stats{
		Queue:         d.queue.Stats(),
		Keyer:         d.keyer.Stats(),
		QueueDepth:    d.queue.Len(),
		QueueCapacity: d.queue.Cap(),
	}
}
