// Package emitter provides the outbound pulse sinks: an MQTT-backed
// virtual signaling device and a slog-backed debugging sink.
package emitter

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iamkaransharma/morsecode-driver/internal/config"
)

// PulseEvent is one signal edge on the wire, msgpack-encoded.
type PulseEvent struct {
	Session string `msgpack:"session"` // transmission session id
	Seq     uint64 `msgpack:"seq"`
	On      bool   `msgpack:"on"`
	UnixNS  int64  `msgpack:"unix_ns"`
}

// Stats is a snapshot of emitter counters.
type Stats struct {
	Published uint64
	Errors    uint64
}

// MQTT publishes pulse edges and decoded symbol batches to an MQTT
// broker. It implements keyer.Signal; Set never blocks on the broker so
// pulse timing is unaffected by network latency.
type MQTT struct {
	cfg        config.MQTTConfig
	instanceID string
	session    string
	client     mqtt.Client

	seq       atomic.Uint64
	published atomic.Uint64
	errors    atomic.Uint64
	connected atomic.Bool
}

// NewMQTT creates an emitter for the given broker configuration. A fresh
// session id is stamped on every event this emitter publishes.
func NewMQTT(cfg config.MQTTConfig, instanceID string) *MQTT {
	return &MQTT{
		cfg:        cfg,
		instanceID: instanceID,
		session:    uuid.NewString(),
	}
}

// Connect establishes the broker connection with automatic reconnection.
func (e *MQTT) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", e.cfg.Broker))
	opts.SetClientID(e.instanceID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(mqtt.Client) {
		e.connected.Store(true)
		slog.Info("mqtt connection established",
			"broker", e.cfg.Broker,
			"client_id", e.instanceID)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		e.connected.Store(false)
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", e.cfg.Broker)
	}

	e.client = mqtt.NewClient(opts)

	slog.Info("connecting to mqtt broker", "broker", e.cfg.Broker)

	token := e.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	e.connected.Store(true)

	select {
	case <-ctx.Done():
		e.Close()
		return ctx.Err()
	default:
	}
	return nil
}

// Close disconnects from the broker.
func (e *MQTT) Close() {
	if e.client != nil {
		e.client.Disconnect(250)
	}
	e.connected.Store(false)
}

// Connected reports whether the broker connection is up.
func (e *MQTT) Connected() bool {
	return e.connected.Load()
}

// Set publishes one pulse edge (implements keyer.Signal). The publish is
// fire-and-forget; delivery errors are counted, never returned, since the
// signal line has no acknowledgment path.
func (e *MQTT) Set(on bool) {
	event := PulseEvent{
		Session: e.session,
		Seq:     e.seq.Add(1),
		On:      on,
		UnixNS:  time.Now().UnixNano(),
	}
	payload, err := msgpack.Marshal(&event)
	if err != nil {
		e.errors.Add(1)
		return
	}
	e.publish(e.cfg.TopicPrefix+"/pulse", payload)
}

// PublishSymbols publishes one drained batch of decoded symbols verbatim.
func (e *MQTT) PublishSymbols(batch []byte) error {
	if !e.connected.Load() {
		e.errors.Add(1)
		return fmt.Errorf("mqtt not connected")
	}
	e.publish(e.cfg.TopicPrefix+"/symbols", batch)
	return nil
}

// publish hands a payload to the client without blocking on delivery.
func (e *MQTT) publish(topic string, payload []byte) {
	if e.client == nil || !e.connected.Load() {
		e.errors.Add(1)
		return
	}
	token := e.client.Publish(topic, e.cfg.QoS, false, payload)
	go func() {
		if !token.WaitTimeout(2*time.Second) || token.Error() != nil {
			e.errors.Add(1)
			return
		}
		e.published.Add(1)
	}()
}

// Stats returns a snapshot of the emitter counters.
func (e *MQTT) Stats() Stats {
	return Stats{
		Published: e.published.Load(),
		Errors:    e.errors.Load(),
	}
}
