package morsecode

import (
	"github.com/iamkaransharma/morsecode-driver/internal/device"
	"github.com/iamkaransharma/morsecode-driver/internal/keyer"
	"github.com/iamkaransharma/morsecode-driver/internal/symbolq"
)

// Public API - re-export internal types as the stable contract.

// Device is the Morse signaling device.
type Device = device.Device

// Config carries device construction parameters.
type Config = device.Config

// Stats aggregates queue and keying counters.
type Stats = device.Stats

// Signal is the abstract pulse sink driven by the device.
type Signal = keyer.Signal

// SignalFunc adapts a function to the Signal interface.
type SignalFunc = keyer.SignalFunc

// Discard is a Signal that ignores all pulses.
var Discard = keyer.Discard

// Public API errors.
var (
	// ErrTransmitInterrupted: a write was cancelled while waiting for
	// the transmit lock.
	ErrTransmitInterrupted = device.ErrInterrupted
	// ErrLockInterrupted: a queue operation was cancelled while waiting
	// for the queue lock.
	ErrLockInterrupted = symbolq.ErrInterrupted
)

// New creates a Device. This is the only public constructor and part of
// the stable API.
func New(cfg Config) *Device {
	return device.New(cfg)
}
