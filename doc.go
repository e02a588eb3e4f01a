// Package morsecode converts printable text into a timed sequence of
// binary pulses representing Morse code, drives an abstract signal line
// with that pulse train, and simultaneously re-derives the dot/dash
// symbol stream implied by the pulse timing into a bounded queue.
//
// # Overview
//
// A Device couples three pieces:
//
//   - a pulse generator that walks each letter's bit pattern MSB-first,
//     holding the signal ON or OFF for exactly one dot time per bit;
//   - a run-length decoder that turns each maximal run of ON pulses back
//     into '.' (run of 1) or '-' (run of 3), feeding a bounded FIFO;
//   - the byte surfaces: Write keys text out, Read drains the decoded
//     symbol stream.
//
// Letters within a word are separated in the stream by one space, words
// by a wider gap; each non-empty drained batch ends with one newline.
//
// # Basic Usage
//
//	dev := morsecode.New(morsecode.Config{
//		Signal:  morsecode.SignalFunc(led.Set),
//		DotTime: 100 * time.Millisecond,
//	})
//
//	dev.Write([]byte("sos"))
//
//	buf := make([]byte, 256)
//	n, _ := dev.Read(buf)
//	fmt.Printf("%s", buf[:n]) // "... --- ...\n"
//
// # Timing
//
// Every bit of a pattern consumes one dot time on the signal line: a dot
// is one ON dot time, a dash three, with one OFF dot time between the
// elements of a letter. Silence between letters totals three dot times
// and between words seven. Write blocks for the full duration of the
// pulse train; use WriteContext to make it cancellable.
//
// # Thread Safety
//
// All Device operations are safe for concurrent use. Whole write
// operations are serialized on an internal transmit lock, so concurrent
// writers' pulse trains never interleave; blocked writers can abandon
// the wait through their context. Reads are non-blocking point-in-time
// drains.
//
// # Backpressure
//
// The queue is bounded (32768 symbols by default). Symbols decoded while
// the queue is full are dropped and counted; Stats exposes the counters
// and DropRate summarizes them. Producers are never blocked by a slow
// reader.
package morsecode
