package keyer

import (
	"context"

	"github.com/iamkaransharma/morsecode-driver/internal/morse"
	"github.com/iamkaransharma/morsecode-driver/internal/symbolq"
)

// Transmit interprets text as letters and word gaps and keys it out:
//
//   - a leading run of separators and invalid bytes is skipped;
//   - every letter after the first is preceded by one separator symbol and
//     the residual inter-letter wait (the keyer's own trailing OFF pulse
//     supplies the third dot time of silence);
//   - an interior run of separators/invalid bytes becomes two separator
//     symbols and the residual inter-word wait, but only when at least one
//     more letter follows; a trailing run ends processing;
//   - any other byte is ignored and does not disturb gap accounting.
//
// On success the full input length is reported as consumed, including
// skipped bytes. On failure Transmit reports how far it got.
func (k *Keyer) Transmit(ctx context.Context, text []byte) (int, error) {
	i := 0
	for i < len(text) && !morse.IsLetter(text[i]) {
		i++
	}

	keyedLetter := false
	for i < len(text) {
		ch := text[i]
		if ch == symbolq.Separator {
			// Collapse the whole separator/invalid run into one word
			// boundary. If nothing follows it, stop.
			j := i + 1
			for j < len(text) && !morse.IsLetter(text[j]) {
				j++
			}
			if j >= len(text) {
				break
			}
			if err := k.wordGap(ctx); err != nil {
				return i, err
			}
			i = j
			continue
		}
		if morse.IsLetter(ch) {
			if keyedLetter {
				if err := k.letterGap(ctx); err != nil {
					return i, err
				}
			}
			pattern, _ := morse.Lookup(ch)
			if err := k.Key(ctx, pattern); err != nil {
				return i, err
			}
			k.letters.Add(1)
			keyedLetter = true
		}
		i++
	}
	return len(text), nil
}

// letterGap enqueues the single inter-letter separator and waits the
// residual silence. One of the three dot times was already spent by the
// previous letter's trailing OFF pulse.
func (k *Keyer) letterGap(ctx context.Context) error {
	if err := k.queue.Enqueue(ctx, symbolq.Separator); err != nil {
		return err
	}
	return k.sleep(ctx, (interLetterDotTimes-1)*k.dot)
}

// wordGap enqueues the two inter-word separators and waits the residual
// silence beyond what the surrounding letter gaps already account for.
func (k *Keyer) wordGap(ctx context.Context) error {
	if err := k.queue.Enqueue(ctx, symbolq.Separator, symbolq.Separator); err != nil {
		return err
	}
	return k.sleep(ctx, (interWordDotTimes-interLetterDotTimes)*k.dot)
}
