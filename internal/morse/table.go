// Package morse holds the letter-to-pulse-pattern table.
//
// Each letter is encoded as a fixed-width 16-bit pattern, most significant
// bit first. A dot is a single 1 bit, a dash is three consecutive 1 bits,
// and elements within a letter are separated by a single 0 bit. The pattern
// is right-padded with zeros; trailing zeros carry no timing information.
//
// Example:
//
//	R = dot dash dot = 1 0 111 0 1 = 1011 1010 0000 0000 = 0xBA00
//
// The table is generated once at package init from the textual dot/dash
// definitions below and is immutable afterwards.
package morse

import "fmt"

// Pattern is a 16-bit pulse pattern, MSB first.
type Pattern uint16

// PatternBits is the fixed width of a Pattern in bits.
const PatternBits = 16

const (
	// OnesInDot is the number of consecutive ON bits that decode to a dot.
	OnesInDot = 1
	// OnesInDash is the number of consecutive ON bits that decode to a dash.
	OnesInDash = 3
)

// codes is the plain Morse alphabet, index 0 = 'A'.
var codes = [26]string{
	".-",   // A
	"-...", // B
	"-.-.", // C
	"-..",  // D
	".",    // E
	"..-.", // F
	"--.",  // G
	"....", // H
	"..",   // I
	".---", // J
	"-.-",  // K
	".-..", // L
	"--",   // M
	"-.",   // N
	"---",  // O
	".--.", // P
	"--.-", // Q
	".-.",  // R
	"...",  // S
	"-",    // T
	"..-",  // U
	"...-", // V
	".--",  // W
	"-..-", // X
	"-.--", // Y
	"--..", // Z
}

var patterns [26]Pattern

func init() {
	for i, code := range codes {
		p, err := compile(code)
		if err != nil {
			panic(fmt.Sprintf("morse: bad code for %c: %v", 'A'+i, err))
		}
		patterns[i] = p
	}
}

// compile turns a dot/dash string into its MSB-first bit pattern.
func compile(code string) (Pattern, error) {
	if code == "" {
		return 0, fmt.Errorf("empty code")
	}
	var bits uint32
	width := 0
	for i, el := range code {
		if i > 0 {
			// single OFF bit between elements
			bits <<= 1
			width++
		}
		switch el {
		case '.':
			bits = bits<<OnesInDot | 0x1
			width += OnesInDot
		case '-':
			bits = bits<<OnesInDash | 0x7
			width += OnesInDash
		default:
			return 0, fmt.Errorf("invalid element %q", el)
		}
	}
	if width > PatternBits {
		return 0, fmt.Errorf("code %q needs %d bits", code, width)
	}
	return Pattern(bits << (PatternBits - width)), nil
}

// IsLetter reports whether ch is an ASCII letter the table covers.
func IsLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// Lookup returns the pattern for an ASCII letter, case-insensitive.
// The second return is false for any byte outside A-Z/a-z.
func Lookup(ch byte) (Pattern, bool) {
	switch {
	case 'a' <= ch && ch <= 'z':
		return patterns[ch-'a'], true
	case 'A' <= ch && ch <= 'Z':
		return patterns[ch-'A'], true
	default:
		return 0, false
	}
}

// Code returns the textual dot/dash sequence for an ASCII letter,
// or "" for any other byte.
func Code(ch byte) string {
	switch {
	case 'a' <= ch && ch <= 'z':
		return codes[ch-'a']
	case 'A' <= ch && ch <= 'Z':
		return codes[ch-'A']
	default:
		return ""
	}
}

// Runs decomposes a pattern into the lengths of its maximal runs of ON
// bits, in transmission order. Trailing padding contributes nothing.
func (p Pattern) Runs() []int {
	var runs []int
	ones := 0
	for p != 0 {
		if p&(1<<(PatternBits-1)) != 0 {
			ones++
		} else {
			if ones > 0 {
				runs = append(runs, ones)
			}
			ones = 0
		}
		p <<= 1
	}
	if ones > 0 {
		runs = append(runs, ones)
	}
	return runs
}
