package morse

import "testing"

// referencePatterns are the hand-computed hex patterns the generated table
// must reproduce exactly (index 0 = 'A').
var referencePatterns = [26]Pattern{
	0xB800, // A
	0xEA80, // B
	0xEBA0, // C
	0xEA00, // D
	0x8000, // E
	0xAE80, // F
	0xEE80, // G
	0xAA00, // H
	0xA000, // I
	0xBBB8, // J
	0xEB80, // K
	0xBA80, // L
	0xEE00, // M
	0xE800, // N
	0xEEE0, // O
	0xBBA0, // P
	0xEEB8, // Q
	0xBA00, // R
	0xA800, // S
	0xE000, // T
	0xAE00, // U
	0xAB80, // V
	0xBB80, // W
	0xEAE0, // X
	0xEBB8, // Y
	0xEEA0, // Z
}

// TestGeneratedTableMatchesReference verifies the init-time pattern
// generation against the known-good hex table for every letter.
func TestGeneratedTableMatchesReference(t *testing.T) {
	for i := 0; i < 26; i++ {
		ch := byte('A' + i)
		got, ok := Lookup(ch)
		if !ok {
			t.Fatalf("Lookup(%c) rejected a letter", ch)
		}
		if got != referencePatterns[i] {
			t.Errorf("Lookup(%c) = %#04x, want %#04x", ch, uint16(got), uint16(referencePatterns[i]))
		}
	}
}

// TestLookupCaseInsensitive verifies lower and upper case yield the same
// pattern on repeated calls.
func TestLookupCaseInsensitive(t *testing.T) {
	for i := 0; i < 26; i++ {
		lower, okL := Lookup(byte('a' + i))
		upper, okU := Lookup(byte('A' + i))
		if !okL || !okU {
			t.Fatalf("letter %c rejected", 'A'+i)
		}
		if lower != upper {
			t.Errorf("case mismatch for %c: %#04x vs %#04x", 'A'+i, uint16(lower), uint16(upper))
		}
		// Purity: a second lookup must return the identical value.
		again, _ := Lookup(byte('A' + i))
		if again != upper {
			t.Errorf("Lookup(%c) not stable: %#04x vs %#04x", 'A'+i, uint16(again), uint16(upper))
		}
	}
}

// TestLookupRejectsNonLetters verifies non-alphabetic bytes are refused.
func TestLookupRejectsNonLetters(t *testing.T) {
	for _, ch := range []byte{' ', '0', '9', '.', '-', '\n', 0x00, 0xFF, '@', '['} {
		if _, ok := Lookup(ch); ok {
			t.Errorf("Lookup(%q) accepted a non-letter", ch)
		}
	}
}

// TestRunsDecomposition verifies run lengths for a few representative
// letters, including that trailing padding contributes no runs.
func TestRunsDecomposition(t *testing.T) {
	cases := []struct {
		letter byte
		runs   []int
	}{
		{'E', []int{1}},
		{'T', []int{3}},
		{'R', []int{1, 3, 1}},
		{'S', []int{1, 1, 1}},
		{'O', []int{3, 3, 3}},
		{'Q', []int{3, 3, 1, 3}},
	}
	for _, tc := range cases {
		p, _ := Lookup(tc.letter)
		got := p.Runs()
		if len(got) != len(tc.runs) {
			t.Errorf("%c: runs = %v, want %v", tc.letter, got, tc.runs)
			continue
		}
		for i := range got {
			if got[i] != tc.runs[i] {
				t.Errorf("%c: runs = %v, want %v", tc.letter, got, tc.runs)
				break
			}
		}
	}
}

// TestZeroPatternHasNoRuns verifies the zero pattern decomposes to nothing.
func TestZeroPatternHasNoRuns(t *testing.T) {
	if runs := Pattern(0).Runs(); len(runs) != 0 {
		t.Errorf("zero pattern produced runs %v", runs)
	}
}
