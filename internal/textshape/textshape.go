// Package textshape prepares right-to-left text for canvases that only lay
// glyphs out left to right, such as PDF cells.
//
// Visual first resolves Arabic joining forms (initial, medial, final and
// isolated presentation glyphs) and then reorders the string into visual order
// so that it reads correctly when painted from left to right.
//
// Reordering applies the implicit rules of the Unicode Bidirectional Algorithm
// (UAX #9) to a single line: weak types (W1-W7), paired brackets (N0),
// neutrals (N1-N2), implicit levels (I1-I2) and line reordering (L1, L2, L4).
// Explicit embedding and isolate controls are ignored.
package textshape

import (
	"github.com/01walid/goarabic"
	"golang.org/x/text/unicode/bidi"
)

// maxBracketDepth is the bracket stack limit of BD16.
const maxBracketDepth = 63

// closingBracket maps each paired opening bracket to its closing partner.
var closingBracket = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

var mirrored = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'«': '»', '»': '«',
}

// Visual returns s shaped and reordered for left-to-right painting. Strings
// without right-to-left characters are returned unchanged.
func Visual(s string) string {
	if !HasRTL(s) {
		return s
	}
	return Reorder(goarabic.ToGlyph(s))
}

// HasRTL reports whether s contains any right-to-left letter.
func HasRTL(s string) bool {
	for _, r := range s {
		if c := classOf(r); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}

// Reorder converts logically ordered text into visual order. The paragraph
// direction follows the first strong character.
func Reorder(s string) string {
	text := []rune(s)
	if len(text) == 0 {
		return s
	}

	original := make([]bidi.Class, len(text))
	for i, r := range text {
		original[i] = classOf(r)
	}
	types := append([]bidi.Class(nil), original...)

	base := paragraphLevel(types)
	resolveWeak(types, base)
	resolveBrackets(text, types, original, base)
	resolveNeutrals(types, base)
	levels := resolveLevels(types, original, base)

	return string(reorderLine(text, levels))
}

func classOf(r rune) bidi.Class {
	p, _ := bidi.LookupRune(r)
	switch c := p.Class(); c {
	case bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI, bidi.Control:
		return bidi.BN
	default:
		return c
	}
}

// paragraphLevel is 1 when the first strong character is right-to-left.
func paragraphLevel(types []bidi.Class) int {
	for _, t := range types {
		switch t {
		case bidi.L:
			return 0
		case bidi.R, bidi.AL:
			return 1
		}
	}
	return 0
}

func embeddingDirection(level int) bidi.Class {
	if level%2 == 1 {
		return bidi.R
	}
	return bidi.L
}

// strongDirection treats numbers as right-to-left, as N0 and N1 require.
func strongDirection(t bidi.Class) bidi.Class {
	switch t {
	case bidi.L:
		return bidi.L
	case bidi.R, bidi.AL, bidi.EN, bidi.AN:
		return bidi.R
	}
	return bidi.ON
}

func isNeutral(t bidi.Class) bool {
	switch t {
	case bidi.B, bidi.S, bidi.WS, bidi.ON, bidi.BN:
		return true
	}
	return false
}

func resolveWeak(types []bidi.Class, base int) {
	sos := embeddingDirection(base)

	// W1: non-spacing marks take the type of the previous character.
	prev := sos
	for i, t := range types {
		if t == bidi.NSM {
			types[i] = prev
		}
		prev = types[i]
	}

	// W2: European digits after an Arabic letter are Arabic digits.
	// W3: Arabic letters are right-to-left.
	last := sos
	for i, t := range types {
		switch t {
		case bidi.L, bidi.R, bidi.AL:
			last = t
		case bidi.EN:
			if last == bidi.AL {
				types[i] = bidi.AN
			}
		}
	}
	for i, t := range types {
		if t == bidi.AL {
			types[i] = bidi.R
		}
	}

	// W4: single separators between numbers of one kind join them.
	for i := 1; i < len(types)-1; i++ {
		before, after := types[i-1], types[i+1]
		switch types[i] {
		case bidi.ES:
			if before == bidi.EN && after == bidi.EN {
				types[i] = bidi.EN
			}
		case bidi.CS:
			if before == after && (before == bidi.EN || before == bidi.AN) {
				types[i] = before
			}
		}
	}

	// W5: terminators next to European digits become digits.
	for i := 0; i < len(types); {
		if types[i] != bidi.ET {
			i++
			continue
		}
		j := i
		for j < len(types) && types[j] == bidi.ET {
			j++
		}
		if (i > 0 && types[i-1] == bidi.EN) || (j < len(types) && types[j] == bidi.EN) {
			for k := i; k < j; k++ {
				types[k] = bidi.EN
			}
		}
		i = j
	}

	// W6: leftover separators and terminators are neutral.
	for i, t := range types {
		switch t {
		case bidi.ES, bidi.ET, bidi.CS:
			types[i] = bidi.ON
		}
	}

	// W7: European digits in a left-to-right context are left-to-right.
	last = sos
	for i, t := range types {
		switch t {
		case bidi.L, bidi.R:
			last = t
		case bidi.EN:
			if last == bidi.L {
				types[i] = bidi.L
			}
		}
	}
}

type bracketPair struct {
	open, close int
}

// locateBrackets pairs opening and closing brackets (BD16), ordered by the
// position of the opening bracket.
func locateBrackets(text []rune, types []bidi.Class) []bracketPair {
	type opener struct {
		close rune
		pos   int
	}
	var (
		stack []opener
		pairs []bracketPair
	)
	for i, r := range text {
		if types[i] != bidi.ON {
			continue
		}
		if c, ok := closingBracket[r]; ok {
			if len(stack) == maxBracketDepth {
				return nil
			}
			stack = append(stack, opener{close: c, pos: i})
			continue
		}
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j].close == r {
				pairs = append(pairs, bracketPair{open: stack[j].pos, close: i})
				stack = stack[:j]
				break
			}
		}
	}

	// Pairs close innermost first; N0 walks them by opening position.
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].open < pairs[j-1].open; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	return pairs
}

// resolveBrackets gives both brackets of a pair one direction (N0).
func resolveBrackets(text []rune, types, original []bidi.Class, base int) {
	embedding := embeddingDirection(base)
	for _, p := range locateBrackets(text, types) {
		inside := bidi.ON
		for k := p.open + 1; k < p.close; k++ {
			d := strongDirection(types[k])
			if d == embedding {
				inside = d
				break
			}
			if d != bidi.ON {
				inside = d
			}
		}
		if inside == bidi.ON {
			continue
		}
		if inside != embedding && precedingStrong(types, p.open, embedding) != inside {
			inside = embedding
		}

		for _, pos := range []int{p.open, p.close} {
			types[pos] = inside
			for k := pos + 1; k < len(types) && original[k] == bidi.NSM; k++ {
				types[k] = inside
			}
		}
	}
}

func precedingStrong(types []bidi.Class, pos int, sos bidi.Class) bidi.Class {
	for k := pos - 1; k >= 0; k-- {
		if d := strongDirection(types[k]); d != bidi.ON {
			return d
		}
	}
	return sos
}

// resolveNeutrals gives runs of neutrals the direction of their neighbours
// when both sides agree, and the embedding direction otherwise (N1, N2).
func resolveNeutrals(types []bidi.Class, base int) {
	embedding := embeddingDirection(base)
	for i := 0; i < len(types); {
		if !isNeutral(types[i]) {
			i++
			continue
		}
		j := i
		for j < len(types) && isNeutral(types[j]) {
			j++
		}

		before, after := embedding, embedding
		if i > 0 {
			before = strongDirection(types[i-1])
		}
		if j < len(types) {
			after = strongDirection(types[j])
		}
		d := embedding
		if before == after {
			d = before
		}
		for k := i; k < j; k++ {
			types[k] = d
		}
		i = j
	}
}

// resolveLevels assigns implicit levels (I1, I2) and resets separators and
// trailing whitespace to the paragraph level (L1).
func resolveLevels(types, original []bidi.Class, base int) []int {
	levels := make([]int, len(types))
	for i, t := range types {
		level := base
		if base%2 == 0 {
			switch t {
			case bidi.R:
				level++
			case bidi.AN, bidi.EN:
				level += 2
			}
		} else {
			switch t {
			case bidi.L, bidi.EN, bidi.AN:
				level++
			}
		}
		levels[i] = level
	}

	trailing := true
	for i := len(original) - 1; i >= 0; i-- {
		switch original[i] {
		case bidi.S, bidi.B:
			levels[i] = base
			trailing = true
		case bidi.WS, bidi.BN:
			if trailing {
				levels[i] = base
			}
		default:
			trailing = false
		}
	}
	return levels
}

// reorderLine mirrors characters on right-to-left levels (L4) and reverses
// every run at or above each level, from the highest down to the lowest odd
// level (L2).
func reorderLine(text []rune, levels []int) []rune {
	out := make([]rune, len(text))
	lv := append([]int(nil), levels...)
	highest, lowest := lv[0], lv[0]
	for i, r := range text {
		if lv[i]%2 == 1 {
			if m, ok := mirrored[r]; ok {
				r = m
			}
		}
		out[i] = r
		highest = max(highest, lv[i])
		lowest = min(lowest, lv[i])
	}

	for level := highest; level >= lowest|1; level-- {
		for i := 0; i < len(out); {
			if lv[i] < level {
				i++
				continue
			}
			j := i
			for j < len(out) && lv[j] >= level {
				j++
			}
			for a, b := i, j-1; a < b; a, b = a+1, b-1 {
				out[a], out[b] = out[b], out[a]
				lv[a], lv[b] = lv[b], lv[a]
			}
			i = j
		}
	}
	return out
}
