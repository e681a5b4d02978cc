// Package sniff auto-detects the field delimiter of a delimited-text sample
// by statistical scoring.
//
// The detector examines a bounded prefix of the input and scores each
// candidate separator by how often and, more importantly, how *consistently*
// it appears per line. A delimiter that shows up the same number of times on
// every line scores far better than one that merely appears frequently, which
// is what distinguishes real separators from characters that happen to occur
// in the data.
package sniff

import (
	"bytes"
	"fmt"
	"strings"
)

// SampleSize is the recommended number of bytes to feed to Delimiter.
const SampleSize = 4096

// maxLines caps the number of lines examined per candidate.
const maxLines = 10

// commentMarker prefixes lines excluded from scoring.
const commentMarker = '#'

// candidates is the fixed candidate set, in tie-break order: when two
// candidates reach the same final score, the one earlier in this slice wins.
var candidates = []rune{',', ';', '|', '\t'}

// Delimiter returns the best-scoring candidate separator for sample, using
// quote to recognize lines that are likely inside a multi-line quoted field.
// It returns ',' for an empty sample or when every candidate scores zero.
func Delimiter(sample []byte, quote rune) rune {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ','
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	best := ','
	bestScore := 0.0
	for _, cand := range candidates {
		score := scoreCandidate(lines, cand, quote)
		if cand == '\t' {
			score = tabAdjust(score, lines, sample)
		}
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore == 0 {
		return ','
	}
	return best
}

// sampleLines splits the sample into non-empty lines. Comment lines are
// excluded from scoring; if that exclusion leaves nothing, the full non-empty
// line set is used instead so that comment-only samples still get scored.
func sampleLines(sample []byte) []string {
	var all, scored []string
	for _, raw := range strings.Split(string(sample), "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		all = append(all, line)
		if line[0] != commentMarker {
			scored = append(scored, line)
		}
	}
	if len(scored) == 0 {
		return all
	}
	return scored
}

// scoreCandidate computes the base score for one candidate: the sum of its
// per-line occurrence counts, weighted by how consistent those counts are.
// Lines with an odd number of quote characters are skipped, since they are
// likely the middle of a quoted field spanning lines; skipped lines still
// count toward the consistency divisor, so multi-line quoted fields dilute a
// candidate's consistency rather than being invisible to it.
func scoreCandidate(lines []string, cand, quote rune) float64 {
	var (
		total int
		freq  = map[int]int{} // occurrence count -> how many lines had it
		seen  []int           // occurrence counts in first-seen order
	)
	for _, line := range lines {
		if strings.Count(line, string(quote))%2 != 0 {
			continue
		}
		n := strings.Count(line, string(cand))
		total += n
		if freq[n] == 0 {
			seen = append(seen, n)
		}
		freq[n]++
	}

	// Most frequent occurrence count; ties resolve to the count seen first,
	// keeping detection deterministic for a fixed sample.
	topCount, topFreq := -1, 0
	for _, n := range seen {
		if freq[n] > topFreq {
			topCount, topFreq = n, freq[n]
		}
	}

	score := float64(total)
	if len(lines) > 0 && topCount > 0 {
		score *= (float64(topFreq) / float64(len(lines))) * 2
	}
	return score
}

// tabAdjust applies the tab-specific heuristics:
//
//  1. A positional-consistency bonus when every scored line contains the same
//     non-zero number of tabs (columnar layouts align this way even when the
//     cell contents vary wildly).
//  2. Score doubling when spaces outnumber tabs more than 5:1 across the
//     sample, which separates tab-delimited-with-padding files from loosely
//     space/comma-separated text.
func tabAdjust(score float64, lines []string, sample []byte) float64 {
	if score > 0 && consistentTabCount(lines) {
		score *= 1.5
	}
	tabs := bytes.Count(sample, []byte{'\t'})
	spaces := bytes.Count(sample, []byte{' '})
	if tabs > 0 && float64(spaces)/float64(tabs) > 5 {
		score *= 2
	}
	return score
}

// consistentTabCount reports whether all lines carry the same non-zero number
// of tab characters.
func consistentTabCount(lines []string) bool {
	want := -1
	for _, line := range lines {
		n := strings.Count(line, "\t")
		if n == 0 {
			return false
		}
		if want == -1 {
			want = n
		} else if n != want {
			return false
		}
	}
	return want > 0
}

// DecodeDelimiter converts a user-supplied delimiter string into a single
// rune, resolving the escape-sequence forms accepted on the command line
// (\t, \n, \r, \f, \v). An empty string yields 0, meaning "auto-detect".
func DecodeDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`:
		return '\t', nil
	case `\n`:
		return '\n', nil
	case `\r`:
		return '\r', nil
	case `\f`:
		return '\f', nil
	case `\v`:
		return '\v', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}
