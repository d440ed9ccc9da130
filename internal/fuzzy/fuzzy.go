// Package fuzzy scores string similarity on a 0-100 scale.
//
// Scores are computed over runes from the longest common subsequence:
//
//	ratio(a, b) = round(200 * lcs(a, b) / (len(a) + len(b)))
//
// PartialRatio aligns the shorter string against every window of the longer
// one, including windows that hang off either border, and keeps the best.
package fuzzy

import "math"

// Ratio returns the similarity of a and b.
// Empty input on either side scores 0.
func Ratio(a, b string) int {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and any
// equally long or shorter window of the longer string.
// A shorter string contained in the longer one scores 100.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	m, n := len(short), len(long)
	best := 0
	// start ranges over every placement with at least one rune of overlap
	for start := -(m - 1); start < n; start++ {
		lo := max(start, 0)
		hi := min(start+m, n)
		if score := ratio(short, long[lo:hi]); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func ratio(a, b []rune) int {
	total := len(a) + len(b)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return int(math.Round(200 * float64(lcs(a, b)) / float64(total)))
}

// lcs returns the length of the longest common subsequence.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
