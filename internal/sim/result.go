package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Result is a measurement histogram. Keys are classical registers written
// with c[n-1] first, the way Qiskit prints them.
type Result struct {
	Shots  int
	Counts map[string]int
}

// Entry is one bar of the histogram.
type Entry struct {
	Bits  string
	Count int
}

// Sorted returns the counts with the most frequent outcome first; ties
// go by bitstring.
func (r Result) Sorted() []Entry {
	out := make([]Entry, 0, len(r.Counts))
	for k, v := range r.Counts {
		out = append(out, Entry{Bits: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Bits, b.Bits)
	})
	return out
}

// Probability is the observed frequency of bits.
func (r Result) Probability(bits string) float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Counts[bits]) / float64(r.Shots)
}

// Marginal keeps only the given classical bits. The returned keys put the
// highest listed bit first.
func (r Result) Marginal(clbits []int) Result {
	keep := slices.Clone(clbits)
	slices.Sort(keep)
	out := Result{Shots: r.Shots, Counts: make(map[string]int)}
	for k, v := range r.Counts {
		var sb strings.Builder
		for i := len(keep) - 1; i >= 0; i-- {
			pos := len(k) - 1 - keep[i]
			if pos < 0 || pos >= len(k) {
				sb.WriteByte('0')
				continue
			}
			sb.WriteByte(k[pos])
		}
		out.Counts[sb.String()] += v
	}
	return out
}

func (r Result) String() string {
	var sb strings.Builder
	for i, e := range r.Sorted() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%d", e.Bits, e.Count)
	}
	return "{" + sb.String() + "}"
}

// bitstring writes the low n bits of v with bit n-1 first.
func bitstring(v, n int) string {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		if v&(1<<i) != 0 {
			b[n-1-i] = '1'
		} else {
			b[n-1-i] = '0'
		}
	}
	return string(b)
}
