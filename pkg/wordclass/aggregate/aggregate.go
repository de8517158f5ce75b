// Package aggregate builds and holds the redundant class-level count
// tables derived from corpus statistics and a class assignment: class
// unigram counts, the K×K class-class bigram table, and the two
// word-keyed mixed tables the evaluator needs to stay O(degree(word))
// (spec §3, §4.4). The K×K table is stored dense — a plain slice of
// slices, the same "no third-party matrix type" call the reference LDA
// implementation in the example pack makes for its own count tables —
// because K is always small relative to V and no matrix library in the
// retrieved corpus offered an integer K×K type worth pulling in over a
// dense Go slice.
package aggregate

import (
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/corpus"
)

// Tables holds class_count, cc_bigram, word_to_class_sum, and
// class_to_word_sum (spec §3).
type Tables struct {
	K int

	ClassCount      []int64
	CCBigram        [][]int64
	WordToClassSum  []map[int]int64 // size V, keyed by word id
	ClassToWordSum  []map[int]int64 // size V, keyed by word id
}

// Build computes all four aggregate tables from scratch from corpus
// statistics and a class assignment. It is used both at startup and by
// tests verifying P1 (recompute from bigram + word_class must match the
// incrementally maintained tables after every commit).
func Build(stats *corpus.Stats, asg *classes.Assignment) *Tables {
	v := len(stats.WordCount)
	k := asg.K

	t := &Tables{
		K:              k,
		ClassCount:     make([]int64, k),
		CCBigram:       make([][]int64, k),
		WordToClassSum: make([]map[int]int64, v),
		ClassToWordSum: make([]map[int]int64, v),
	}
	for c := range t.CCBigram {
		t.CCBigram[c] = make([]int64, k)
	}

	for w := 0; w < v; w++ {
		t.ClassCount[asg.Class(w)] += stats.WordCount[w]
	}

	for w := 0; w < v; w++ {
		cw := asg.Class(w)
		for succ, cnt := range stats.Bigram[w] {
			cs := asg.Class(succ)
			t.CCBigram[cw][cs] += cnt

			if t.WordToClassSum[w] == nil {
				t.WordToClassSum[w] = make(map[int]int64)
			}
			t.WordToClassSum[w][cs] += cnt

			if t.ClassToWordSum[succ] == nil {
				t.ClassToWordSum[succ] = make(map[int]int64)
			}
			t.ClassToWordSum[succ][cw] += cnt
		}
	}

	return t
}

// CC returns cc_bigram[c1][c2], treating an absent row as zero — rows
// are always allocated by Build, but defensive reads keep this safe if
// K ever changes underfoot (spec §9 "implementations must read
// defensively").
func (t *Tables) CC(c1, c2 int) int64 {
	if c1 < 0 || c1 >= len(t.CCBigram) {
		return 0
	}
	return t.CCBigram[c1][c2]
}

// WordToClass returns word_to_class_sum[w][c], or zero if absent.
func (t *Tables) WordToClass(w, c int) int64 {
	row := t.WordToClassSum[w]
	if row == nil {
		return 0
	}
	return row[c]
}

// ClassToWord returns class_to_word_sum[w][c], or zero if absent.
func (t *Tables) ClassToWord(w, c int) int64 {
	row := t.ClassToWordSum[w]
	if row == nil {
		return 0
	}
	return row[c]
}
