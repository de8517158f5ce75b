// Package exchange implements the evaluator and committer at the heart
// of the optimiser (spec §4.4, §4.5): Evaluate computes the exact delta
// log-likelihood of moving one word between two non-reserved classes
// without touching any table, in time proportional to the word's
// neighbourhood; Commit applies that move to every redundant count
// table so the aggregates stay exact.
//
// The decrement/recompute/increment shape below is the same one a
// collapsed Gibbs sampler uses to resample a single assignment without
// rebuilding its sufficient statistics from scratch — grounded on the
// example pack's topic-model sampler, adapted here to an exact greedy
// delta instead of a sampled probability.
package exchange

import (
	"github.com/cognicore/wordclass/pkg/wordclass/aggregate"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/corpus"
	"github.com/cognicore/wordclass/pkg/wordclass/loglik"
)

// Evaluate returns L(after) − L(before) for moving word w from class a
// to class b. a must differ from b and neither may be a reserved class
// (spec §4.4 contract) — callers (the driver) are responsible for that
// precondition; Evaluate does not mutate any table.
func Evaluate(stats *corpus.Stats, asg *classes.Assignment, t *aggregate.Tables, w, a, b int) float64 {
	n := stats.WordCount[w]

	na := t.ClassCount[a]
	nb := t.ClassCount[b]
	delta := 2*(loglik.XLogX(na)-loglik.XLogX(na-n)) + 2*(loglik.XLogX(nb)-loglik.XLogX(nb+n))

	s := stats.BigramCount(w, w)

	for c, o := range t.WordToClassSum[w] {
		if c == a || c == b {
			continue
		}
		oldAC, oldBC := t.CC(a, c), t.CC(b, c)
		delta += loglik.XLogX(oldAC-o) - loglik.XLogX(oldAC)
		delta += loglik.XLogX(oldBC+o) - loglik.XLogX(oldBC)
	}
	for c, in := range t.ClassToWordSum[w] {
		if c == a || c == b {
			continue
		}
		oldCA, oldCB := t.CC(c, a), t.CC(c, b)
		delta += loglik.XLogX(oldCA-in) - loglik.XLogX(oldCA)
		delta += loglik.XLogX(oldCB+in) - loglik.XLogX(oldCB)
	}

	// The four cells involving a and b only (spec §4.4 step 3). o(a)
	// and i(a) must exclude w's own self-loop s, which the stored
	// tables fold into the [a] bucket while w is still in class a. The
	// self-loop itself leaves cell (a,a) and lands in cell (b,b).
	oa := t.WordToClass(w, a) - s
	ob := t.WordToClass(w, b)
	ia := t.ClassToWord(w, a) - s
	ib := t.ClassToWord(w, b)

	oldAB, oldBA := t.CC(a, b), t.CC(b, a)
	oldAA, oldBB := t.CC(a, a), t.CC(b, b)

	newAB := oldAB - ob + ia
	newBA := oldBA - ib + oa
	newAA := oldAA - oa - ia - s
	newBB := oldBB + ob + ib + s

	delta += loglik.XLogX(newAB) - loglik.XLogX(oldAB)
	delta += loglik.XLogX(newBA) - loglik.XLogX(oldBA)
	delta += loglik.XLogX(newAA) - loglik.XLogX(oldAA)
	delta += loglik.XLogX(newBB) - loglik.XLogX(oldBB)

	return delta
}

// Commit moves w from class a to class b, updating class_count,
// cc_bigram, word_to_class_sum, and class_to_word_sum so invariants
// I2–I6 hold afterward (spec §4.5). No intermediate state is ever
// observable: every table is updated before Commit returns.
func Commit(stats *corpus.Stats, asg *classes.Assignment, t *aggregate.Tables, w, a, b int) {
	n := stats.WordCount[w]
	t.ClassCount[a] -= n
	t.ClassCount[b] += n

	for succ, k := range stats.Bigram[w] {
		if succ == w {
			continue
		}
		c := asg.Class(succ)
		t.CCBigram[a][c] -= k
		t.CCBigram[b][c] += k
		addToMap(&t.ClassToWordSum[succ], a, -k)
		addToMap(&t.ClassToWordSum[succ], b, k)
	}

	for pred, k := range stats.RevBigram[w] {
		if pred == w {
			continue
		}
		c := asg.Class(pred)
		t.CCBigram[c][a] -= k
		t.CCBigram[c][b] += k
		addToMap(&t.WordToClassSum[pred], a, -k)
		addToMap(&t.WordToClassSum[pred], b, k)
	}

	if s := stats.BigramCount(w, w); s != 0 {
		t.CCBigram[a][a] -= s
		t.CCBigram[b][b] += s
		addToMap(&t.WordToClassSum[w], a, -s)
		addToMap(&t.WordToClassSum[w], b, s)
		addToMap(&t.ClassToWordSum[w], a, -s)
		addToMap(&t.ClassToWordSum[w], b, s)
	}

	asg.Move(w, b)
}

func addToMap(m *map[int]int64, key int, delta int64) {
	if *m == nil {
		*m = make(map[int]int64)
	}
	(*m)[key] += delta
}
