// Package loglik computes the class-bigram model's log-likelihood
// objective (spec §4.3) from scratch. Tests use Full to verify the
// exchange evaluator's incremental delta formula against a
// from-scratch recomputation (property P2), and the driver uses it to
// report the log-likelihood. The evaluator shares only XLogX with it.
package loglik

import (
	"math"

	"github.com/cognicore/wordclass/pkg/wordclass/aggregate"
	"github.com/cognicore/wordclass/pkg/wordclass/corpus"
)

// XLogX returns x*log(x), defined as 0 when x == 0 (spec §4.3, §7).
func XLogX(x int64) float64 {
	if x <= 0 {
		return 0
	}
	fx := float64(x)
	return fx * math.Log(fx)
}

// Full recomputes L = Σ_cc' N(c,c')logN(c,c') + Σ_w N(w)logN(w)
// − 2 Σ_c N(c)logN(c) directly from the aggregate tables and the
// per-word unigram counts, up to the additive constants spec §4.3
// allows dropping (none are dropped here — this is the reference used
// to check the evaluator's deltas, so it must be exact).
func Full(stats *corpus.Stats, t *aggregate.Tables) float64 {
	var l float64

	for c1 := 0; c1 < t.K; c1++ {
		for c2 := 0; c2 < t.K; c2++ {
			l += XLogX(t.CC(c1, c2))
		}
	}

	for _, n := range stats.WordCount {
		l += XLogX(n)
	}

	for c := 0; c < t.K; c++ {
		l -= 2 * XLogX(t.ClassCount[c])
	}

	return l
}
