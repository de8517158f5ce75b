// Package driver runs the greedy exchange search described in spec
// §4.6: for each non-reserved word, find the best improving destination
// class and commit it, until an iteration cap, a wall-clock budget, or
// convergence stops the search.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/cognicore/wordclass/pkg/wordclass/aggregate"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/corpus"
	"github.com/cognicore/wordclass/pkg/wordclass/exchange"
	"github.com/cognicore/wordclass/pkg/wordclass/internalerr"
	"github.com/cognicore/wordclass/pkg/wordclass/loglik"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// Config holds the enumerated driver options of spec §6.
type Config struct {
	// NumClasses is K_u, the user-visible class count. Actual K =
	// NumClasses + 2 once the two reserved classes are added.
	NumClasses int

	// MaxIterations caps the number of full passes over the
	// vocabulary. <= 0 means unbounded.
	MaxIterations int

	// MaxSeconds caps wall-clock time, checked at least once per 1000
	// visited words (spec §5). <= 0 means unbounded.
	MaxSeconds float64

	// LLPrintInterval is the number of words between optional
	// log-likelihood progress reports. <= 0 disables reporting.
	LLPrintInterval int

	// StopOnNoImprovement ends the search early if a full pass commits
	// no moves (spec §4.6 optional convergence criterion).
	StopOnNoImprovement bool
}

// ProgressFunc is called after a word visit whenever LLPrintInterval
// (> 0) divides the running count of visited words, whether or not that
// visit committed a move.
type ProgressFunc func(wordsVisited int, logLikelihood float64)

// Result summarises a completed (or budget-stopped) run.
type Result struct {
	Iterations         int
	Commits            int
	FinalLogLikelihood float64
	StoppedReason       string
}

// Run executes the driver loop against stats/asg/tables in place.
// Tables and asg are mutated by every committed exchange; stats is
// read-only.
func Run(ctx context.Context, v *vocab.Vocabulary, stats *corpus.Stats, asg *classes.Assignment, t *aggregate.Tables, cfg Config, progress ProgressFunc) (Result, error) {
	if cfg.NumClasses < 1 {
		return Result{}, fmt.Errorf("num_classes must be >= 1: %w", internalerr.ErrInvalidConfig)
	}

	k := asg.K
	wordIDs := v.NonReservedIDs()

	var deadline time.Time
	if cfg.MaxSeconds > 0 {
		deadline = time.Now().Add(time.Duration(cfg.MaxSeconds * float64(time.Second)))
	}

	var res Result
	wordsVisited := 0

	for iter := 0; cfg.MaxIterations <= 0 || iter < cfg.MaxIterations; iter++ {
		res.Iterations++
		commitsThisPass := 0

		for _, w := range wordIDs {
			wordsVisited++

			if wordsVisited%1000 == 0 {
				if !deadline.IsZero() && time.Now().After(deadline) {
					res.StoppedReason = "max_seconds"
					res.FinalLogLikelihood = loglik.Full(stats, t)
					return res, nil
				}
				select {
				case <-ctx.Done():
					res.StoppedReason = "cancelled"
					res.FinalLogLikelihood = loglik.Full(stats, t)
					return res, ctx.Err()
				default:
				}
			}

			a := asg.Class(w)
			if a == classes.StartClass || a == classes.UnkClass {
				continue
			}

			bestClass := -1
			bestDelta := 0.0
			for c := 2; c < k; c++ {
				if c == a {
					continue
				}
				delta := exchange.Evaluate(stats, asg, t, w, a, c)
				if bestClass == -1 || delta > bestDelta {
					bestClass = c
					bestDelta = delta
				}
			}

			if bestClass == -1 {
				// No alternative non-reserved class exists at all
				// (K_u == 1): leaving w in place is correct, not a
				// bug. With K_u >= 2 there is always at least one
				// candidate, so reaching here would indicate a loop
				// or indexing defect.
				if k-2 >= 2 {
					return res, fmt.Errorf("word %q: no candidate class evaluated: %w", v.Word(w), internalerr.ErrInvariantViolated)
				}
				continue
			}

			if bestDelta > 0 {
				exchange.Commit(stats, asg, t, w, a, bestClass)
				res.Commits++
				commitsThisPass++
			}

			if progress != nil && cfg.LLPrintInterval > 0 && wordsVisited%cfg.LLPrintInterval == 0 {
				progress(wordsVisited, loglik.Full(stats, t))
			}
		}

		if cfg.StopOnNoImprovement && commitsThisPass == 0 {
			res.StoppedReason = "converged"
			break
		}
	}

	if res.StoppedReason == "" {
		res.StoppedReason = "max_iterations"
	}
	res.FinalLogLikelihood = loglik.Full(stats, t)
	return res, nil
}
