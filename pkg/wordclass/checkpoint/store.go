// Package checkpoint persists run metadata and class assignments so a
// long-running optimisation can be resumed or inspected after the
// process exits. The interface and its two implementations
// (checkpoint/sqlite, checkpoint/memstore) mirror the teacher's
// store.Store / store/sqlite / store/memstore split, narrowed to the
// tables this domain needs.
package checkpoint

import (
	"context"
	"time"

	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// RunMetadata records one driver invocation.
type RunMetadata struct {
	RunID              string
	CorpusPath         string
	NumClasses         int
	StartedAt          time.Time
	Iterations         int
	Commits            int
	FinalLogLikelihood float64
	StoppedReason      string
}

// Store persists run metadata and class assignments across process
// restarts.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, meta RunMetadata) error

	// SaveAssignment persists the current word->class mapping for a
	// run, keyed by the vocabulary's surface tokens (ids are not
	// stable across processes, since vocabulary ids depend on the
	// corpus' lexicographic ordering of whatever ran that pass).
	SaveAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error

	// LoadAssignment restores a previously saved assignment into asg,
	// mapping surface tokens back through v. Words present in the
	// checkpoint but absent from v are skipped; words in v but absent
	// from the checkpoint keep whatever class asg already has them in.
	LoadAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error

	// LatestRun returns the most recent run recorded against
	// corpusPath, if any.
	LatestRun(ctx context.Context, corpusPath string) (RunMetadata, bool, error)
}
