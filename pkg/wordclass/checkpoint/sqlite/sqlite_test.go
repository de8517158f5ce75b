package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoint.db")

	s, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := initSchema(ctx, s.(*store).db); err != nil {
		t.Fatalf("initSchema should be idempotent: %v", err)
	}
}

func TestSaveAndLoadAssignmentRoundTrips(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoint.db")

	s, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sentences := [][]string{{"the", "dog", "ran"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	asg := classes.Init(v, wordCount, 5)
	dogID, _ := v.ID("dog")
	asg.Move(dogID, 3)

	if err := s.SaveAssignment(ctx, "run-1", v, asg); err != nil {
		t.Fatalf("SaveAssignment: %v", err)
	}

	restored := classes.New(v.Size(), 5)
	if err := s.LoadAssignment(ctx, "run-1", v, restored); err != nil {
		t.Fatalf("LoadAssignment: %v", err)
	}

	for id := 0; id < v.Size(); id++ {
		if restored.Class(id) != asg.Class(id) {
			t.Errorf("word %q class = %d, want %d", v.Word(id), restored.Class(id), asg.Class(id))
		}
	}
}

func TestSaveRunAndLatestRun(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoint.db")

	s, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	meta := checkpoint.RunMetadata{
		RunID:              "run-1",
		CorpusPath:         "corpus.txt",
		NumClasses:         10,
		StartedAt:          time.Now().Truncate(time.Second),
		Iterations:         3,
		Commits:            42,
		FinalLogLikelihood: -123.45,
		StoppedReason:      "converged",
	}
	if err := s.SaveRun(ctx, meta); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, found, err := s.LatestRun(ctx, "corpus.txt")
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if !found {
		t.Fatal("expected a run to be found")
	}
	if got.RunID != meta.RunID || got.Commits != meta.Commits || got.StoppedReason != meta.StoppedReason {
		t.Errorf("LatestRun = %+v, want %+v", got, meta)
	}
}

func TestSaveRunUpsertsOnConflict(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoint.db")

	s, err := Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	meta := checkpoint.RunMetadata{RunID: "run-1", CorpusPath: "corpus.txt", StartedAt: time.Now().Truncate(time.Second), Iterations: 1}
	if err := s.SaveRun(ctx, meta); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	meta.Iterations = 5
	if err := s.SaveRun(ctx, meta); err != nil {
		t.Fatalf("SaveRun (update): %v", err)
	}

	got, _, err := s.LatestRun(ctx, "corpus.txt")
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if got.Iterations != 5 {
		t.Errorf("Iterations = %d, want 5 after upsert", got.Iterations)
	}
}
