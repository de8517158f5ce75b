package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

func TestSaveAndLoadAssignmentRoundTrips(t *testing.T) {
	ctx := context.Background()
	sentences := [][]string{{"the", "dog", "ran"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	asg := classes.Init(v, wordCount, 5)

	theID, _ := v.ID("the")
	asg.Move(theID, 3)

	s := New()
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

func TestLatestRunTracksMostRecentSave(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := checkpoint.RunMetadata{RunID: "run-1", CorpusPath: "corpus.txt", StartedAt: time.Now()}
	second := checkpoint.RunMetadata{RunID: "run-2", CorpusPath: "corpus.txt", StartedAt: time.Now()}

	if err := s.SaveRun(ctx, first); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(ctx, second); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	latest, found, err := s.LatestRun(ctx, "corpus.txt")
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if !found {
		t.Fatal("expected a run to be found")
	}
	if latest.RunID != "run-2" {
		t.Errorf("RunID = %q, want run-2", latest.RunID)
	}
}

func TestLatestRunNotFoundForUnknownCorpus(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, found, err := s.LatestRun(ctx, "nope.txt")
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if found {
		t.Error("expected found=false for an unknown corpus path")
	}
}
