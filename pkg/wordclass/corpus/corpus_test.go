package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/wordclass/pkg/wordclass/internalerr"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

func TestReadSentencesSplitsOnWhitespace(t *testing.T) {
	sentences, err := ReadSentences(strings.NewReader("the  dog ran\n a cat\tslept \n"))
	if err != nil {
		t.Fatalf("ReadSentences: %v", err)
	}
	want := [][]string{{"the", "dog", "ran"}, {"a", "cat", "slept"}}
	if len(sentences) != len(want) {
		t.Fatalf("got %d sentences, want %d", len(sentences), len(want))
	}
	for i := range want {
		if strings.Join(sentences[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("sentence %d = %v, want %v", i, sentences[i], want[i])
		}
	}
}

func TestReadSentencesSkipsBlankLines(t *testing.T) {
	sentences, err := ReadSentences(strings.NewReader("a b\n\n\nc d\n"))
	if err != nil {
		t.Fatalf("ReadSentences: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(sentences))
	}
}

func TestReadSentencesEmptyCorpus(t *testing.T) {
	_, err := ReadSentences(strings.NewReader("\n\n  \n"))
	if !errors.Is(err, internalerr.ErrEmptyCorpus) {
		t.Fatalf("err = %v, want ErrEmptyCorpus", err)
	}
}

func TestBuildFramesEverySentence(t *testing.T) {
	sentences := [][]string{{"the", "dog"}}
	v := vocab.Build(sentences)
	stats := Build(v, sentences)

	theID, _ := v.ID("the")
	dogID, _ := v.ID("dog")

	if stats.BigramCount(vocab.StartID, theID) != 1 {
		t.Errorf("expected one <s>->the bigram")
	}
	if stats.BigramCount(theID, dogID) != 1 {
		t.Errorf("expected one the->dog bigram")
	}
	if stats.BigramCount(dogID, vocab.EndID) != 1 {
		t.Errorf("expected one dog-></s> bigram")
	}
	if stats.WordCount[theID] != 1 || stats.WordCount[dogID] != 1 {
		t.Errorf("unexpected unigram counts: the=%d dog=%d", stats.WordCount[theID], stats.WordCount[dogID])
	}
}

func TestBuildTotalTokensExcludesFraming(t *testing.T) {
	sentences := [][]string{{"the", "dog", "ran"}, {"a", "cat"}}
	v := vocab.Build(sentences)
	stats := Build(v, sentences)

	if stats.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", stats.TotalTokens)
	}
}

func TestBigramCountAbsentIsZero(t *testing.T) {
	sentences := [][]string{{"a", "b"}}
	v := vocab.Build(sentences)
	stats := Build(v, sentences)
	cID, _ := v.ID("a")
	if got := stats.BigramCount(cID, cID); got != 0 {
		t.Errorf("BigramCount for never-seen pair = %d, want 0", got)
	}
}

func TestBuildAccumulatesRepeatedBigrams(t *testing.T) {
	sentences := [][]string{{"a", "b"}, {"a", "b"}, {"a", "c"}}
	v := vocab.Build(sentences)
	stats := Build(v, sentences)
	aID, _ := v.ID("a")
	bID, _ := v.ID("b")

	if stats.BigramCount(aID, bID) != 2 {
		t.Errorf("BigramCount(a,b) = %d, want 2", stats.BigramCount(aID, bID))
	}
}
