package classes

import (
	"testing"

	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

func TestInitFreezesReservedTokens(t *testing.T) {
	sentences := [][]string{{"the", "dog", "ran"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	for id := 0; id < v.Size(); id++ {
		wordCount[id] = 1
	}

	a := Init(v, wordCount, 5)

	if a.Class(vocab.StartID) != StartClass {
		t.Errorf("<s> class = %d, want %d", a.Class(vocab.StartID), StartClass)
	}
	if a.Class(vocab.EndID) != StartClass {
		t.Errorf("</s> class = %d, want %d", a.Class(vocab.EndID), StartClass)
	}
	if a.Class(vocab.UnkID) != UnkClass {
		t.Errorf("<unk> class = %d, want %d", a.Class(vocab.UnkID), UnkClass)
	}
}

func TestInitDistributesRoundRobin(t *testing.T) {
	sentences := [][]string{{"a", "b", "c", "d"}}
	v := vocab.Build(sentences)
	wordCount := []int64{0, 0, 0, 4, 3, 2, 1} // <s></s><unk> then a,b,c,d lexicographic: a b c d
	// vocab order is <s>,</s>,<unk>,a,b,c,d (lexicographic)
	a := Init(v, wordCount, 4) // k=4, span=2, classes 2 and 3

	seen := map[int]int{}
	for _, id := range v.NonReservedIDs() {
		seen[a.Class(id)]++
	}
	if len(seen) != 2 {
		t.Fatalf("expected words spread across 2 classes, got %v", seen)
	}
}

func TestInitMaintainsBijection(t *testing.T) {
	sentences := [][]string{{"a", "b", "c"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	a := Init(v, wordCount, 5)

	for c := 0; c < a.K; c++ {
		for id := range a.Words(c) {
			if a.Class(id) != c {
				t.Errorf("word %d in Words(%d) but Class() reports %d", id, c, a.Class(id))
			}
		}
	}
	for id := 0; id < v.Size(); id++ {
		c := a.Class(id)
		if _, ok := a.Words(c)[id]; !ok {
			t.Errorf("word %d reports class %d but is absent from Words(%d)", id, c, c)
		}
	}
}

func TestMovePreservesBijection(t *testing.T) {
	sentences := [][]string{{"a", "b"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	a := Init(v, wordCount, 5)

	id, _ := v.ID("a")
	from := a.Class(id)
	to := 2
	if to == from {
		to = 3
	}

	a.Move(id, to)

	if a.Class(id) != to {
		t.Errorf("Class after Move = %d, want %d", a.Class(id), to)
	}
	if _, ok := a.Words(from)[id]; ok {
		t.Errorf("word still present in old class %d after Move", from)
	}
	if _, ok := a.Words(to)[id]; !ok {
		t.Errorf("word absent from new class %d after Move", to)
	}
}

func TestInitAngleBracketWordsDefaultToUnkClass(t *testing.T) {
	sentences := [][]string{{"<URL>", "word"}}
	v := vocab.Build(sentences)
	wordCount := make([]int64, v.Size())
	a := Init(v, wordCount, 5)

	urlID, _ := v.ID("<URL>")
	if a.Class(urlID) != UnkClass {
		t.Errorf("<URL>-shaped word class = %d, want UnkClass", a.Class(urlID))
	}
}
