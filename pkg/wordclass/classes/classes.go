// Package classes holds the word→class partition and its inverse, and
// the deterministic round-robin initialisation described in spec §4.2.
package classes

import (
	"sort"

	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// Reserved class ids (spec §4.2, §GLOSSARY).
const (
	StartClass = 0
	UnkClass   = 1
)

// Assignment is the word→class partition (word_class) and its inverse
// (class_words). K is the total class count, including the two
// reserved classes.
type Assignment struct {
	K          int
	wordClass  []int
	classWords []map[int]struct{}
}

// New allocates an empty assignment over a vocabulary of size
// vocabSize with k total classes (already including the two reserved
// ones). Callers use Init to populate it deterministically, or restore
// it from a checkpoint.
func New(vocabSize, k int) *Assignment {
	a := &Assignment{
		K:          k,
		wordClass:  make([]int, vocabSize),
		classWords: make([]map[int]struct{}, k),
	}
	for c := range a.classWords {
		a.classWords[c] = make(map[int]struct{})
	}
	return a
}

// Class returns the current class of word w.
func (a *Assignment) Class(w int) int {
	return a.wordClass[w]
}

// Words returns the set of words currently in class c. Callers must
// not mutate the returned map.
func (a *Assignment) Words(c int) map[int]struct{} {
	return a.classWords[c]
}

// set assigns w to class c, maintaining both directions of the
// bijection (invariant I6).
func (a *Assignment) set(w, c int) {
	if old := a.wordClass[w]; a.classWords[old] != nil {
		delete(a.classWords[old], w)
	}
	a.wordClass[w] = c
	a.classWords[c][w] = struct{}{}
}

// Move reassigns w from its current class to c. Used only by the
// exchange committer — see exchange.Commit for the table updates that
// must accompany it.
func (a *Assignment) Move(w, c int) {
	a.set(w, c)
}

// Init performs the deterministic initial partition described in spec
// §4.2: <s> and </s> go to StartClass, <unk> goes to UnkClass. Every
// other word is sorted by descending unigram count (ties broken by
// ascending word id) and distributed round-robin over the K-2
// non-reserved classes [2, K). Words whose surface form contains '<'
// are excluded from the round-robin and default to UnkClass — spec §9
// leaves their fate an explicit open question; grouping unclassified
// placeholder-shaped tokens with <unk> is the decision recorded in
// DESIGN.md.
func Init(v *vocab.Vocabulary, wordCount []int64, k int) *Assignment {
	a := New(v.Size(), k)

	a.set(vocab.StartID, StartClass)
	a.set(vocab.EndID, StartClass)
	a.set(vocab.UnkID, UnkClass)

	type candidate struct {
		id    int
		count int64
	}
	var ordinary []candidate
	for _, id := range v.NonReservedIDs() {
		if v.HasAngleBracket(id) {
			a.set(id, UnkClass)
			continue
		}
		ordinary = append(ordinary, candidate{id: id, count: wordCount[id]})
	}

	sort.Slice(ordinary, func(i, j int) bool {
		if ordinary[i].count != ordinary[j].count {
			return ordinary[i].count > ordinary[j].count
		}
		return ordinary[i].id < ordinary[j].id
	})

	span := k - 2
	for i, cand := range ordinary {
		class := 2 + (i % span)
		a.set(cand.id, class)
	}

	return a
}
