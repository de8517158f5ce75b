// Package corpus reads a tokenised text corpus and summarises it as
// per-word unigram and bigram statistics, grounded on the same
// accumulate-in-one-pass shape as pmi.Counter in the teacher repo, but
// keyed by dense vocabulary ids instead of raw strings.
package corpus

import (
	"bufio"
	"io"
	"strings"

	"github.com/cognicore/wordclass/pkg/wordclass/internalerr"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// ReadSentences splits r into sentences (one per line) and each sentence
// into tokens separated by runs of ASCII whitespace (spec §6). No
// sentence-boundary markers are expected inside a line.
func ReadSentences(r io.Reader) ([][]string, error) {
	var sentences [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n' || r == '\v' || r == '\f' || r == '\r'
		})
		if len(tokens) == 0 {
			continue
		}
		sentences = append(sentences, tokens)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, internalerr.ErrEmptyCorpus
	}
	return sentences, nil
}

// Stats holds the corpus-wide per-word unigram and bigram tables
// (spec §3: word_count, bigram, rev_bigram).
type Stats struct {
	WordCount []int64
	Bigram    []map[int]int64
	RevBigram []map[int]int64

	// TotalTokens is the count of non-framing tokens across the corpus
	// (spec §4.1: "Token total reported excludes the two framing
	// tokens per sentence").
	TotalTokens int64
}

// Build frames every sentence with <s> ... </s> and accumulates
// word_count, bigram, and rev_bigram over the framed sequence. It
// assumes every token in sentences is already present in v (the
// vocabulary built from the same corpus in pass one); a token missing
// from v is a caller bug, and Build counts it as <unk> rather than
// panicking.
func Build(v *vocab.Vocabulary, sentences [][]string) *Stats {
	s := &Stats{
		WordCount: make([]int64, v.Size()),
		Bigram:    make([]map[int]int64, v.Size()),
		RevBigram: make([]map[int]int64, v.Size()),
	}

	framed := make([]int, 0, 64)
	for _, sentence := range sentences {
		framed = framed[:0]
		framed = append(framed, vocab.StartID)
		for _, tok := range sentence {
			id, ok := v.ID(tok)
			if !ok {
				// Caller built v from a different corpus than sentences;
				// treat as unknown rather than panic.
				id = vocab.UnkID
			}
			framed = append(framed, id)
		}
		framed = append(framed, vocab.EndID)

		s.TotalTokens += int64(len(sentence))

		for i, w := range framed {
			s.WordCount[w]++
			if i+1 < len(framed) {
				succ := framed[i+1]
				s.addBigram(w, succ)
			}
		}
	}
	return s
}

func (s *Stats) addBigram(w, succ int) {
	if s.Bigram[w] == nil {
		s.Bigram[w] = make(map[int]int64)
	}
	s.Bigram[w][succ]++

	if s.RevBigram[succ] == nil {
		s.RevBigram[succ] = make(map[int]int64)
	}
	s.RevBigram[succ][w]++
}

// BigramCount returns N(w, succ), treating an absent entry as zero
// (spec §4.4 edge cases, §9 "absent == 0").
func (s *Stats) BigramCount(w, succ int) int64 {
	row := s.Bigram[w]
	if row == nil {
		return 0
	}
	return row[succ]
}
