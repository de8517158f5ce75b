// Package output writes the two report formats spec §6 defines: the
// per-word class assignment (primary) and the human-readable class
// listing (secondary).
package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// WriteAssignment writes one line per vocabulary word, in vocabulary-id
// order: "<surface>\t<class-id> 0.000000\n". The trailing zero is a
// compatibility placeholder for downstream tools expecting a
// log-probability column (spec §6).
func WriteAssignment(w io.Writer, v *vocab.Vocabulary, asg *classes.Assignment) error {
	bw := bufio.NewWriter(w)
	for id := 0; id < v.Size(); id++ {
		if _, err := fmt.Fprintf(bw, "%s\t%d 0.000000\n", v.Word(id), asg.Class(id)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteClassListing writes one line per class 0..K-1, members in
// ascending vocabulary-id order, comma-separated with no spaces. Empty
// classes emit "<class-id>: \n" (spec §6).
func WriteClassListing(w io.Writer, v *vocab.Vocabulary, asg *classes.Assignment, labels map[int]string) error {
	bw := bufio.NewWriter(w)
	for c := 0; c < asg.K; c++ {
		members := make([]int, 0, len(asg.Words(c)))
		for id := range asg.Words(c) {
			members = append(members, id)
		}
		sort.Ints(members)

		words := make([]string, len(members))
		for i, id := range members {
			words[i] = v.Word(id)
		}

		if label, ok := labels[c]; ok && label != "" {
			if _, err := fmt.Fprintf(bw, "%d (%s): %s\n", c, label, joinComma(words)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d: %s\n", c, joinComma(words)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func joinComma(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += ","
		}
		out += w
	}
	return out
}
