// Package document decodes the subset of the CoreNLP protobuf Document that
// the client exposes: text, sentences and their tokens. Unknown fields are
// skipped, so documents from newer servers still decode.
package document

import "strings"

type Document struct {
	Text      string
	DocID     string
	Sentences []*Sentence
}

type Sentence struct {
	Index            int
	TokenOffsetBegin int
	TokenOffsetEnd   int
	CharBegin        int
	CharEnd          int
	Tokens           []*Token
}

type Token struct {
	Word         string
	POS          string
	Value        string
	Before       string
	After        string
	OriginalText string
	NER          string
	Lemma        string
	BeginChar    int
	EndChar      int
}

// TokenCount is the number of tokens across all sentences.
func (d *Document) TokenCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Tokens)
	}
	return n
}

func (s *Sentence) Words() []string {
	words := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		words[i] = t.Word
	}
	return words
}

func (s *Sentence) String() string {
	return strings.Join(s.Words(), " ")
}

// String renders one sentence per line, tagging words with their part of
// speech when the document carries one.
func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.Sentences {
		for i, t := range s.Tokens {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t.Word)
			if t.POS != "" {
				b.WriteByte('/')
				b.WriteString(t.POS)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
