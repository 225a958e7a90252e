package stubserver

import (
	"unicode"

	"github.com/getzep/corenlp/pkg/document"
)

// Tokenize splits text into sentences of word and punctuation tokens. Runs of
// letters, digits, apostrophes and hyphens form words, every other non-space
// rune is its own token, and ".", "!" and "?" end a sentence. Offsets count
// runes, as the server's character offsets do.
func Tokenize(text string) *document.Document {
	doc := &document.Document{Text: text}
	runes := []rune(text)

	var (
		cur       *document.Sentence
		tokenIdx  int
		prevToken *document.Token
	)
	closeSentence := func() {
		if cur == nil {
			return
		}
		cur.TokenOffsetEnd = tokenIdx
		last := cur.Tokens[len(cur.Tokens)-1]
		cur.CharEnd = last.EndChar
		doc.Sentences = append(doc.Sentences, cur)
		cur = nil
	}

	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		start := i
		if isWordRune(runes[i]) {
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
		} else {
			i++
		}

		word := string(runes[start:i])
		tok := &document.Token{
			Word:         word,
			Value:        word,
			OriginalText: word,
			BeginChar:    start,
			EndChar:      i,
			Before:       whitespaceBefore(runes, start, prevToken),
		}
		if prevToken != nil {
			prevToken.After = tok.Before
		}
		prevToken = tok

		if cur == nil {
			cur = &document.Sentence{
				Index:            len(doc.Sentences),
				TokenOffsetBegin: tokenIdx,
				CharBegin:        start,
			}
		}
		cur.Tokens = append(cur.Tokens, tok)
		tokenIdx++

		if word == "." || word == "!" || word == "?" {
			closeSentence()
		}
	}
	closeSentence()

	if prevToken != nil {
		prevToken.After = string(runes[prevToken.EndChar:])
	}
	return doc
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

func whitespaceBefore(runes []rune, start int, prev *document.Token) string {
	from := 0
	if prev != nil {
		from = prev.EndChar
	}
	return string(runes[from:start])
}
