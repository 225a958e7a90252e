package stubserver

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/getzep/corenlp/pkg/document"
)

type jsonToken struct {
	Index                int    `json:"index"`
	Word                 string `json:"word"`
	OriginalText         string `json:"originalText"`
	CharacterOffsetBegin int    `json:"characterOffsetBegin"`
	CharacterOffsetEnd   int    `json:"characterOffsetEnd"`
	Before               string `json:"before"`
	After                string `json:"after"`
}

type jsonSentence struct {
	Index  int         `json:"index"`
	Tokens []jsonToken `json:"tokens"`
}

func renderJSON(doc *document.Document) map[string]any {
	sentences := make([]jsonSentence, len(doc.Sentences))
	for i, s := range doc.Sentences {
		js := jsonSentence{Index: s.Index, Tokens: make([]jsonToken, len(s.Tokens))}
		for j, t := range s.Tokens {
			js.Tokens[j] = jsonToken{
				Index:                j + 1,
				Word:                 t.Word,
				OriginalText:         t.OriginalText,
				CharacterOffsetBegin: t.BeginChar,
				CharacterOffsetEnd:   t.EndChar,
				Before:               t.Before,
				After:                t.After,
			}
		}
		sentences[i] = js
	}
	return map[string]any{"sentences": sentences}
}

func renderText(doc *document.Document) string {
	var b strings.Builder
	runes := []rune(doc.Text)
	for i, s := range doc.Sentences {
		fmt.Fprintf(&b, "Sentence #%d (%d tokens):\n", i+1, len(s.Tokens))
		b.WriteString(string(runes[s.CharBegin:s.CharEnd]))
		b.WriteString("\n\nTokens:\n")
		for _, t := range s.Tokens {
			fmt.Fprintf(&b, "[Text=%s CharacterOffsetBegin=%d CharacterOffsetEnd=%d]\n", t.Word, t.BeginChar, t.EndChar)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderCoNLL writes one token per line with unannotated columns as "_".
func renderCoNLL(doc *document.Document, universal bool) string {
	var b strings.Builder
	for _, s := range doc.Sentences {
		for i, t := range s.Tokens {
			if universal {
				fmt.Fprintf(&b, "%d\t%s\t_\t_\t_\t_\t0\t_\t_\t_\n", i+1, t.Word)
			} else {
				fmt.Fprintf(&b, "%d\t%s\t_\t_\t_\t0\t_\n", i+1, t.Word)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

type xmlToken struct {
	ID    int    `xml:"id,attr"`
	Word  string `xml:"word"`
	Begin int    `xml:"CharacterOffsetBegin"`
	End   int    `xml:"CharacterOffsetEnd"`
}

type xmlSentence struct {
	ID     int        `xml:"id,attr"`
	Tokens []xmlToken `xml:"tokens>token"`
}

type xmlRoot struct {
	XMLName   xml.Name      `xml:"root"`
	Sentences []xmlSentence `xml:"document>sentences>sentence"`
}

func renderXML(w io.Writer, doc *document.Document) error {
	root := xmlRoot{Sentences: make([]xmlSentence, len(doc.Sentences))}
	for i, s := range doc.Sentences {
		xs := xmlSentence{ID: i + 1, Tokens: make([]xmlToken, len(s.Tokens))}
		for j, t := range s.Tokens {
			xs.Tokens[j] = xmlToken{ID: j + 1, Word: t.Word, Begin: t.BeginChar, End: t.EndChar}
		}
		root.Sentences[i] = xs
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(root)
}
