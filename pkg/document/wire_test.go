package document

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleDocument() *Document {
	return &Document{
		Text:  "Chris wrote a sentence.",
		DocID: "doc-1",
		Sentences: []*Sentence{{
			Index:          0,
			TokenOffsetEnd: 5,
			CharEnd:        23,
			Tokens: []*Token{
				{Word: "Chris", OriginalText: "Chris", NER: "PERSON", EndChar: 5, After: " "},
				{Word: "wrote", Lemma: "write", POS: "VBD", BeginChar: 6, EndChar: 11, Before: " ", After: " "},
				{Word: "a", BeginChar: 12, EndChar: 13},
				{Word: "sentence", BeginChar: 14, EndChar: 22},
				{Word: ".", BeginChar: 22, EndChar: 23},
			},
		}},
	}
}

func TestParseDelimited(t *testing.T) {
	want := sampleDocument()

	got, err := ParseDelimited(bytes.NewReader(want.MarshalDelimited()))
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 5, got.TokenCount())
	assert.Equal(t, "Chris wrote a sentence .", got.Sentences[0].String())
	assert.Equal(t, "Chris wrote/VBD a sentence .\n", got.String())
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := sampleDocument().Marshal()
	// corefChain (3) and an unknown fixed32 field
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0x08, 0x01})
	b = protowire.AppendTag(b, 99, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.DocID)
	assert.Len(t, got.Sentences[0].Tokens, 5)
}

func TestParseDelimitedTruncated(t *testing.T) {
	b := sampleDocument().MarshalDelimited()

	_, err := ParseDelimited(bytes.NewReader(b[:len(b)-3]))
	assert.True(t, errors.Is(err, ErrTruncated))

	_, err = ParseDelimited(bytes.NewReader([]byte{0xff}))
	assert.Error(t, err)
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0x12, 0x05, 0x0a})
	assert.Error(t, err)
}
