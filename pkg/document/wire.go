package document

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers from CoreNLP.proto.
const (
	docText     protowire.Number = 1
	docSentence protowire.Number = 2
	docID       protowire.Number = 4

	sentToken            protowire.Number = 1
	sentTokenOffsetBegin protowire.Number = 2
	sentTokenOffsetEnd   protowire.Number = 3
	sentIndex            protowire.Number = 4
	sentCharBegin        protowire.Number = 5
	sentCharEnd          protowire.Number = 6

	tokWord         protowire.Number = 1
	tokPOS          protowire.Number = 2
	tokValue        protowire.Number = 3
	tokBefore       protowire.Number = 5
	tokAfter        protowire.Number = 6
	tokOriginalText protowire.Number = 7
	tokNER          protowire.Number = 8
	tokLemma        protowire.Number = 10
	tokBeginChar    protowire.Number = 11
	tokEndChar      protowire.Number = 12
)

var ErrTruncated = errors.New("truncated delimited document")

// ParseDelimited reads one varint length-prefixed Document, the framing the
// server uses for outputFormat=serialized.
func ParseDelimited(r io.Reader) (*Document, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	size, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return nil, fmt.Errorf("bad length prefix: %w", protowire.ParseError(n))
	}
	buf = buf[n:]
	if uint64(len(buf)) < size {
		return nil, ErrTruncated
	}
	return Unmarshal(buf[:size])
}

func Unmarshal(b []byte) (*Document, error) {
	d := &Document{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == docText && typ == protowire.BytesType:
			return consumeString(b, &d.Text)
		case num == docID && typ == protowire.BytesType:
			return consumeString(b, &d.DocID)
		case num == docSentence && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			s, err := unmarshalSentence(v)
			if err != nil {
				return 0, err
			}
			d.Sentences = append(d.Sentences, s)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return d, nil
}

func unmarshalSentence(b []byte) (*Sentence, error) {
	s := &Sentence{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.VarintType {
			switch num {
			case sentTokenOffsetBegin:
				return consumeInt(b, &s.TokenOffsetBegin)
			case sentTokenOffsetEnd:
				return consumeInt(b, &s.TokenOffsetEnd)
			case sentIndex:
				return consumeInt(b, &s.Index)
			case sentCharBegin:
				return consumeInt(b, &s.CharBegin)
			case sentCharEnd:
				return consumeInt(b, &s.CharEnd)
			}
		}
		if num == sentToken && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			t, err := unmarshalToken(v)
			if err != nil {
				return 0, err
			}
			s.Tokens = append(s.Tokens, t)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return s, err
}

func unmarshalToken(b []byte) (*Token, error) {
	t := &Token{}
	strs := map[protowire.Number]*string{
		tokWord:         &t.Word,
		tokPOS:          &t.POS,
		tokValue:        &t.Value,
		tokBefore:       &t.Before,
		tokAfter:        &t.After,
		tokOriginalText: &t.OriginalText,
		tokNER:          &t.NER,
		tokLemma:        &t.Lemma,
	}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if dst, ok := strs[num]; ok && typ == protowire.BytesType {
			return consumeString(b, dst)
		}
		if typ == protowire.VarintType {
			switch num {
			case tokBeginChar:
				return consumeInt(b, &t.BeginChar)
			case tokEndChar:
				return consumeInt(b, &t.EndChar)
			}
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return t, err
}

// walk calls field for every tag in b. field returns the number of bytes it
// consumed after the tag, or a negative protowire error code.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func consumeString(b []byte, dst *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n, nil
}

func consumeInt(b []byte, dst *int) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = int(v)
	}
	return n, nil
}

// Marshal encodes d with the same field numbers Unmarshal reads.
func (d *Document) Marshal() []byte {
	var b []byte
	b = appendString(b, docText, d.Text)
	for _, s := range d.Sentences {
		b = protowire.AppendTag(b, docSentence, protowire.BytesType)
		b = protowire.AppendBytes(b, s.marshal())
	}
	b = appendString(b, docID, d.DocID)
	return b
}

// MarshalDelimited prefixes Marshal's output with its varint length.
func (d *Document) MarshalDelimited() []byte {
	msg := d.Marshal()
	b := protowire.AppendVarint(nil, uint64(len(msg)))
	return append(b, msg...)
}

func (s *Sentence) marshal() []byte {
	var b []byte
	for _, t := range s.Tokens {
		b = protowire.AppendTag(b, sentToken, protowire.BytesType)
		b = protowire.AppendBytes(b, t.marshal())
	}
	b = appendVarint(b, sentTokenOffsetBegin, s.TokenOffsetBegin)
	b = appendVarint(b, sentTokenOffsetEnd, s.TokenOffsetEnd)
	b = appendVarint(b, sentIndex, s.Index)
	b = appendVarint(b, sentCharBegin, s.CharBegin)
	b = appendVarint(b, sentCharEnd, s.CharEnd)
	return b
}

func (t *Token) marshal() []byte {
	var b []byte
	b = appendString(b, tokWord, t.Word)
	b = appendString(b, tokPOS, t.POS)
	b = appendString(b, tokValue, t.Value)
	b = appendString(b, tokBefore, t.Before)
	b = appendString(b, tokAfter, t.After)
	b = appendString(b, tokOriginalText, t.OriginalText)
	b = appendString(b, tokNER, t.NER)
	b = appendString(b, tokLemma, t.Lemma)
	b = appendVarint(b, tokBeginChar, t.BeginChar)
	b = appendVarint(b, tokEndChar, t.EndChar)
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// Sentence offsets are required fields in CoreNLP.proto, so zero is written too.
func appendVarint(b []byte, num protowire.Number, v int) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}
