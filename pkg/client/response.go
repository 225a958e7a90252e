package client

import (
	"bytes"
	"encoding/json"

	"github.com/getzep/corenlp/pkg/document"
	"github.com/getzep/corenlp/pkg/models"
)

// Result is a decoded annotate response. Format says which field is set:
// Text for text, conll, conllu and xml; Document for serialized; JSON for json.
type Result struct {
	Format   string
	Text     string
	Document *document.Document
	JSON     any
}

// decodeResult returns nil for unknown formats and undecodable bodies.
func decodeResult(format string, body []byte) *Result {
	switch format {
	case models.OutputText, models.OutputCoNLL, models.OutputCoNLLU, models.OutputXML:
		return &Result{Format: format, Text: string(body)}

	case models.OutputSerialized:
		doc, err := document.ParseDelimited(bytes.NewReader(body))
		if err != nil {
			log.Errorf("failed to decode serialized document: %v", err)
			return nil
		}
		return &Result{Format: format, Document: doc}

	case models.OutputJSON:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			log.Errorf("failed to decode json response: %v", err)
			return nil
		}
		return &Result{Format: format, JSON: v}
	}

	log.Debugf("no decoder for output format %q", format)
	return nil
}

func decodeJSONObject(body []byte) map[string]any {
	var v map[string]any
	if err := json.Unmarshal(body, &v); err != nil {
		log.Errorf("failed to decode pattern response: %v", err)
		return nil
	}
	return v
}
