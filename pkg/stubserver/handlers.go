package stubserver

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/getzep/corenlp/pkg/document"
	"github.com/getzep/corenlp/pkg/models"
)

// PingHandler godoc
//
//	@Summary		Health probe
//	@Description	Answers 503 for the configured number of initial probes, then "pong".
//	@Success		200	{string}	string	"pong"
//	@Failure		503	{string}	string	"still loading"
//	@Router			/ping [get]
func (s *Server) PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := s.pings.Add(1)
		if n <= s.opts.FailFirstPings {
			http.Error(w, "still loading", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("pong\n"))
	}
}

// AnnotateHandler tokenizes the body and renders it in the requested
// outputFormat. The real server defaults to json when none is given.
func (s *Server) AnnotateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		props, err := PropertiesFromQuery(r)
		if err != nil {
			RenderError(w, fmt.Errorf("bad properties: %w", err), http.StatusBadRequest)
			return
		}
		text, err := readBody(r)
		if err != nil {
			RenderError(w, err, http.StatusBadRequest)
			return
		}

		doc := Tokenize(text)
		format := props[models.KeyOutputFormat]
		if format == "" {
			format = models.OutputJSON
		}

		switch format {
		case models.OutputSerialized:
			w.Header().Set("Content-Type", models.ContentTypeProtobuf)
			_, err = w.Write(doc.MarshalDelimited())
		case models.OutputJSON:
			err = EncodeJSON(w, renderJSON(doc))
		case models.OutputText:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, err = w.Write([]byte(renderText(doc)))
		case models.OutputCoNLL:
			_, err = w.Write([]byte(renderCoNLL(doc, false)))
		case models.OutputCoNLLU:
			_, err = w.Write([]byte(renderCoNLL(doc, true)))
		case models.OutputXML:
			w.Header().Set("Content-Type", "application/xml")
			err = renderXML(w, doc)
		default:
			RenderError(w, fmt.Errorf("unknown outputFormat %q", format), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Errorf("failed to write %s response: %v", format, err)
		}
	}
}

// TokensRegexHandler matches whitespace separated token patterns. Each
// element is either /regex/ matched against the whole word or a literal word.
func (s *Server) TokensRegexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		filter, err := BoolFromQuery(r, "filter")
		if err != nil {
			RenderError(w, fmt.Errorf("bad filter: %w", err), http.StatusBadRequest)
			return
		}
		matchers, err := compileTokenPattern(r.URL.Query().Get("pattern"))
		if err != nil {
			RenderError(w, err, http.StatusBadRequest)
			return
		}
		text, err := readBody(r)
		if err != nil {
			RenderError(w, err, http.StatusBadRequest)
			return
		}

		doc := Tokenize(text)
		runes := []rune(doc.Text)
		sentences := make([]map[string]any, 0, len(doc.Sentences))
		for _, sent := range doc.Sentences {
			matches := matchSentence(sent, matchers)
			if filter && len(matches) == 0 {
				continue
			}
			out := map[string]any{"length": len(matches)}
			for i, m := range matches {
				first, last := sent.Tokens[m[0]], sent.Tokens[m[1]-1]
				out[strconv.Itoa(i)] = map[string]any{
					"text":  string(runes[first.BeginChar:last.EndChar]),
					"begin": m[0],
					"end":   m[1],
				}
			}
			sentences = append(sentences, out)
		}

		if err := EncodeJSON(w, map[string]any{"sentences": sentences}); err != nil {
			log.Errorf("failed to write tokensregex response: %v", err)
		}
	}
}

// EmptyMatchHandler answers semgrex and tregex with no matches per
// sentence; the stub has no parser to match against.
func (s *Server) EmptyMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)

		text, err := readBody(r)
		if err != nil {
			RenderError(w, err, http.StatusBadRequest)
			return
		}
		doc := Tokenize(text)
		sentences := make([]map[string]any, len(doc.Sentences))
		for i := range sentences {
			sentences[i] = map[string]any{"length": 0}
		}
		if err := EncodeJSON(w, map[string]any{"sentences": sentences}); err != nil {
			log.Errorf("failed to write pattern response: %v", err)
		}
	}
}

type tokenMatcher func(word string) bool

func compileTokenPattern(pattern string) ([]tokenMatcher, error) {
	fields := strings.Fields(pattern)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}

	matchers := make([]tokenMatcher, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 && strings.HasPrefix(f, "/") && strings.HasSuffix(f, "/") {
			re, err := regexp.Compile("^(?:" + f[1:len(f)-1] + ")$")
			if err != nil {
				return nil, fmt.Errorf("bad token pattern %s: %w", f, err)
			}
			matchers = append(matchers, re.MatchString)
			continue
		}
		literal := f
		matchers = append(matchers, func(word string) bool { return word == literal })
	}
	return matchers, nil
}

// matchSentence returns non-overlapping [begin, end) token spans.
func matchSentence(sent *document.Sentence, matchers []tokenMatcher) [][2]int {
	var spans [][2]int
	k := len(matchers)
	for i := 0; i+k <= len(sent.Tokens); {
		ok := true
		for j, m := range matchers {
			if !m(sent.Tokens[i+j].Word) {
				ok = false
				break
			}
		}
		if ok {
			spans = append(spans, [2]int{i, i + k})
			i += k
			continue
		}
		i++
	}
	return spans
}
