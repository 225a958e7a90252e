package composer

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
)

// PatternKind selects one of the server's pattern matching endpoints.
type PatternKind string

const (
	TokensRegex PatternKind = "tokensregex"
	Semgrex     PatternKind = "semgrex"
	TRegex      PatternKind = "tregex"
)

func (k PatternKind) Path() string {
	return "/" + string(k)
}

// RequestSpec is one outbound call, ready to send.
type RequestSpec struct {
	Path         string
	Body         []byte
	Properties   properties.Layer
	Query        url.Values
	ContentType  string
	OutputFormat string
}

// URL joins the request onto a server base URL.
func (r *RequestSpec) URL(base string) string {
	u := base + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Annotate composes the request for POST /.
func (c *Composer) Annotate(text string, p AnnotateParams) (*RequestSpec, error) {
	props, err := c.Compose(p)
	if err != nil {
		return nil, err
	}

	encoded, err := props.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request properties: %w", err)
	}

	return &RequestSpec{
		Path:         "/",
		Body:         []byte(text),
		Properties:   props,
		Query:        url.Values{"properties": {encoded}},
		ContentType:  ContentType(props),
		OutputFormat: props.GetString(models.KeyOutputFormat),
	}, nil
}

// Pattern composes a tokensregex, semgrex or tregex request. The output
// format is always json whatever the client defaults say.
func (c *Composer) Pattern(kind PatternKind, text, pattern string, filter bool) *RequestSpec {
	props := properties.New().
		Set(models.KeyInputFormat, models.InputText).
		Set(models.KeySerializer, models.DefaultSerializer).
		Set(models.KeyOutputFormat, models.OutputJSON)

	query := url.Values{}
	query.Set("properties", `{"outputFormat":"json"}`)
	query.Set("pattern", pattern)
	query.Set("filter", strconv.FormatBool(filter))

	return &RequestSpec{
		Path:         kind.Path(),
		Body:         []byte(text),
		Properties:   props,
		Query:        query,
		ContentType:  ContentType(props),
		OutputFormat: models.OutputJSON,
	}
}

// ContentType follows inputFormat, not outputFormat. Unknown input formats
// get no content type.
func ContentType(props properties.Layer) string {
	inputFormat := models.DefaultInputFormat
	if props.Has(models.KeyInputFormat) {
		inputFormat = props.GetString(models.KeyInputFormat)
	}
	switch inputFormat {
	case models.InputText:
		return models.ContentTypeText
	case models.InputSerialized:
		return models.ContentTypeProtobuf
	}
	return ""
}
