// Package composer turns client defaults, cached property layers and per-call
// overrides into the exact request sent to a CoreNLP server.
package composer

import (
	"strings"

	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
)

var log = internal.GetLogger()

type Options struct {
	// Annotators and OutputFormat are the client-wide defaults. Either may be empty.
	Annotators   []string
	OutputFormat string
	// Launch describes how the server was started, if the client started it.
	Launch *ServerProperties
	Cache  *properties.Cache
}

// AnnotateParams are the per-call inputs to an annotate request.
type AnnotateParams struct {
	Annotators    []string
	OutputFormat  string
	PropertiesKey string
	Properties    properties.Layer
}

type Composer struct {
	defaults properties.Layer
	launch   *ServerProperties
	cache    *properties.Cache
}

func New(opts Options) *Composer {
	defaults := properties.New()
	if len(opts.Annotators) > 0 {
		defaults.Set(models.KeyAnnotators, JoinAnnotators(opts.Annotators))
	}
	if opts.OutputFormat != "" {
		defaults.Set(models.KeyOutputFormat, opts.OutputFormat)
	}

	cache := opts.Cache
	if cache == nil {
		cache = properties.NewCache()
	}

	return &Composer{defaults: defaults, launch: opts.Launch, cache: cache}
}

func (c *Composer) Cache() *properties.Cache {
	return c.cache
}

// Compose layers, lowest precedence first: client defaults, the cache label,
// the call's extra properties, and the call's annotators and output format.
// Nothing here touches the network, so a missing label fails before any
// request is made.
func (c *Composer) Compose(p AnnotateParams) (properties.Layer, error) {
	props := c.defaults.Clone()

	if p.PropertiesKey != "" {
		layer, err := c.resolveKey(p.PropertiesKey)
		if err != nil {
			return nil, err
		}
		props = layer
	}

	props = properties.Merge(props, p.Properties)

	if len(p.Annotators) > 0 {
		props.Set(models.KeyAnnotators, JoinAnnotators(p.Annotators))
	}
	if p.OutputFormat != "" {
		props.Set(models.KeyOutputFormat, p.OutputFormat)
	}

	if !props.Has(models.KeyOutputFormat) {
		props.Set(models.KeyOutputFormat, c.fallbackOutputFormat())
	}

	return props, nil
}

func (c *Composer) resolveKey(key string) (properties.Layer, error) {
	if lang, ok := properties.ParseLanguage(key); ok {
		if lang == properties.English {
			return properties.EnglishDefaults(), nil
		}
		return c.defaults.Clone().Set(models.KeyPipelineLanguage, string(lang)), nil
	}

	layer, ok := c.cache.Lookup(key)
	if !ok {
		return nil, models.NewLookupError(key)
	}
	return layer, nil
}

// fallbackOutputFormat is the launch-time output format if the client knows
// it, otherwise serialized.
func (c *Composer) fallbackOutputFormat() string {
	if c.launch != nil {
		if f := c.launch.OutputFormat(); f != "" {
			return f
		}
	}
	return models.DefaultOutputFormat
}

// Register stores layer under label unless the label names a supported
// language. It reports whether the layer was stored.
func (c *Composer) Register(label string, layer properties.Layer) bool {
	if !c.cache.Register(label, layer) {
		log.Warnf(
			"properties key %q not registered: language names and codes are reserved for the "+
				"server's own defaults, use a key such as %q instead",
			label, strings.ToLower(label)+"-custom",
		)
		return false
	}
	return true
}

// JoinAnnotators accepts either a list of annotator names or a single
// comma-separated string in the first element.
func JoinAnnotators(annotators []string) string {
	var parts []string
	for _, a := range annotators {
		parts = append(parts, internal.SplitNonEmpty(a, ",")...)
	}
	return strings.Join(parts, ",")
}
