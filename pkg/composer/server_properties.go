package composer

import (
	"errors"
	"fmt"
	"os"

	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
)

// ServerProperties records how a launched server gets its default properties.
type ServerProperties struct {
	Source properties.Source
	// Path is handed to the server as -serverProperties. It may name a
	// resource on the server's class path rather than a local file.
	Path string
	// IsTemp is set when the client generated Path and must delete it.
	IsTemp bool
	// Properties holds the launch properties when the client knows them.
	Properties        properties.Layer
	PreloadAnnotators string
}

// OutputFormat is the server's default output format, if known.
func (sp *ServerProperties) OutputFormat() string {
	return sp.Properties.GetString(models.KeyOutputFormat)
}

// Cleanup removes the generated properties file. Caller-supplied files are
// never touched.
func (sp *ServerProperties) Cleanup() error {
	if sp == nil || !sp.IsTemp || sp.Path == "" {
		return nil
	}
	if err := os.Remove(sp.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", sp.Path, err)
	}
	return nil
}

// ResolveServerProperties decides which properties file a launched server
// reads. Default and inline sources are written to a temporary file in
// tempDir with annotators and outputFormat applied on top; language and file
// sources are passed through and the overrides are ignored.
func ResolveServerProperties(
	src properties.Source,
	annotators []string,
	outputFormat string,
	tempDir string,
) (*ServerProperties, error) {
	if src == nil {
		src = properties.Default()
	}

	switch s := src.(type) {
	case properties.LanguageSource:
		log.Infof(
			"using CoreNLP default properties for %s; the %s models jar must be on the class path",
			s.Language, s.Language,
		)
		return &ServerProperties{
			Source:            s,
			Path:              s.Language.PropertiesFile(),
			PreloadAnnotators: s.Language.DefaultAnnotators(),
		}, nil

	case properties.FileSource:
		sp := &ServerProperties{Source: s, Path: s.Path}
		if internal.FileExists(s.Path) {
			props, err := properties.ReadFile(s.Path)
			if err != nil {
				return nil, err
			}
			sp.Properties = props
			sp.PreloadAnnotators = props.GetString(models.KeyAnnotators)
		} else {
			log.Warnf("%s does not correspond to a file path, assuming the server can find it", s.Path)
		}
		log.Infof("setting server defaults from %s", s.Path)
		if len(annotators) > 0 {
			log.Warnf("server defaults come from %s, ignoring annotators=%v", s.Path, annotators)
		}
		if outputFormat != "" && outputFormat != models.DefaultOutputFormat {
			log.Warnf("server defaults come from %s, ignoring outputFormat=%s", s.Path, outputFormat)
		}
		return sp, nil

	case properties.InlineSource:
		return writeClientSide(s, s.Properties, annotators, outputFormat, tempDir)

	case properties.DefaultSource:
		return writeClientSide(s, nil, annotators, outputFormat, tempDir)
	}

	return nil, models.NewConfigError("unsupported properties source %v", src)
}

func writeClientSide(
	src properties.Source,
	inline properties.Layer,
	annotators []string,
	outputFormat string,
	tempDir string,
) (*ServerProperties, error) {
	props := properties.FromStrings(map[string]string{
		models.KeyAnnotators:   models.DefaultAnnotators,
		models.KeyOutputFormat: models.DefaultOutputFormat,
		models.KeySerializer:   models.DefaultSerializer,
	})
	props = properties.Merge(props, inline)
	if len(annotators) > 0 {
		props.Set(models.KeyAnnotators, JoinAnnotators(annotators))
	}
	if outputFormat != "" {
		props.Set(models.KeyOutputFormat, outputFormat)
	}

	path, err := properties.WriteTempFile(tempDir, props)
	if err != nil {
		return nil, err
	}

	return &ServerProperties{
		Source:            src,
		Path:              path,
		IsTemp:            true,
		Properties:        props,
		PreloadAnnotators: props.GetString(models.KeyAnnotators),
	}, nil
}
