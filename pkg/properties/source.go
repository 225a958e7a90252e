package properties

import "strings"

// Source says where the server's startup properties come from. It is one of
// FileSource, LanguageSource, InlineSource or DefaultSource.
type Source interface {
	isSource()
	String() string
}

// FileSource points at a property file on disk or on the server's class path.
type FileSource struct {
	Path string
}

// LanguageSource selects the server's shipped defaults for a language.
type LanguageSource struct {
	Language Language
}

// InlineSource carries properties that are written to a temporary file.
type InlineSource struct {
	Properties Layer
}

// DefaultSource uses the client's standard defaults.
type DefaultSource struct{}

func (FileSource) isSource()     {}
func (LanguageSource) isSource() {}
func (InlineSource) isSource()   {}
func (DefaultSource) isSource()  {}

func (s FileSource) String() string     { return "file:" + s.Path }
func (s LanguageSource) String() string { return "language:" + string(s.Language) }
func (InlineSource) String() string     { return "inline" }
func (DefaultSource) String() string    { return "default" }

func FromFile(path string) Source {
	return FileSource{Path: path}
}

func FromLanguage(l Language) Source {
	return LanguageSource{Language: l}
}

func Inline(l Layer) Source {
	return InlineSource{Properties: l.Clone()}
}

func Default() Source {
	return DefaultSource{}
}

// ParseSource interprets a configuration string: empty means the defaults,
// a language name or code selects that language, anything else is a path.
func ParseSource(s string) Source {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default()
	}
	if l, ok := ParseLanguage(s); ok {
		return FromLanguage(l)
	}
	return FromFile(s)
}
