package properties

import (
	"fmt"
	"strings"
)

// Language is a language with server-side CoreNLP defaults.
type Language string

const (
	Arabic  Language = "arabic"
	Chinese Language = "chinese"
	English Language = "english"
	French  Language = "french"
	German  Language = "german"
	Spanish Language = "spanish"
)

// Languages lists every supported language.
var Languages = []Language{Arabic, Chinese, English, French, German, Spanish}

var shortCodes = map[string]Language{
	"ar": Arabic,
	"zh": Chinese,
	"en": English,
	"fr": French,
	"de": German,
	"es": Spanish,
}

var defaultAnnotators = map[Language]string{
	Arabic:  "tokenize,ssplit,pos,parse",
	Chinese: "tokenize,ssplit,pos,lemma,ner,parse,coref",
	English: "tokenize,ssplit,pos,lemma,ner,depparse",
	French:  "tokenize,ssplit,pos,depparse",
	German:  "tokenize,ssplit,pos,ner,parse",
	Spanish: "tokenize,ssplit,pos,lemma,ner,depparse,kbp",
}

// ParseLanguage resolves a full language name or its two-letter code,
// ignoring case.
func ParseLanguage(s string) (Language, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if l, ok := shortCodes[norm]; ok {
		return l, true
	}
	if _, ok := defaultAnnotators[Language(norm)]; ok {
		return Language(norm), true
	}
	return "", false
}

// IsLanguage reports whether s is a reserved language name or code.
func IsLanguage(s string) bool {
	_, ok := ParseLanguage(s)
	return ok
}

// ShortCode returns the two-letter code, e.g. "fr".
func (l Language) ShortCode() string {
	for code, lang := range shortCodes {
		if lang == l {
			return code
		}
	}
	return ""
}

// DefaultAnnotators is the annotator list the server loads for the language.
func (l Language) DefaultAnnotators() string {
	return defaultAnnotators[l]
}

// PropertiesFile is the name of the language's property file shipped in the
// CoreNLP models jars.
func (l Language) PropertiesFile() string {
	if l == English {
		return "StanfordCoreNLP.properties"
	}
	return fmt.Sprintf("StanfordCoreNLP-%s.properties", l)
}

func (l Language) String() string {
	return string(l)
}

// EnglishDefaults returns the fully expanded English pipeline defaults.
func EnglishDefaults() Layer {
	return FromStrings(map[string]string{
		"annotators":        "tokenize,ssplit,pos,lemma,ner,depparse",
		"tokenize.language": "en",
		"pos.model":         "edu/stanford/nlp/models/pos-tagger/english-left3words-distsim.tagger",
		"ner.model": "edu/stanford/nlp/models/ner/english.all.3class.distsim.crf.ser.gz," +
			"edu/stanford/nlp/models/ner/english.muc.7class.distsim.crf.ser.gz," +
			"edu/stanford/nlp/models/ner/english.conll.4class.distsim.crf.ser.gz",
		"sutime.language": "english",
		"sutime.rules": "edu/stanford/nlp/models/sutime/defs.sutime.txt," +
			"edu/stanford/nlp/models/sutime/english.sutime.txt," +
			"edu/stanford/nlp/models/sutime/english.holidays.sutime.txt",
		"ner.applyNumericClassifiers": "true",
		"ner.useSUTime":               "true",
		"ner.fine.regexner.mapping": "ignorecase=true,validpospattern=^(NN|JJ).*," +
			"edu/stanford/nlp/models/kbp/english/gazetteers/regexner_caseless.tab;" +
			"edu/stanford/nlp/models/kbp/english/gazetteers/regexner_cased.tab",
		"ner.fine.regexner.noDefaultOverwriteLabels": "CITY",
		"ner.language":   "en",
		"depparse.model": "edu/stanford/nlp/models/parser/nndep/english_UD.gz",
	})
}
