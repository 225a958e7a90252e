package models

import "time"

// Output formats understood by the CoreNLP server.
const (
	OutputText       = "text"
	OutputCoNLL      = "conll"
	OutputCoNLLU     = "conllu"
	OutputXML        = "xml"
	OutputSerialized = "serialized"
	OutputJSON       = "json"
)

// Input formats for the request body.
const (
	InputText       = "text"
	InputSerialized = "serialized"
)

const (
	ContentTypeText     = "text/plain; charset=utf-8"
	ContentTypeProtobuf = "application/x-protobuf"
)

// Well-known property keys.
const (
	KeyAnnotators       = "annotators"
	KeyOutputFormat     = "outputFormat"
	KeyInputFormat      = "inputFormat"
	KeySerializer       = "serializer"
	KeyPipelineLanguage = "pipelineLanguage"
)

const (
	DefaultEndpoint      = "http://localhost:9000"
	DefaultTimeout       = 60 * time.Second
	DefaultThreads       = 5
	DefaultAnnotators    = "tokenize,ssplit,pos,lemma,ner,depparse"
	DefaultInputFormat   = InputText
	DefaultOutputFormat  = OutputSerialized
	DefaultMemory        = "5G"
	DefaultMaxCharLength = 100000
	DefaultSerializer    = "edu.stanford.nlp.pipeline.ProtobufAnnotationSerializer"
	DefaultJavaBinary    = "java"
	ServerMainClass      = "edu.stanford.nlp.pipeline.StanfordCoreNLPServer"
)

// IsKnownOutputFormat reports whether f is one of the formats the client can decode.
func IsKnownOutputFormat(f string) bool {
	switch f {
	case OutputText, OutputCoNLL, OutputCoNLLU, OutputXML, OutputSerialized, OutputJSON:
		return true
	}
	return false
}
