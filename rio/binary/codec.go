// Package binary implements BinaryRDF as a CBOR sequence.
//
// A document is a header ["BRDF", 1] followed by records whose first element
// is the record kind:
//
//	[1, prefix, name]     namespace
//	[2, s, p, o, c]       statement (c is null without a context)
//	[3, text]             comment
//	[0]                   end of document
//
// Terms are encoded as [kind, value, lang, datatype] using rdf.TermKind values.
package binary

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

const (
	magic   = "BRDF"
	version = 1
)

const (
	recordEnd uint64 = iota
	recordNamespace
	recordStatement
	recordComment
)

type header struct {
	_       struct{} `cbor:",toarray"`
	Magic   string
	Version uint64
}

type term struct {
	_        struct{} `cbor:",toarray"`
	Kind     uint8
	Value    string
	Lang     string
	Datatype string
}

// encMode uses Core Deterministic Encoding so equal documents encode to
// identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("binary: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("binary: CBOR decoder initialization failed: " + err.Error())
	}
}

func newEncoder(w io.Writer) *cbor.Encoder { return encMode.NewEncoder(w) }

func newDecoder(r io.Reader) *cbor.Decoder { return decMode.NewDecoder(r) }
