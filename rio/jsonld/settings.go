package jsonld

import (
	"fmt"

	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Output document forms.
const (
	ModeExpand  = "expand"
	ModeCompact = "compact"
	ModeFlatten = "flatten"
)

var (
	// Mode selects the document form the writer produces.
	Mode = rio.NewValidatedSetting("org.openrdf.rio.jsonld.mode",
		"JSON-LD document form: expand, compact or flatten", ModeCompact, func(v string) error {
			switch v {
			case ModeExpand, ModeCompact, ModeFlatten:
				return nil
			}
			return fmt.Errorf("unknown JSON-LD mode %q", v)
		})

	// UseNativeTypes writes xsd:boolean, xsd:integer and xsd:double literals as JSON values.
	UseNativeTypes = rio.NewSetting("org.openrdf.rio.jsonld.usenativetypes",
		"Use native JSON types for numeric and boolean literals", false)

	// UseRDFType keeps rdf:type as a property instead of @type.
	UseRDFType = rio.NewSetting("org.openrdf.rio.jsonld.userdftype",
		"Write rdf:type as a regular property", false)

	// ProcessingMode selects the JSON-LD processing mode.
	ProcessingMode = rio.NewValidatedSetting("org.openrdf.rio.jsonld.processingmode",
		"JSON-LD processing mode", "json-ld-1.1", func(v string) error {
			switch v {
			case "json-ld-1.0", "json-ld-1.1":
				return nil
			}
			return fmt.Errorf("unknown JSON-LD processing mode %q", v)
		})
)
