package rio

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// BasicParserSettings are understood by every parser built on ParserBase.
var BasicParserSettings = struct {
	PreserveBNodeIDs      *Setting[bool]
	VerifyLanguageTags    *Setting[bool]
	NormalizeLanguageTags *Setting[bool]
	VerifyIRISyntax       *Setting[bool]
	InputCharset          *Setting[string]
}{
	PreserveBNodeIDs: NewSetting("org.openrdf.rio.preservebnodeids",
		"Keep blank node identifiers from the input instead of generating fresh ones", false),
	VerifyLanguageTags: NewSetting("org.openrdf.rio.verifylanguagetags",
		"Report malformed language tags", true),
	NormalizeLanguageTags: NewSetting("org.openrdf.rio.normalizelanguagetags",
		"Lower-case language tags", false),
	VerifyIRISyntax: NewSetting("org.openrdf.rio.verifyurisyntax",
		"Report syntactically invalid IRIs", false),
	InputCharset: NewValidatedSetting("org.openrdf.rio.inputcharset",
		"Character encoding of the input; empty uses the format's charset", "", validateCharset),
}

// BasicWriterSettings are understood by every writer.
var BasicWriterSettings = struct {
	PrettyPrint *Setting[bool]
}{
	PrettyPrint: NewSetting("org.openrdf.rio.prettyprint",
		"Produce human-friendly output where the format allows it", true),
}

// ParserBaseSettings lists BasicParserSettings for SupportedSettings implementations.
func ParserBaseSettings() []AnySetting {
	return []AnySetting{
		BasicParserSettings.PreserveBNodeIDs,
		BasicParserSettings.VerifyLanguageTags,
		BasicParserSettings.NormalizeLanguageTags,
		BasicParserSettings.VerifyIRISyntax,
		BasicParserSettings.InputCharset,
	}
}

// WriterBaseSettings lists BasicWriterSettings for SupportedSettings implementations.
func WriterBaseSettings() []AnySetting {
	return []AnySetting{BasicWriterSettings.PrettyPrint}
}

func validateCharset(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || IsUTF8Compatible(name) {
		return nil
	}
	if _, err := htmlindex.Get(name); err != nil {
		return errors.New("unknown charset " + name)
	}
	return nil
}

// IsUTF8Compatible reports whether input in charset can be consumed as UTF-8 unchanged.
func IsUTF8Compatible(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}
