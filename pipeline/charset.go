package pipeline

import (
	"io"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/lszeremeta/sesame-rio-api/rio"
)

// decodeInput converts r to UTF-8 for character-based formats. The
// InputCharset setting overrides the format's own charset. Formats without a
// charset are binary and read as is.
func decodeInput(r io.Reader, format rio.Format, cfg *rio.ParserConfig) (io.Reader, error) {
	if !format.HasCharset() {
		return r, nil
	}
	name := rio.Get(cfg, rio.BasicParserSettings.InputCharset)
	if name == "" {
		name = format.Charset()
	}
	if rio.IsUTF8Compatible(name) {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		rerr := rio.ConfigurationError(rio.BasicParserSettings.InputCharset.Key(), err)
		rerr.Format = format.Name()
		return nil, rerr
	}
	return enc.NewDecoder().Reader(r), nil
}
