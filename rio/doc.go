// Package rio defines the format registry and the streaming parse/write contracts
// for RDF serializations.
//
// A Format describes a serialization by name, MIME types and file extensions.
// MatchMIMEType and MatchFileName resolve a format from a candidate with an
// optional fallback, and AcceptParams ranks formats for HTTP content negotiation.
// A Registry maps formats to parser or writer factories without knowing any
// concrete format; the pipeline package wires the built-in ones.
//
// Parsers report their input to a Handler as StartRDF, namespace, statement and
// comment events followed by EndRDF. Writers are Handlers that serialize those
// events. ParserBase and WriterBase carry the behavior shared by implementations:
// settings, blank node mapping, language tag checks and event ordering.
//
// Settings are typed keys with defaults. Values live in a Config:
//
//	cfg := rio.NewParserConfig()
//	rio.Set(cfg, rio.BasicParserSettings.PreserveBNodeIDs, true)
//	cfg.AddNonFatal(rio.BasicParserSettings.VerifyLanguageTags)
//
// Boolean settings marked as error conditions decide what happens when a parser
// finds the matching problem: disabled conditions are warnings, enabled
// conditions in the non-fatal set are recoverable errors, and all others stop
// the parse.
//
// Every failure is a *Error carrying an ErrorCode; use errors.Is with the
// sentinels or Code to branch on it.
package rio
