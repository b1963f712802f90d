package yars

import "github.com/lszeremeta/sesame-rio-api/rio"

var (
	// CaseInsensitiveDirectives lets the parser accept @BASE and other case
	// variants of directive keywords.
	CaseInsensitiveDirectives = rio.NewSetting("org.openrdf.rio.yars.caseinsensitivedirectives",
		"Allows case-insensitive directives to be recognised", false)

	// FailOnUnknownDirectives is the error condition for directives other than
	// @base and @prefix. When tolerated the rest of the directive line is skipped.
	FailOnUnknownDirectives = rio.NewSetting("org.openrdf.rio.yars.failonunknowndirectives",
		"Stop parsing at an unknown directive", true)
)
