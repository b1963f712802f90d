package rio

import (
	"strconv"
	"strings"
)

// MatchMIMEType returns the first format in formats that lists mimeType, comparing
// case-insensitively and ignoring parameters after ';'. When nothing matches the
// fallback is returned; a zero fallback means no fallback and ok is false.
func MatchMIMEType(mimeType string, formats []Format, fallback Format) (Format, bool) {
	mimeType = normalizeMIMEType(mimeType)
	if mimeType != "" {
		for _, f := range formats {
			for _, m := range f.mimeTypes {
				if strings.EqualFold(m, mimeType) {
					return f, true
				}
			}
		}
	}
	return fallback, !fallback.IsZero()
}

// MatchFileName returns the first format in formats whose extensions contain the
// part of fileName after its last '.', comparing case-insensitively. Fallback
// semantics are the same as MatchMIMEType.
func MatchFileName(fileName string, formats []Format, fallback Format) (Format, bool) {
	ext := fileExtension(fileName)
	if ext != "" {
		for _, f := range formats {
			for _, e := range f.fileExtensions {
				if strings.EqualFold(e, ext) {
					return f, true
				}
			}
		}
	}
	return fallback, !fallback.IsZero()
}

func normalizeMIMEType(mimeType string) string {
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.TrimSpace(mimeType)
}

// fileExtension returns the text after the last '.' of the final path
// element, or "" when that element has no dot.
func fileExtension(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	if idx := strings.LastIndexAny(fileName, `/\`); idx >= 0 {
		fileName = fileName[idx+1:]
	}
	if idx := strings.LastIndexByte(fileName, '.'); idx >= 0 {
		return fileName[idx+1:]
	}
	return ""
}

// AcceptParams ranks formats for an HTTP Accept header. Each format starts at 10;
// it loses 5 when contexts are required and unsupported, 2 when a preferred format
// is given and it is another format, and 1 when it lacks namespace support. One
// entry is produced per MIME type, in input order; entries below 10 carry a
// ";q=0.N" suffix.
func AcceptParams(formats []Format, requireContext bool, preferred Format) []string {
	var params []string
	for _, f := range formats {
		q := 10
		if requireContext && !f.supportsContexts {
			q -= 5
		}
		if !preferred.IsZero() && !preferred.Equal(f) {
			q -= 2
		}
		if !f.supportsNamespaces {
			q--
		}
		for _, m := range f.mimeTypes {
			if q < 10 {
				m += ";q=0." + strconv.Itoa(q)
			}
			params = append(params, m)
		}
	}
	return params
}

// AcceptHeader joins AcceptParams into a header value.
func AcceptHeader(formats []Format, requireContext bool, preferred Format) string {
	return strings.Join(AcceptParams(formats, requireContext, preferred), ", ")
}
