// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refextract

import "strings"

// commentPrefixes lists the line openers that classify a line as a
// comment. Covers C-like, Python/shell, SQL/Lua/Haskell, Lisp,
// LaTeX/MATLAB, and HTML/XML comment families.
var commentPrefixes = []string{
	"//", "/*", "*/", "*",
	"#",
	"--",
	";",
	"%",
	"<!--",
	`"""`, "'''",
}

// IsCommentLine reports whether the line, after leading whitespace,
// starts with a recognized comment marker.
func IsCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// StripMarkers removes leading and trailing comment markers from a line
// so the remaining text can be used as human-readable context.
func StripMarkers(line string) string {
	s := strings.TrimSpace(line)

	for {
		stripped := false
		for _, p := range []string{"<!--", `"""`, "'''", "/*", "//", "*/", "--", "#", ";", "%", "*"} {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}

	for _, suf := range []string{"*/", "-->", `"""`, "'''"} {
		if strings.HasSuffix(s, suf) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suf))
		}
	}
	return s
}
