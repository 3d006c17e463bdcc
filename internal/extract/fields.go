package extract

import (
	"regexp"
	"strings"
)

// Pattern compiles expr case-insensitively with '.' matching newlines, the
// flags every field locator runs with.
func Pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + expr)
}

// Locate returns the trimmed first capture group of re's first match in
// text, or def when re does not match. Callers that must tell apart two
// occurrences of the same label pass a pre-isolated block as text.
func Locate(re *regexp.Regexp, text, def string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return def
	}
	return strings.TrimSpace(m[1])
}

// Block returns the raw (untrimmed) first capture group of re in text, or ""
// when re does not match. It is used to isolate a scope for Locate.
func Block(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// LocateNotAfter is Locate for labels that must not be preceded by prefix
// (compared case-insensitively), such as "Supply:" but not "Place of Supply:".
func LocateNotAfter(re *regexp.Regexp, prefix, text, def string) string {
	lower := strings.ToLower(prefix)
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(idx) < 4 || idx[2] < 0 {
			continue
		}
		if strings.HasSuffix(strings.ToLower(text[:idx[0]]), lower) {
			continue
		}
		return strings.TrimSpace(text[idx[2]:idx[3]])
	}
	return def
}

var (
	lineBreakRe  = regexp.MustCompile(`\s*\n\s*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// joinLines replaces each line break (with its surrounding blanks) by a
// single space.
func joinLines(s string) string {
	return strings.TrimSpace(lineBreakRe.ReplaceAllString(s, " "))
}

// collapseSpace replaces every run of whitespace by a single space.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
