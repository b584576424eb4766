package slug

import (
	"regexp"
	"strings"
)

// space matches ASCII whitespace plus Unicode separators (NBSP, thin and
// ideographic spaces, line/paragraph separators) and the BOM.
const space = `\s\p{Z}\x{feff}`

var (
	nonWord    = regexp.MustCompile(`[^\w` + space + `-]`)
	whitespace = regexp.MustCompile(`[` + space + `]+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// Make lowercases and trims text, drops everything but ASCII word characters,
// whitespace (including Unicode spaces) and hyphens, then turns whitespace runs
// and repeated hyphens into a single hyphen. Leading and trailing hyphens are removed so Make(Make(s)) == Make(s).
func Make(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
