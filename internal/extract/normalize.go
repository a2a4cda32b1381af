package extract

import (
	"regexp"
	"strings"
)

var (
	separatorRunRe = regexp.MustCompile(`[_\-=]{3,}`)
	pageMarkerRe   = regexp.MustCompile(`(?i)Page \d+ of \d+`)
	spaceRunRe     = regexp.MustCompile(`[ \t]{2,}`)
	newlineRunRe   = regexp.MustCompile(`\n{2,}`)
)

// Normalize collapses repeated whitespace, drops control characters and
// removes the separator runs and page markers that PDF and spreadsheet
// exports leave behind.
func Normalize(text string) string {
	text = stripControl(text)
	text = separatorRunRe.ReplaceAllString(text, " ")
	text = pageMarkerRe.ReplaceAllString(text, "")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}
