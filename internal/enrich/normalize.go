package enrich

import (
	"regexp"
	"strings"
)

// Extracted content sometimes carries doubled markdown heading markers at the
// start of a line ("## ## Result"), an artifact of heading text re-entering
// the block walk. Collapse the run to a single marker at the deepest level
// before the content reaches the model.
var (
	headingRunPattern = regexp.MustCompile(`^((?:#{1,6}[ \t]+){2,})(.*)$`)
	headingMarker     = regexp.MustCompile(`#{1,6}`)
)

func NormalizeHeadings(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		m := headingRunPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		deepest := ""
		for _, marker := range headingMarker.FindAllString(m[1], -1) {
			if len(marker) > len(deepest) {
				deepest = marker
			}
		}
		lines[i] = deepest + " " + m[2]
	}
	return strings.Join(lines, "\n")
}
