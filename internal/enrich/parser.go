package enrich

import (
	"regexp"
	"strings"
)

// The model's reply carries two metadata lines in a loose micro-format:
//
//	📌️ 분류: 블로그
//	📌 키워드: Docker, Kubernetes
//
// Observed variants wrap the label in ** bold **, drop the colon, or omit the
// emoji variation selector. Each field has an ordered pattern chain; the
// first match wins and a miss yields an empty string, never an error.
var categoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*\*\*분류\*\*:\s*([^\n]+?)(?:\s*\n|\s+📌|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*분류:\s*([^\n]+?)(?:\s*\n|\s+📌|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*\*\*분류\*\*\s+([^\n]+?)(?:\s*\n|\s+📌|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*분류\s+([^\n]+?)(?:\s*\n|\s+📌|$)`),
}

var keywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*\*\*키워드\*\*:\s*([^\n]+?)(?:\s*\n|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*키워드:\s*([^\n]+?)(?:\s*\n|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*\*\*키워드\*\*\s+([^\n]+?)(?:\s*\n|$)`),
	regexp.MustCompile(`(?m)📌\x{FE0F}?\s*키워드\s+([^\n]+?)(?:\s*\n|$)`),
}

// ParseSummaryFields extracts the category label and the raw comma-separated
// keyword string from a summary reply.
func ParseSummaryFields(text string) (category, keywords string) {
	return firstMatch(categoryPatterns, text), firstMatch(keywordPatterns, text)
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(strings.ReplaceAll(m[1], "*", ""))
		}
	}
	return ""
}

// keywordStripSet is every character inconsistent model formatting smuggles
// into keyword tokens: bold markers, backticks, stray colons and spaces.
const keywordStripSet = "*`: "

// SplitKeywords turns the raw keyword string into clean tags: split on
// commas, drop every strip-set character from each token, discard empties.
// The result is never nil; no keywords means an empty list.
func SplitKeywords(keywords string) []string {
	tags := make([]string, 0)
	for _, token := range strings.Split(keywords, ",") {
		cleaned := strings.Map(func(r rune) rune {
			if strings.ContainsRune(keywordStripSet, r) {
				return -1
			}
			return r
		}, token)
		if cleaned != "" {
			tags = append(tags, cleaned)
		}
	}
	return tags
}
