package scrape

const (
	LangKorean  = "ko"
	LangEnglish = "en"
)

// DetectLanguage classifies text as Korean or English by the share of Hangul
// among Hangul+Latin letters. Hangul above 30% means Korean; everything else,
// including empty input, is English.
func DetectLanguage(text string) string {
	korean, total := 0, 0
	for _, r := range text {
		switch {
		case isHangul(r):
			korean++
			total++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			total++
		}
	}
	if total > 0 && float64(korean)/float64(total) > 0.3 {
		return LangKorean
	}
	return LangEnglish
}

// Hangul syllables (가-힣) and compatibility jamo (ㄱ-ㅎ, ㅏ-ㅣ).
func isHangul(r rune) bool {
	return (r >= 0xAC00 && r <= 0xD7A3) || (r >= 0x3131 && r <= 0x3163)
}
