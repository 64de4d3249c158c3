package ollama

import (
	"fmt"
	"strings"
)

// The summary reply is a semi-structured micro-format: free markdown plus two
// 📌 metadata lines the field parser extracts category and keywords from.
const summarySystemPrompt = `당신은 입력한 웹 컨텐츠를 핵심만 추출하여 가독성 높은 마크다운 형식으로 정리하는 전문 편집자입니다.
정리 규칙:
- 핵심 내용을 소제목과 불릿으로 구조화하여 요약합니다.
- 마지막에 아래 두 줄을 반드시 추가합니다.
📌️ 분류: (블로그/뉴스/문서/튜토리얼 중 하나)
📌 키워드: (핵심 키워드를 쉼표로 구분하여 5개 이내)`

const translateSystemPrompt = "You are a professional translator. Translate the given English text into Korean. " +
	"Provide only the translated text without any additional explanations or notes."

func summaryUserPrompt(text string) string {
	return fmt.Sprintf("다음 컨텐츠를 위 규칙에 맞게 정리하세요:\n\n%s\n\n", text)
}

func translateUserPrompt(text string) string {
	return "Translate the following English text to Korean:\n\n" + strings.TrimSpace(text)
}
