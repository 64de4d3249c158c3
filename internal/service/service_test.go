package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aiground/linkdigest/internal/config"
)

func TestFirstLineAsTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first line wins", "첫 줄 제목\n나머지 본문", "첫 줄 제목"},
		{"surrounding whitespace trimmed", "  제목  \n본문", "제목"},
		{"empty content falls back to placeholder", "   ", "직접 입력"},
		{"long first line gets an ellipsis", strings.Repeat("가", 300), strings.Repeat("가", 255) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstLineAsTitle(tt.content))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "가나다", truncateRunes("가나다라마", 3))
	assert.Equal(t, "", truncateRunes("", 3))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"개발", "Docker"}, normalizeTags([]string{" 개발 ", "", "Docker", "  "}))
	assert.Equal(t, []string{}, normalizeTags(nil))
}

func TestResolveModel(t *testing.T) {
	s := &Service{cfg: &config.Config{
		OllamaModel:   "gpt-oss:120b-cloud",
		SummaryModels: "gpt-oss:120b-cloud, llama3:8b",
	}}

	assert.Equal(t, "llama3:8b", s.resolveModel("llama3:8b"))
	assert.Equal(t, "llama3:8b", s.resolveModel(" llama3:8b "))
	assert.Equal(t, "gpt-oss:120b-cloud", s.resolveModel("gpt-oss:120b-cloud"))

	// Anything outside the allow-list falls back to the default.
	assert.Equal(t, "gpt-oss:120b-cloud", s.resolveModel("mystery:1b"))
	assert.Equal(t, "gpt-oss:120b-cloud", s.resolveModel(""))
}
