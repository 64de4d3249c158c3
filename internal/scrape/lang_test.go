package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"쿠버네티스 네트워킹 정리", LangKorean},
		{"Kubernetes Networking Guide", LangEnglish},
		{"Docker 컨테이너 기초", LangKorean},
		{"Kubernetes Pod 네트워킹 deep dive into CNI plugins", LangEnglish},
		{"ㅋㅋㅋ great", LangKorean},
		{"", LangEnglish},
		{"12345 !?", LangEnglish},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLanguage(tt.text), tt.text)
	}
}
