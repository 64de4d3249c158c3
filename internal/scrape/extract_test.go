package scrape

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func parseHTML(t *testing.T, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	require.Nil(t, err)
	return doc
}

func baseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.Nil(t, err)
	return u
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "og:title wins over everything",
			raw: `<html><head>
				<meta property="og:title" content="OG Title">
				<title>Doc Title | Site</title>
			</head><body><h1>Heading Title</h1></body></html>`,
			want: "OG Title",
		},
		{
			name: "h1 inside article beats first h1",
			raw: `<html><body>
				<h1>Site Banner</h1>
				<article><h1>Article Heading</h1></article>
			</body></html>`,
			want: "Article Heading",
		},
		{
			name: "first h1 when no article",
			raw:  `<html><body><div><h1> Spaced   Heading </h1></div></body></html>`,
			want: "Spaced Heading",
		},
		{
			name: "title tag cut at pipe",
			raw:  `<html><head><title>Real Title | My Blog</title></head><body></body></html>`,
			want: "Real Title",
		},
		{
			name: "title tag cut at hyphen",
			raw:  `<html><head><title>Real Title - My Blog</title></head><body></body></html>`,
			want: "Real Title",
		},
		{
			name: "nothing found",
			raw:  `<html><body><p>no headings here</p></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTitle(parseHTML(t, tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractContentKeepsLongBlocksOnce(t *testing.T) {
	raw := `<html><body><article>
		<p>This paragraph is comfortably long enough to keep in the output.</p>
		<p>This paragraph is comfortably long enough to keep in the output.</p>
		<p>Short one</p>
	</article></body></html>`

	content, refs := extractContent(parseHTML(t, raw), baseURL(t, "https://example.com/post"))

	assert.Equal(t, "This paragraph is comfortably long enough to keep in the output.", content)
	assert.Empty(t, refs)
}

func TestExtractContentStripsNoise(t *testing.T) {
	raw := `<html><body>
		<nav>Navigation menu with plenty of characters in it to pass any length check</nav>
		<script>var x = "definitely long enough to pass the length check if kept";</script>
		<div>This visible paragraph is long enough to survive block extraction.</div>
		<footer>Footer boilerplate that is also long enough to pass the length check</footer>
	</body></html>`

	content, _ := extractContent(parseHTML(t, raw), baseURL(t, "https://example.com"))

	assert.Contains(t, content, "This visible paragraph is long enough")
	assert.NotContains(t, content, "Navigation menu")
	assert.NotContains(t, content, "Footer boilerplate")
	assert.NotContains(t, content, "definitely long enough")
}

func TestExtractContentReferences(t *testing.T) {
	raw := `<html><body><article>
		<p>Check out <a href="/docs/guide">the full guide</a> for all the details on this.</p>
		<p>Mentioned again: <a href="https://example.com/docs/guide">the full guide</a> with more words.</p>
		<p>A tiny <a href="/x">ref</a> link inside otherwise reasonable paragraph text.</p>
	</article></body></html>`

	content, refs := extractContent(parseHTML(t, raw), baseURL(t, "https://example.com/post"))

	// Relative hrefs are absolutized, duplicates collapse, short link text is
	// skipped.
	require.Len(t, refs, 1)
	assert.Equal(t, Reference{Text: "the full guide", URL: "https://example.com/docs/guide"}, refs[0])

	assert.Contains(t, content, "### 참조 링크")
	assert.Contains(t, content, "- [the full guide](https://example.com/docs/guide)")
	assert.NotContains(t, content, "/x")
}

func TestExtractContentImages(t *testing.T) {
	raw := `<html><body><article>
		<p>An illustrated paragraph that is long enough to keep.
			<img src="/img/diagram.png" alt="">
			<img src="data:image/png;base64,xyz" alt="inline">
		</p>
	</article></body></html>`

	content, _ := extractContent(parseHTML(t, raw), baseURL(t, "https://example.com/post"))

	assert.Contains(t, content, "![이미지](https://example.com/img/diagram.png)")
	assert.NotContains(t, content, "data:image")
}

func TestExtractContentPrefersContentRoot(t *testing.T) {
	raw := `<html><body>
		<div class="sidebar">Sidebar text that is long enough to be kept as a block.</div>
		<div class="post-content">
			<p>Only text under the selected content root should make the output.</p>
		</div>
	</body></html>`

	content, _ := extractContent(parseHTML(t, raw), baseURL(t, "https://example.com"))

	assert.Equal(t, "Only text under the selected content root should make the output.", content)
}

func TestExtractSourceName(t *testing.T) {
	t.Run("og:site_name", func(t *testing.T) {
		raw := `<html><head><meta property="og:site_name" content="My Blog"></head></html>`
		got := extractSourceName(parseHTML(t, raw), baseURL(t, "https://www.example.com/post"))
		assert.Equal(t, "My Blog", got)
	})

	t.Run("domain fallback strips www", func(t *testing.T) {
		got := extractSourceName(parseHTML(t, `<html></html>`), baseURL(t, "https://www.example.com/post"))
		assert.Equal(t, "example.com", got)
	})
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) TranslateToKorean(ctx context.Context, text string) (string, error) {
	return f.out, f.err
}

func TestBilingualTitle(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("english title gets annotated", func(t *testing.T) {
		e := &Extractor{translator: &fakeTranslator{out: "쿠버네티스 입문"}, logger: logger}
		got := e.bilingualTitle(context.Background(), "Kubernetes Basics")
		assert.Equal(t, "쿠버네티스 입문(Kubernetes Basics)", got)
	})

	t.Run("korean title untouched", func(t *testing.T) {
		e := &Extractor{translator: &fakeTranslator{out: "should not be called"}, logger: logger}
		got := e.bilingualTitle(context.Background(), "쿠버네티스 네트워킹 정리")
		assert.Equal(t, "쿠버네티스 네트워킹 정리", got)
	})

	t.Run("translation failure keeps original", func(t *testing.T) {
		e := &Extractor{translator: &fakeTranslator{err: errors.New("model down")}, logger: logger}
		got := e.bilingualTitle(context.Background(), "Kubernetes Basics")
		assert.Equal(t, "Kubernetes Basics", got)
	})
}

func TestExtractRejectsBadURL(t *testing.T) {
	e := NewExtractor(&fakeTranslator{}, zap.NewNop().Sugar())

	for _, u := range []string{"ftp://example.com/file", "not a url at all", "javascript:alert(1)"} {
		got := e.Extract(context.Background(), u)
		assert.Equal(t, Result{}, got, u)
	}
}
