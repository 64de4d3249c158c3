package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	fetchTimeout = 10 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Blocks shorter than this after whitespace normalization are noise
	// (menu items, button labels, timestamps).
	minBlockRunes = 20
	minLinkRunes  = 5

	directInputLabel = "직접 입력"
	referenceHeading = "### 참조 링크"
	defaultImageAlt  = "이미지"
)

type (
	// Translator annotates extracted English titles with a Korean
	// translation. Implemented by the ollama client.
	Translator interface {
		TranslateToKorean(ctx context.Context, text string) (string, error)
	}

	Reference struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	}

	// Result is everything derived from one page. All fields are empty when
	// the fetch or parse failed; callers treat empty Content as "extraction
	// failed" and decide what to do.
	Result struct {
		Title      string
		Content    string
		SourceName string
		References []Reference
	}

	Extractor struct {
		http       *http.Client
		translator Translator
		logger     *zap.SugaredLogger
	}
)

func NewExtractor(translator Translator, logger *zap.SugaredLogger) *Extractor {
	return &Extractor{
		http:       &http.Client{Timeout: fetchTimeout},
		translator: translator,
		logger:     logger,
	}
}

// Extract fetches targetURL and derives title, content and source name.
// It never returns an error: any fetch or parse failure yields an all-empty
// Result.
func (e *Extractor) Extract(ctx context.Context, targetURL string) Result {
	base, err := url.Parse(targetURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		e.logger.Errorw("invalid scrape url", "url", targetURL, "err", err)
		return Result{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		e.logger.Errorw("build scrape request", "url", targetURL, "err", err)
		return Result{}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Errorw("fetch page", "url", targetURL, "err", err)
		return Result{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Errorw("fetch page", "url", targetURL, "status", resp.StatusCode)
		return Result{}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		e.logger.Errorw("parse page", "url", targetURL, "err", err)
		return Result{}
	}

	title := extractTitle(doc)
	title = e.bilingualTitle(ctx, title)
	content, refs := extractContent(doc, base)

	return Result{
		Title:      title,
		Content:    content,
		SourceName: extractSourceName(doc, base),
		References: refs,
	}
}

// bilingualTitle rewrites an English title as "번역(original)". Detection and
// translation failures leave the title as-is; this step must never block
// bookmark creation.
func (e *Extractor) bilingualTitle(ctx context.Context, title string) string {
	if title == "" || DetectLanguage(title) != LangEnglish {
		return title
	}
	translated, err := e.translator.TranslateToKorean(ctx, title)
	if err != nil {
		e.logger.Warnw("title translation failed, keeping original", "title", title, "err", err)
		return title
	}
	translated = strings.TrimSpace(translated)
	if translated == "" || translated == title {
		return title
	}
	return fmt.Sprintf("%s(%s)", translated, title)
}

// extractTitle walks the document for a title, first match wins:
// og:title meta, h1 inside <article>, first h1 anywhere, then <title> with
// the trailing " - Site" / " | Site" suffix cut at the first delimiter.
func extractTitle(doc *html.Node) string {
	if meta := findMeta(doc, "property", "og:title"); meta != "" {
		return strings.TrimSpace(meta)
	}

	if article := findFirst(doc, func(n *html.Node) bool { return n.Data == "article" }); article != nil {
		if h1 := findFirst(article, func(n *html.Node) bool { return n.Data == "h1" }); h1 != nil {
			return normalizeText(h1)
		}
	}

	if h1 := findFirst(doc, func(n *html.Node) bool { return n.Data == "h1" }); h1 != nil {
		return normalizeText(h1)
	}

	if titleNode := findFirst(doc, func(n *html.Node) bool { return n.Data == "title" }); titleNode != nil {
		title := nodeText(titleNode)
		if i := strings.Index(title, "|"); i >= 0 {
			title = title[:i]
		}
		if i := strings.Index(title, "-"); i >= 0 {
			title = title[:i]
		}
		return strings.TrimSpace(title)
	}

	return ""
}

// contentSelectors is the ordered list of roots tried before falling back to
// the whole document.
var contentSelectors = []func(*html.Node) bool{
	func(n *html.Node) bool { return n.Data == "article" },
	func(n *html.Node) bool { return n.Data == "main" },
	func(n *html.Node) bool { return hasClass(n, "post-content") },
	func(n *html.Node) bool { return hasClass(n, "article-content") },
	func(n *html.Node) bool { return hasClass(n, "entry-content") },
}

var noiseTags = map[string]bool{
	"script": true, "style": true, "nav": true,
	"header": true, "footer": true, "aside": true,
}

var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true,
}

// extractContent walks block elements under the main content root, keeps
// deduplicated blocks above the minimum length, inlines images as markdown
// and collects outbound reference links into a trailing markdown section.
func extractContent(doc *html.Node, base *url.URL) (string, []Reference) {
	root := doc
	for _, match := range contentSelectors {
		if n := findFirst(doc, match); n != nil {
			root = n
			break
		}
	}

	stripNoise(root)

	var (
		blocks     []string
		refs       []Reference
		seenTexts  = map[string]bool{}
		seenURLs   = map[string]bool{}
		seenImages = map[string]bool{}
	)

	walk(root, func(n *html.Node) {
		// Descendants only: a class-selected div root is a container, not a
		// block of its own.
		if n == root || n.Type != html.ElementNode || !blockTags[n.Data] {
			return
		}

		text := normalizeText(n)
		if text == "" || utf8.RuneCountInString(text) <= minBlockRunes || seenTexts[text] {
			return
		}
		seenTexts[text] = true
		blocks = append(blocks, text)

		walk(n, func(a *html.Node) {
			if a.Type != html.ElementNode || a.Data != "a" {
				return
			}
			href := attrValue(a, "href")
			if href == "" {
				return
			}
			abs, err := base.Parse(href)
			if err != nil || seenURLs[abs.String()] {
				return
			}
			linkText := normalizeText(a)
			if linkText != "" && utf8.RuneCountInString(linkText) > minLinkRunes {
				seenURLs[abs.String()] = true
				refs = append(refs, Reference{Text: linkText, URL: abs.String()})
			}
		})

		walk(n, func(img *html.Node) {
			if img.Type != html.ElementNode || img.Data != "img" {
				return
			}
			src := attrValue(img, "src")
			if src == "" || strings.HasPrefix(src, "data:") {
				return
			}
			abs, err := base.Parse(src)
			if err != nil || seenImages[abs.String()] {
				return
			}
			seenImages[abs.String()] = true
			alt := attrValue(img, "alt")
			if alt == "" {
				alt = defaultImageAlt
			}
			blocks = append(blocks, fmt.Sprintf("![%s](%s)", alt, abs.String()))
		})
	})

	if len(refs) > 0 {
		blocks = append(blocks, "\n"+referenceHeading)
		for _, ref := range refs {
			blocks = append(blocks, fmt.Sprintf("- [%s](%s)", ref.Text, ref.URL))
		}
	}

	return strings.Join(blocks, "\n\n"), refs
}

// extractSourceName prefers the og:site_name metadata, else the domain with a
// leading "www." stripped.
func extractSourceName(doc *html.Node, base *url.URL) string {
	if meta := findMeta(doc, "property", "og:site_name"); meta != "" {
		return strings.TrimSpace(meta)
	}
	return strings.TrimPrefix(base.Hostname(), "www.")
}

// stripNoise removes script/style/nav/header/footer/aside subtrees in place
// before block extraction.
func stripNoise(root *html.Node) {
	var doomed []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && noiseTags[n.Data] {
			doomed = append(doomed, n)
		}
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
