package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// walk visits n and every descendant in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// findFirst returns the first element node matching in document order.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findMeta returns the content attribute of the first <meta> whose key
// attribute (property or name) equals value.
func findMeta(doc *html.Node, key, value string) string {
	meta := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "meta" && strings.EqualFold(attrValue(n, key), value)
	})
	if meta == nil {
		return ""
	}
	return attrValue(meta, "content")
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeText concatenates every text node under n, untrimmed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// normalizeText is nodeText collapsed to single spaces.
func normalizeText(n *html.Node) string {
	return strings.Join(strings.Fields(nodeText(n)), " ")
}
