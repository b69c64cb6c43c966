package utils

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// PageMeta holds the preview fields scraped from an HTML document. Any field
// the page does not provide is left empty.
type PageMeta struct {
	Title       string
	Description string
	Image       string
}

// ParsePageMeta scans the document head for <title> and the common
// description/image meta tags. Open Graph values take precedence. Scanning
// stops at <body> or at the first tokenizer error, so malformed markup yields
// whatever was found up to that point.
func ParsePageMeta(r io.Reader) PageMeta {
	var (
		title, ogTitle      string
		desc, ogDesc        string
		ogImage, twitterImg string
		inTitle             bool
	)

	z := html.NewTokenizer(r)

scan:
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			break scan
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "body":
				break scan
			case "title":
				inTitle = tt == html.StartTagToken
			case "meta":
				if !hasAttr {
					continue
				}
				key, content := metaAttrs(z)
				switch key {
				case "og:title":
					ogTitle = firstNonEmpty(ogTitle, content)
				case "description":
					desc = firstNonEmpty(desc, content)
				case "og:description":
					ogDesc = firstNonEmpty(ogDesc, content)
				case "og:image", "og:image:url":
					ogImage = firstNonEmpty(ogImage, content)
				case "twitter:image":
					twitterImg = firstNonEmpty(twitterImg, content)
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "head":
				break scan
			}
		case html.TextToken:
			if inTitle && title == "" {
				title = strings.TrimSpace(string(z.Text()))
			}
		}
	}

	return PageMeta{
		Title:       firstNonEmpty(ogTitle, title),
		Description: firstNonEmpty(ogDesc, desc),
		Image:       firstNonEmpty(ogImage, twitterImg),
	}
}

// metaAttrs returns the lower-cased property/name key and the trimmed content
// of the current <meta> tag.
func metaAttrs(z *html.Tokenizer) (string, string) {
	var key, content string
	for {
		k, v, more := z.TagAttr()
		switch string(k) {
		case "property", "name":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(string(v)))
			}
		case "content":
			content = strings.TrimSpace(string(v))
		}
		if !more {
			break
		}
	}
	return key, content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
